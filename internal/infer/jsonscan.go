// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import "strings"

// stripReasoning removes a model "thinking" segment preceding the terminal
// reasoning delimiter, when the model emits one.
func stripReasoning(resp string) string {
	if i := strings.LastIndex(resp, "</think>"); i >= 0 {
		return resp[i+len("</think>"):]
	}
	return resp
}

// extractJSON locates the JSON object in a model response. The last
// uniquely delimited block wins — models that echo the prompt repeat the
// worked example's block first, and the answer follows it. A
// balanced-object scan over the remaining text is the compatibility path
// for models that ignore the delimiter instruction.
func extractJSON(resp string) string {
	resp = stripReasoning(resp)

	if open := strings.LastIndex(resp, recordOpen); open >= 0 {
		rest := resp[open+len(recordOpen):]
		if close := strings.Index(rest, recordClose); close >= 0 {
			if obj := firstBalancedObject(rest[:close]); obj != "" {
				return obj
			}
		}
	}

	return firstBalancedObject(resp)
}

// firstBalancedObject returns the first string-aware balanced {...} span
// in s, or "".
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
