// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/amityar/labpubs/pkg/types"
)

// generatePath is the Ollama-style text generation route on the local
// inference endpoint.
const generatePath = "/api/generate"

// OllamaBackend calls a local Ollama-compatible endpoint for text
// generation.
type OllamaBackend struct {
	Endpoint string
	Model    string
	Client   *http.Client
}

// NewOllamaBackend builds a backend from the inference configuration.
func NewOllamaBackend(cfg types.InferenceConfig) *OllamaBackend {
	return &OllamaBackend{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		Client:   &http.Client{Timeout: cfg.Timeout},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate sends prompt to the local model and returns the raw textual
// response.
func (b *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{Model: b.Model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint+generatePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, string(msg))
	}

	var or ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", fmt.Errorf("decoding inference response: %w", err)
	}
	if or.Response == "" {
		return "", fmt.Errorf("inference endpoint returned empty response")
	}
	return or.Response, nil
}
