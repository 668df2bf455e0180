// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate enforces the schema contract every pipeline strategy's
// output must meet. It is the single quality gate: the same rules run
// regardless of which strategy produced a candidate record.
package validate

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/amityar/labpubs/pkg/types"
)

// doiPattern matches registered DOIs: "10." followed by at least four digits,
// a slash, and a non-empty suffix. "10.12/x" is rejected.
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// v is the shared validator instance. Struct tags on types.ParsedRecord
// carry the rules; the custom tags are registered here.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tag names.
	_ = val.RegisterValidation("notblank", validators.NotBlank)
	_ = val.RegisterValidation("doi", func(fl validator.FieldLevel) bool {
		return doiPattern.MatchString(fl.Field().String())
	})
	return val
}

// Record checks rec against the schema contract and returns whether it is
// valid plus a description of every violated rule. Pure and deterministic;
// rec is not modified.
func Record(rec *types.ParsedRecord) (bool, []string) {
	err := v.Struct(rec)
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation errors only occur for invalid input types.
		return false, []string{err.Error()}
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, describe(fe, rec))
	}
	return false, violations
}

// describe converts a field error into a stable, human-readable rule
// description. The wording is part of the output contract: downstream
// review tooling matches on these strings.
func describe(fe validator.FieldError, rec *types.ParsedRecord) string {
	switch fe.StructField() {
	case "Title":
		return "missing title"
	case "Authors":
		switch fe.Tag() {
		case "required", "min":
			return "missing authors"
		case "notblank":
			return "blank author name"
		}
	case "Type":
		if fe.Tag() == "required" {
			return "missing type"
		}
		return fmt.Sprintf("unknown type %q", rec.Type)
	case "Year":
		return fmt.Sprintf("year %d out of range [1950, 2030]", rec.Year)
	case "DOI":
		return fmt.Sprintf("malformed DOI %q", rec.DOI)
	}
	// Authors[i] element failures surface with the indexed field name.
	if fe.Tag() == "notblank" {
		return "blank author name"
	}
	return fmt.Sprintf("%s: failed %s", fe.StructField(), fe.Tag())
}

// DOIValid reports whether s matches the DOI format accepted by the
// schema contract.
func DOIValid(s string) bool {
	return doiPattern.MatchString(s)
}
