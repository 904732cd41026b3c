// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file checks Config invariants with go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// A symbol is any non-empty word without whitespace.
var symbolPattern = regexp.MustCompile(`^\S+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("symbol", validateSymbol); err != nil {
		panic(fmt.Sprintf("failed to register symbol validation: %v", err))
	}
	return v
}

func validateSymbol(fl validator.FieldLevel) bool {
	return symbolPattern.MatchString(fl.Field().String())
}

// ValidSymbol reports whether s is acceptable as a Symbol value.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// ValidationError reports the fields of a Config that violate its invariants.
type ValidationError struct {
	Problems []string
	Err      error
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the invariants of every field that is set.
func (c *Config) Validate() error {
	err := validate.Struct(c.Snapshot())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Snapshot.")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s: failed %q (%s), got %v", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			problems = append(problems, fmt.Sprintf("%s: failed %q, got %v", field, fe.Tag(), fe.Value()))
		}
	}
	return &ValidationError{Problems: problems, Err: err}
}
