// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for query inputs.
//
// Custom tags:
//   - bucket: one of hour, day, week, month, year (case-insensitive)
//   - mmddyy: a calendar date in mm/dd/yy form, e.g. 12/01/16
//
// Example usage:
//
//	type ReportQuery struct {
//	    Address string `validate:"required"`
//	    MinTime string `validate:"omitempty,mmddyy"`
//	    Bucket  string `validate:"omitempty,bucket"`
//	}
//
//	if err := validation.ValidateStruct(&q); err != nil {
//	    return nil, err
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the mm/dd/yy layout accepted by the mmddyy tag.
const DateLayout = "01/02/06"

// Buckets lists the accepted reward aggregation bucket names.
var Buckets = []string{"hour", "day", "week", "month", "year"}

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed struct field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects every failed field of one struct.
type RequestValidationError struct {
	Fields []FieldError
}

// Error joins the field messages with "; ".
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.Fields))
	for _, fe := range ve.Fields {
		messages = append(messages, fe.Message)
	}

	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("bucket", validateBucket)
		_ = validate.RegisterValidation("mmddyy", validateDate)
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or an error wrapping *RequestValidationError
// if validation fails.
//
// The error is returned as the error interface so a nil result compares
// equal to nil at call sites.
func ValidateStruct(s any) error {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}},
		}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fields[i] = FieldError{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{Fields: fields}
}

// IsBucket reports whether name is an accepted bucket, ignoring case.
func IsBucket(name string) bool {
	lower := strings.ToLower(name)
	for _, b := range Buckets {
		if lower == b {
			return true
		}
	}
	return false
}

// ParseDate parses an mm/dd/yy date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected mm/dd/yy: %w", value, err)
	}
	return t, nil
}

func validateBucket(fl validator.FieldLevel) bool {
	return IsBucket(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"bucket":   "%s must be one of: hour day week month year",
	"mmddyy":   "%s must be a date in mm/dd/yy format",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	return fmt.Sprintf("%s failed %s validation", field, tag)
}
