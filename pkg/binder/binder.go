// Package binder decodes and validates JSON request bodies.
//
// Decoding is strict: unknown fields are rejected, and the declared
// Content-Type must be application/json. Validation runs the struct's
// `validate` tags through go-playground/validator and reports failures
// per field, so handlers can return them to the client verbatim.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldErrors maps a field name to the validation messages raised for it.
type FieldErrors map[string][]string

// ValidationError carries per-field validation failures for a decoded body.
type ValidationError struct {
	Fields FieldErrors
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// BindJSON decodes the request body into v and validates it.
// Returns ErrUnsupportedMediaType, ErrInvalidJSON, or a ValidationError.
func BindJSON(r *http.Request, v any) error {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %q", ErrUnsupportedMediaType, contentType)
		}
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := validatorInstance().Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			// v is not a struct; nothing to validate.
			return nil
		}
		fields := FieldErrors{}
		for _, fieldErr := range fieldErrs {
			name := fieldErr.Field()
			fields[name] = append(fields[name], validationMessage(fieldErr))
		}
		return ValidationError{Fields: fields}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
