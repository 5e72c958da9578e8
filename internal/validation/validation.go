// Package validation wraps go-playground/validator with field error
// collection. Collected errors unwrap to the sentinel of the package that
// created them so callers can match with errors.Is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"LocalSlides/internal/markup"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return markup.ValidColor(fl.Field().String())
	})
	return v
}

// FieldError is a single failed rule
type FieldError struct {
	Field   string
	Message string
}

// Errors aggregates field errors
type Errors struct {
	cause  error
	Fields []FieldError
}

func New(cause error) *Errors {
	return &Errors{cause: cause}
}

func (v *Errors) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// Struct validates s and records every failure under prefix
func (v *Errors) Struct(prefix string, s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.Add(prefix, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		v.Add(join(prefix, fe.Field()), message(fe))
	}
}

func (v *Errors) HasErrors() bool {
	return len(v.Fields) > 0
}

// Err returns v as an error, or nil when nothing was recorded
func (v *Errors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *Errors) Error() string {
	if len(v.Fields) == 0 {
		return ""
	}

	messages := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		messages[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	prefix := "validation failed"
	if v.cause != nil {
		prefix = v.cause.Error()
	}
	return fmt.Sprintf("%s: %s", prefix, strings.Join(messages, "; "))
}

func (v *Errors) Unwrap() error {
	return v.cause
}

// Var validates a single value against a tag
func Var(value any, tag string) error {
	return validate.Var(value, tag)
}

func join(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gtfield":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "color":
		return "must be a colour"
	default:
		return "is invalid"
	}
}
