package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError is a validation failure on one field, named by its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects the field-level failures for one form or patch.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the first message for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator checks user-entered application fields. The clock is injectable so
// that "not in the future" is testable.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a Validator. A nil now uses time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Dates are validated as time.Time; an unset date becomes nil so that
	// omitempty skips it.
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time()
	}, Date{})

	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.validate.RegisterValidation("taxonomy", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !DateOf(t).After(v.Today())
	})

	return v
}

var defaultValidator = sync.OnceValue(func() *Validator { return NewValidator(nil) })

// DefaultValidator returns the process-wide validator using the wall clock.
func DefaultValidator() *Validator {
	return defaultValidator()
}

// Today is the validator's current calendar date in local time.
func (v *Validator) Today() Date {
	return DateOf(v.now())
}

// ValidateNew checks the fields of a record about to be created.
func (v *Validator) ValidateNew(f NewApplication) error {
	return v.check(f)
}

// ValidatePatch checks only the fields present in p.
func (v *Validator) ValidatePatch(p ApplicationPatch) error {
	return v.check(p)
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate application: %w", err)
	}
	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Message: messageFor(fe.Tag())})
	}
	return out
}

func messageFor(tag string) string {
	switch tag {
	case "notblank":
		return "is required"
	case "taxonomy":
		ids := make([]string, 0, len(taxonomy))
		for _, s := range Statuses() {
			ids = append(ids, string(s))
		}
		return "must be one of " + strings.Join(ids, ", ")
	case "notfuture":
		return "must not be in the future"
	default:
		return "is invalid"
	}
}
