package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is one field-level validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors accumulates field-level failures for one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// HasErrors reports whether any failure was recorded
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ToValidationErrors converts go-playground validator errors into our
// accumulated form so callers see one shape regardless of origin.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{
			Field:   "request",
			Message: err.Error(),
			Rule:    "invalid",
		}}
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fieldName(fe),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is "Request.Field"; drop the struct name
	parts := strings.SplitN(fe.StructNamespace(), ".", 2)
	if len(parts) == 2 {
		return strings.ToLower(parts[1])
	}
	return strings.ToLower(fe.Field())
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "passing_score":
		return "must be between 1 and 100"
	case "quiz_title":
		return "must be between 1 and 200 characters"
	case "time_limit":
		return "must be between 1 and 600 minutes"
	case "max_attempts":
		return "must be between 1 and 50"
	case "question_type":
		return "is not a supported question type"
	case "difficulty_level":
		return "must be easy, medium or hard"
	case "points_range":
		return "must be between 1 and 100"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
