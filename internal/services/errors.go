package services

import (
	"errors"
	"fmt"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

// ===== SENTINEL ERRORS =====

var (
	// Not found
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrLessonNotFound   = errors.New("lesson not found")

	// Conflicts
	ErrQuizAlreadyExists       = errors.New("lesson already has a quiz")
	ErrAttemptInProgress       = errors.New("an attempt is already in progress")
	ErrAttemptAlreadySubmitted = errors.New("attempt has already been submitted")

	// Business rules
	ErrAttemptLimitReached = errors.New("maximum number of attempts reached")
	ErrAttemptTimeExpired  = errors.New("attempt time limit has expired")
	ErrAttemptNotSubmitted = errors.New("attempt has not been submitted")
	ErrEnrollmentNotActive = errors.New("enrollment is not active")
	ErrLessonNotPublished  = errors.New("lesson is not published")
	ErrLessonNotQuizType   = errors.New("lesson is not a quiz lesson")
)

// ===== TYPED ERRORS =====

// PermissionError carries enough context to log who tried what on which
// resource. Handlers map it to 403.
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError is a named rule violation that is not a plain sentinel.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

// NewValidationError wraps a single field failure in the shared accumulated
// form so services can reject ad hoc without constructing a validator run.
func NewValidationError(field, message string, value interface{}) validator.ValidationErrors {
	return validator.ValidationErrors{{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    "business",
	}}
}
