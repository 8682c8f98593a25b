package validator

import (
	"fmt"
	"strings"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator handles request and business rule validation
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the custom business rules registered
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerBusinessRules()

	return v
}

// Validate validates struct tags and returns accumulated field errors
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateQuizCreate validates quiz creation business rules
func (v *Validator) ValidateQuizCreate(req *QuizCreateRequest) ValidationErrors {
	return v.Validate(req)
}

// ValidateQuizUpdate validates quiz update business rules. Only defined
// fields are checked; nil pointers mean "leave unchanged".
func (v *Validator) ValidateQuizUpdate(req *QuizUpdateRequest) ValidationErrors {
	return v.Validate(req)
}

// ValidateQuestionCreate validates the envelope of a new question. The
// variant payload gets its deeper consistency check in the service, against
// the merged question object.
func (v *Validator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, v.Validate(req)...)
	errors = append(errors, v.validateTags(req.Tags)...)
	return errors
}

// ValidateQuestionUpdate validates a question patch envelope
func (v *Validator) ValidateQuestionUpdate(req *QuestionUpdateRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, v.Validate(req)...)
	errors = append(errors, v.validateTags(req.Tags)...)
	return errors
}

// ValidateSubmitAttempt validates the submission envelope
func (v *Validator) ValidateSubmitAttempt(req *SubmitAttemptRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, v.Validate(req)...)

	seen := make(map[string]bool, len(req.Answers))
	for i, answer := range req.Answers {
		if seen[answer.QuestionID] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("answers[%d].question_id", i),
				Message: "duplicate answer for question",
				Value:   answer.QuestionID,
				Rule:    "business_logic",
			})
		}
		seen[answer.QuestionID] = true
	}
	return errors
}

// ValidateGradeAttempt validates a manual grading request
func (v *Validator) ValidateGradeAttempt(req *GradeAttemptRequest) ValidationErrors {
	return v.Validate(req)
}

func (v *Validator) validateTags(tags []string) ValidationErrors {
	var errors ValidationErrors

	if len(tags) > 10 {
		errors = append(errors, ValidationError{
			Field:   "tags",
			Message: "cannot have more than 10 tags",
			Value:   len(tags),
			Rule:    "business_logic",
		})
	}
	for i, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("tags[%d]", i),
				Message: "tag cannot be empty",
				Value:   tag,
				Rule:    "business_logic",
			})
		}
	}
	return errors
}

// registerBusinessRules registers custom business rule validators
func (v *Validator) registerBusinessRules() {
	// Passing score threshold (1-100 percent)
	v.validate.RegisterValidation("passing_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Int()
		return score >= 1 && score <= 100
	})

	// Quiz title (1-200 characters after trimming)
	v.validate.RegisterValidation("quiz_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Time limit in minutes
	v.validate.RegisterValidation("time_limit", func(fl validator.FieldLevel) bool {
		limit := fl.Field().Int()
		return limit >= 1 && limit <= 600
	})

	// Max attempts bound
	v.validate.RegisterValidation("max_attempts", func(fl validator.FieldLevel) bool {
		attempts := fl.Field().Int()
		return attempts >= 1 && attempts <= 50
	})

	// Question type validation
	v.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return models.QuestionType(fl.Field().String()).Valid()
	})

	// Difficulty level validation
	v.validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().String()
		validLevels := []models.DifficultyLevel{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
		for _, vl := range validLevels {
			if models.DifficultyLevel(level) == vl {
				return true
			}
		}
		return false
	})

	// Points range validation
	v.validate.RegisterValidation("points_range", func(fl validator.FieldLevel) bool {
		points := fl.Field().Int()
		return points >= 1 && points <= 100
	})
}
