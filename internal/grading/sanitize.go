package grading

import (
	"encoding/json"
	"fmt"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// Capability scopes how much of a question a viewer may see. There is one
// sanitizer for the whole service; call sites differ only in the capability
// they pass.
type Capability int

const (
	// ViewFull leaves the question untouched. Administrators, instructors
	// and the quiz's owning instructor read with this capability.
	ViewFull Capability = iota

	// ViewQuiz is the read path for everyone else: correct-answer data is
	// stripped, but code challenge test cases keep their inputs.
	ViewQuiz

	// ViewAttempt is the strictest projection, used when handing questions
	// to a learner starting an attempt.
	ViewAttempt
)

// Sanitize returns a capability-scoped projection of the question. The
// operation is idempotent: sanitizing an already-sanitized question is a
// no-op, so stripped fields can never reappear.
func Sanitize(question models.Question, capability Capability) (models.Question, error) {
	if capability == ViewFull {
		return question, nil
	}

	handler, ok := handlerFor(question.Type)
	if !ok {
		return models.Question{}, fmt.Errorf("unsupported question type %q for question %s", question.Type, question.ID)
	}

	var content map[string]any
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return models.Question{}, fmt.Errorf("decode content for question %s: %w", question.ID, err)
	}

	handler.strip(content, capability)

	stripped, err := json.Marshal(content)
	if err != nil {
		return models.Question{}, fmt.Errorf("encode sanitized content for question %s: %w", question.ID, err)
	}
	question.Content = stripped
	return question, nil
}

// SanitizeAll projects an entire question list.
func SanitizeAll(questions []models.Question, capability Capability) ([]models.Question, error) {
	if capability == ViewFull {
		return questions, nil
	}
	sanitized := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		sq, err := Sanitize(q, capability)
		if err != nil {
			return nil, err
		}
		sanitized = append(sanitized, sq)
	}
	return sanitized, nil
}
