package grading

import (
	"strings"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// ValidateQuestion checks a fully merged question (never a bare patch) for
// structural and variant consistency. Updates must merge the patch into the
// stored question before calling this, so type changes and partial content
// edits are always re-checked against the whole object.
func ValidateQuestion(question models.Question) []Issue {
	var issues []Issue

	if strings.TrimSpace(question.ID) == "" {
		issues = append(issues, Issue{Field: "id", Message: "question id is required"})
	}
	if strings.TrimSpace(question.Text) == "" {
		issues = append(issues, Issue{Field: "text", Message: "question text is required"})
	}
	if question.Points < 1 {
		issues = append(issues, Issue{Field: "points", Message: "points must be a positive integer"})
	}

	handler, ok := handlerFor(question.Type)
	if !ok {
		issues = append(issues, Issue{Field: "type", Message: "unsupported question type: " + string(question.Type)})
		return issues
	}

	issues = append(issues, handler.validateContent(question)...)
	return issues
}
