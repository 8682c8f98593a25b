package grading

import (
	"strings"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// variantHandler is the per-type behavior bundle. The registry below covers
// every member of models.QuestionTypes; an unknown type never reaches a
// handler because lookups go through handlerFor.
type variantHandler interface {
	// grade scores one submitted answer against its question. Manual-only
	// variants always return an ungraded outcome.
	grade(question models.Question, answer models.Answer) (Outcome, error)

	// validateContent checks the variant payload for internal consistency.
	validateContent(question models.Question) []Issue

	// strip removes correct-answer-revealing fields from the decoded content
	// map in place, according to the viewer capability.
	strip(content map[string]any, capability Capability)
}

// Outcome is the tri-state grading result for a single answer.
type Outcome struct {
	Status       models.GradingStatus
	PointsEarned float64
}

func correct(points int) Outcome {
	return Outcome{Status: models.GradingCorrect, PointsEarned: float64(points)}
}

func incorrect() Outcome {
	return Outcome{Status: models.GradingIncorrect}
}

func ungraded() Outcome {
	return Outcome{Status: models.GradingUngraded}
}

// Issue is a field-level validation finding, converted into the service
// layer's validation error type by callers.
type Issue struct {
	Field   string
	Message string
}

var handlers = map[models.QuestionType]variantHandler{
	models.MultipleChoice: multipleChoiceHandler{},
	models.TrueFalse:      trueFalseHandler{},
	models.FillBlank:      fillBlankHandler{},
	models.CodeChallenge:  codeChallengeHandler{},
	models.Essay:          essayHandler{},
}

func handlerFor(t models.QuestionType) (variantHandler, bool) {
	h, ok := handlers[t]
	return h, ok
}

// ===== MULTIPLE CHOICE =====

type multipleChoiceHandler struct{}

func (multipleChoiceHandler) grade(question models.Question, answer models.Answer) (Outcome, error) {
	var content models.MultipleChoiceContent
	if err := question.DecodeContent(&content); err != nil {
		return Outcome{}, err
	}

	if answer.SelectedOption == nil {
		return incorrect(), nil
	}

	correctOption, ok := content.CorrectOption()
	if ok && *answer.SelectedOption == correctOption.OptionID {
		return correct(question.Points), nil
	}
	return incorrect(), nil
}

func (multipleChoiceHandler) validateContent(question models.Question) []Issue {
	var content models.MultipleChoiceContent
	if err := question.DecodeContent(&content); err != nil {
		return []Issue{{Field: "content", Message: "invalid multiple_choice content"}}
	}

	var issues []Issue
	if len(content.Options) < 2 {
		issues = append(issues, Issue{Field: "content.options", Message: "at least two options are required"})
	}

	correctCount := 0
	seen := make(map[string]bool, len(content.Options))
	for _, opt := range content.Options {
		if opt.IsCorrect {
			correctCount++
		}
		if opt.OptionID == "" {
			issues = append(issues, Issue{Field: "content.options", Message: "every option needs an option_id"})
		} else if seen[opt.OptionID] {
			issues = append(issues, Issue{Field: "content.options", Message: "duplicate option_id: " + opt.OptionID})
		}
		seen[opt.OptionID] = true
		if strings.TrimSpace(opt.Text) == "" {
			issues = append(issues, Issue{Field: "content.options", Message: "option text cannot be empty"})
		}
	}
	if correctCount != 1 {
		issues = append(issues, Issue{Field: "content.options", Message: "exactly one option must be marked correct"})
	}
	return issues
}

func (multipleChoiceHandler) strip(content map[string]any, capability Capability) {
	options, ok := content["options"].([]any)
	if !ok {
		return
	}
	for _, raw := range options {
		if opt, ok := raw.(map[string]any); ok {
			delete(opt, "is_correct")
		}
	}
}

// ===== TRUE / FALSE =====

type trueFalseHandler struct{}

func (trueFalseHandler) grade(question models.Question, answer models.Answer) (Outcome, error) {
	var content models.TrueFalseContent
	if err := question.DecodeContent(&content); err != nil {
		return Outcome{}, err
	}

	if answer.SelectedAnswer == nil {
		return incorrect(), nil
	}
	if *answer.SelectedAnswer == content.CorrectAnswer {
		return correct(question.Points), nil
	}
	return incorrect(), nil
}

func (trueFalseHandler) validateContent(question models.Question) []Issue {
	var content models.TrueFalseContent
	if err := question.DecodeContent(&content); err != nil {
		return []Issue{{Field: "content", Message: "invalid true_false content"}}
	}
	return nil
}

func (trueFalseHandler) strip(content map[string]any, capability Capability) {
	delete(content, "correct_answer")
}

// ===== FILL IN THE BLANK =====

type fillBlankHandler struct{}

func (fillBlankHandler) grade(question models.Question, answer models.Answer) (Outcome, error) {
	var content models.FillBlankContent
	if err := question.DecodeContent(&content); err != nil {
		return Outcome{}, err
	}

	if answer.TextAnswer == nil {
		return incorrect(), nil
	}
	submitted := strings.TrimSpace(*answer.TextAnswer)
	for _, accepted := range content.CorrectAnswers {
		if compareStrings(submitted, accepted, content.CaseSensitive) {
			return correct(question.Points), nil
		}
	}
	return incorrect(), nil
}

func (fillBlankHandler) validateContent(question models.Question) []Issue {
	var content models.FillBlankContent
	if err := question.DecodeContent(&content); err != nil {
		return []Issue{{Field: "content", Message: "invalid fill_blank content"}}
	}

	var issues []Issue
	if len(content.CorrectAnswers) == 0 {
		issues = append(issues, Issue{Field: "content.correct_answers", Message: "at least one accepted answer is required"})
	}
	for _, accepted := range content.CorrectAnswers {
		if strings.TrimSpace(accepted) == "" {
			issues = append(issues, Issue{Field: "content.correct_answers", Message: "accepted answers cannot be empty"})
			break
		}
	}
	return issues
}

func (fillBlankHandler) strip(content map[string]any, capability Capability) {
	delete(content, "correct_answers")
	delete(content, "case_sensitive")
}

// ===== CODE CHALLENGE =====

type codeChallengeHandler struct{}

func (codeChallengeHandler) grade(question models.Question, answer models.Answer) (Outcome, error) {
	// Code submissions always wait for a human grader.
	return ungraded(), nil
}

func (codeChallengeHandler) validateContent(question models.Question) []Issue {
	var content models.CodeChallengeContent
	if err := question.DecodeContent(&content); err != nil {
		return []Issue{{Field: "content", Message: "invalid code_challenge content"}}
	}

	var issues []Issue
	if strings.TrimSpace(content.Language) == "" {
		issues = append(issues, Issue{Field: "content.language", Message: "language is required"})
	}
	if len(content.TestCases) == 0 {
		issues = append(issues, Issue{Field: "content.test_cases", Message: "at least one test case is required"})
	}
	return issues
}

func (codeChallengeHandler) strip(content map[string]any, capability Capability) {
	delete(content, "solution")
	switch capability {
	case ViewAttempt:
		// During an attempt the full test suite stays hidden.
		delete(content, "test_cases")
	case ViewQuiz:
		// Quiz readers keep test case inputs but never expected outputs.
		if cases, ok := content["test_cases"].([]any); ok {
			for _, raw := range cases {
				if tc, ok := raw.(map[string]any); ok {
					delete(tc, "expected_output")
				}
			}
		}
	}
}

// ===== ESSAY =====

type essayHandler struct{}

func (essayHandler) grade(question models.Question, answer models.Answer) (Outcome, error) {
	return ungraded(), nil
}

func (essayHandler) validateContent(question models.Question) []Issue {
	var content models.EssayContent
	if err := question.DecodeContent(&content); err != nil {
		return []Issue{{Field: "content", Message: "invalid essay content"}}
	}

	var issues []Issue
	if content.MinWords != nil && *content.MinWords < 0 {
		issues = append(issues, Issue{Field: "content.min_words", Message: "min_words cannot be negative"})
	}
	if content.MinWords != nil && content.MaxWords != nil && *content.MinWords > *content.MaxWords {
		issues = append(issues, Issue{Field: "content.max_words", Message: "max_words must be at least min_words"})
	}
	for _, criterion := range content.Rubric {
		if strings.TrimSpace(criterion.Name) == "" {
			issues = append(issues, Issue{Field: "content.rubric", Message: "rubric criteria need a name"})
		}
		if criterion.Points < 1 {
			issues = append(issues, Issue{Field: "content.rubric", Message: "rubric criteria need a positive point value"})
		}
	}
	return issues
}

func (essayHandler) strip(content map[string]any, capability Capability) {
	// Essays carry no correct-answer data; rubric and word bounds are safe.
}

func compareStrings(s1, s2 string, caseSensitive bool) bool {
	s1 = strings.TrimSpace(s1)
	s2 = strings.TrimSpace(s2)
	if !caseSensitive {
		s1 = strings.ToLower(s1)
		s2 = strings.ToLower(s2)
	}
	return s1 == s2
}
