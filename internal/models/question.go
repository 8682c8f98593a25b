package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	CodeChallenge  QuestionType = "code_challenge"
	Essay          QuestionType = "essay"
)

// QuestionTypes is the closed set of supported variants. Anything outside it
// is rejected at the boundary; the grading and sanitization registries are
// keyed by this set exhaustively.
var QuestionTypes = []QuestionType{MultipleChoice, TrueFalse, FillBlank, CodeChallenge, Essay}

// AutoGradable reports whether the variant scores without a human grader.
// code_challenge and essay always go through deferred manual grading.
func (t QuestionType) AutoGradable() bool {
	switch t {
	case MultipleChoice, TrueFalse, FillBlank:
		return true
	default:
		return false
	}
}

func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Question is one element of a quiz's question document. IDs are assigned at
// creation and never reused. Content carries the variant payload; decode it
// through the typed accessors, never by hand.
type Question struct {
	ID     string       `json:"id"`
	Type   QuestionType `json:"type"`
	Text   string       `json:"text"`
	Points int          `json:"points"`
	Order  int          `json:"order"`

	// Content stored as JSON for variant flexibility
	Content json.RawMessage `json:"content"`

	// Metadata
	Explanation *string         `json:"explanation,omitempty"`
	Difficulty  DifficultyLevel `json:"difficulty,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

// QuestionDocument holds a quiz's ordered question list as one JSONB row.
// It lives in the document store and is never written inside a quiz-table
// transaction.
type QuestionDocument struct {
	QuizID    string         `json:"quiz_id" gorm:"primaryKey;size:36"`
	Questions datatypes.JSON `json:"questions" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (QuestionDocument) TableName() string {
	return "quiz_questions"
}

// Decode unmarshals the stored question list.
func (d *QuestionDocument) Decode() ([]Question, error) {
	if len(d.Questions) == 0 {
		return []Question{}, nil
	}
	var questions []Question
	if err := json.Unmarshal(d.Questions, &questions); err != nil {
		return nil, fmt.Errorf("decode question document for quiz %s: %w", d.QuizID, err)
	}
	return questions, nil
}

// Encode replaces the stored question list.
func (d *QuestionDocument) Encode(questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode question document for quiz %s: %w", d.QuizID, err)
	}
	d.Questions = data
	return nil
}

// ===== QUESTION CONTENT SCHEMAS =====

type MultipleChoiceContent struct {
	Options []ChoiceOption `json:"options"`
}

type ChoiceOption struct {
	OptionID  string `json:"option_id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// CorrectOption returns the option flagged correct. Validation guarantees
// exactly one exists on stored questions.
func (c MultipleChoiceContent) CorrectOption() (ChoiceOption, bool) {
	for _, opt := range c.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return ChoiceOption{}, false
}

type TrueFalseContent struct {
	CorrectAnswer bool `json:"correct_answer"`
}

type FillBlankContent struct {
	CorrectAnswers []string `json:"correct_answers"`
	CaseSensitive  bool     `json:"case_sensitive"`
}

type CodeChallengeContent struct {
	Language    string     `json:"language"`
	StarterCode string     `json:"starter_code"`
	TestCases   []TestCase `json:"test_cases"`
	Solution    *string    `json:"solution,omitempty"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type EssayContent struct {
	MinWords *int              `json:"min_words,omitempty"`
	MaxWords *int              `json:"max_words,omitempty"`
	Rubric   []RubricCriterion `json:"rubric,omitempty"`
}

type RubricCriterion struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// DecodeContent unmarshals the variant payload into dst, which must be the
// content struct matching q.Type.
func (q *Question) DecodeContent(dst any) error {
	if len(q.Content) == 0 {
		return fmt.Errorf("question %s has no content", q.ID)
	}
	if err := json.Unmarshal(q.Content, dst); err != nil {
		return fmt.Errorf("decode %s content for question %s: %w", q.Type, q.ID, err)
	}
	return nil
}
