package validator

import (
	"encoding/json"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// QuizCreateRequest represents the request structure for creating a quiz
type QuizCreateRequest struct {
	LessonID           string  `json:"lesson_id" validate:"required"`
	Title              string  `json:"title" validate:"required,quiz_title"`
	Description        *string `json:"description" validate:"omitempty,max=1000"`
	TimeLimitMinutes   *int    `json:"time_limit_minutes" validate:"omitempty,time_limit"`
	PassingScore       int     `json:"passing_score" validate:"required,passing_score"`
	MaxAttempts        *int    `json:"max_attempts" validate:"omitempty,max_attempts"`
	RandomizeQuestions bool    `json:"randomize_questions"`
	RandomizeOptions   bool    `json:"randomize_options"`
}

// QuizUpdateRequest is a partial update; nil fields stay unchanged
type QuizUpdateRequest struct {
	Title              *string `json:"title" validate:"omitempty,quiz_title"`
	Description        *string `json:"description" validate:"omitempty,max=1000"`
	TimeLimitMinutes   *int    `json:"time_limit_minutes" validate:"omitempty,time_limit"`
	PassingScore       *int    `json:"passing_score" validate:"omitempty,passing_score"`
	MaxAttempts        *int    `json:"max_attempts" validate:"omitempty,max_attempts"`
	RandomizeQuestions *bool   `json:"randomize_questions"`
	RandomizeOptions   *bool   `json:"randomize_options"`
}

// QuestionCreateRequest represents the request structure for adding a question
type QuestionCreateRequest struct {
	Type        models.QuestionType    `json:"type" validate:"required,question_type"`
	Text        string                 `json:"text" validate:"required,min=1,max=2000"`
	Points      int                    `json:"points" validate:"required,points_range"`
	Content     json.RawMessage        `json:"content" validate:"required"`
	Difficulty  models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Tags        []string               `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	Explanation *string                `json:"explanation" validate:"omitempty,max=1000"`
}

// QuestionUpdateRequest is a partial update of one question. When Type or
// Content changes, the merged question is re-validated as a whole.
type QuestionUpdateRequest struct {
	Type        *models.QuestionType    `json:"type" validate:"omitempty,question_type"`
	Text        *string                 `json:"text" validate:"omitempty,min=1,max=2000"`
	Points      *int                    `json:"points" validate:"omitempty,points_range"`
	Content     json.RawMessage         `json:"content"`
	Difficulty  *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Tags        []string                `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	Explanation *string                 `json:"explanation" validate:"omitempty,max=1000"`
}

// ReorderQuestionsRequest carries the full new ordering of a quiz's questions
type ReorderQuestionsRequest struct {
	QuestionIDs []string `json:"question_ids" validate:"required,min=1,dive,required"`
}

// SubmitAnswerRequest is one answer inside a submission
type SubmitAnswerRequest struct {
	QuestionID     string  `json:"question_id" validate:"required"`
	SelectedOption *string `json:"selected_option"`
	SelectedAnswer *bool   `json:"selected_answer"`
	TextAnswer     *string `json:"text_answer"`
	CodeAnswer     *string `json:"code_answer"`
}

// SubmitAttemptRequest represents a full attempt submission
type SubmitAttemptRequest struct {
	Answers []SubmitAnswerRequest `json:"answers" validate:"required,dive"`
}

// GradeAttemptRequest patches the grade of one answer in a submitted attempt
type GradeAttemptRequest struct {
	QuestionID   string         `json:"question_id" validate:"required"`
	PointsEarned float64        `json:"points_earned" validate:"min=0"`
	IsCorrect    *bool          `json:"is_correct"`
	Feedback     *string        `json:"feedback" validate:"omitempty,max=2000"`
	RubricScores map[string]int `json:"rubric_scores"`
}

// ListAttemptsParams controls pagination for attempt listings
type ListAttemptsParams struct {
	Page      int    `json:"page" form:"page" validate:"min=0"`
	Size      int    `json:"size" form:"size" validate:"min=0,max=100"`
	SortBy    string `json:"sort_by" form:"sort_by"`
	SortOrder string `json:"sort_order" form:"sort_order" validate:"omitempty,oneof=asc desc ASC DESC"`
}
