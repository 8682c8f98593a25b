package events

import "time"

// AttemptSubmittedEvent is emitted after a submission is fully persisted.
type AttemptSubmittedEvent struct {
	AttemptID       string    `json:"attempt_id"`
	QuizID          string    `json:"quiz_id"`
	UserID          string    `json:"user_id"`
	Score           float64   `json:"score"`
	MaxScore        int       `json:"max_score"`
	ScorePercentage int       `json:"score_percentage"`
	Passed          bool      `json:"passed"`
	CourseCompleted bool      `json:"course_completed"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// AttemptGradedEvent is emitted after a manual grade lands.
type AttemptGradedEvent struct {
	AttemptID       string  `json:"attempt_id"`
	QuizID          string  `json:"quiz_id"`
	QuestionID      string  `json:"question_id"`
	GradedBy        string  `json:"graded_by"`
	Score           float64 `json:"score"`
	MaxScore        int     `json:"max_score"`
	Passed          bool    `json:"passed"`
	PassedChanged   bool    `json:"passed_changed"`
	CourseCompleted bool    `json:"course_completed"`
}

// QuizDeletedEvent is emitted once the quiz row and its documents are gone.
type QuizDeletedEvent struct {
	QuizID   string `json:"quiz_id"`
	LessonID string `json:"lesson_id"`
}
