package models

import (
	"time"
)

// QuizAttempt is one learner's pass at a quiz. SubmittedAt is the lifecycle
// sentinel: nil means the attempt is still in progress. The partial unique
// index enforces at most one open attempt per (quiz, user) pair at the
// database level, so concurrent starts cannot both slip through.
type QuizAttempt struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	QuizID string `json:"quiz_id" gorm:"not null;index;size:36;uniqueIndex:idx_quiz_attempts_open,where:submitted_at IS NULL"`
	UserID string `json:"user_id" gorm:"not null;index;size:36;uniqueIndex:idx_quiz_attempts_open,where:submitted_at IS NULL"`

	// Scoring
	Score    float64 `json:"score"`
	MaxScore int     `json:"max_score"`
	Passed   bool    `json:"passed"`

	// Timing
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time `json:"submitted_at"` // nil while in progress, set exactly once

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// InProgress reports whether the attempt can still receive a submission.
func (a *QuizAttempt) InProgress() bool {
	return a.SubmittedAt == nil
}

// ScorePercentage is the rounded percentage used against the passing
// threshold. A max score of zero yields zero, never a division error.
func (a *QuizAttempt) ScorePercentage() int {
	return Percentage(a.Score, a.MaxScore)
}

// Percentage rounds score/maxScore to a whole percent, 0 when maxScore is 0.
func Percentage(score float64, maxScore int) int {
	if maxScore == 0 {
		return 0
	}
	return int(score/float64(maxScore)*100 + 0.5)
}
