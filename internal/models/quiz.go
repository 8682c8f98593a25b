package models

import (
	"time"
)

type Quiz struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	LessonID    string  `json:"lesson_id" gorm:"not null;uniqueIndex;size:36"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Attempt rules
	TimeLimitMinutes *int `json:"time_limit_minutes" validate:"omitempty,min=1,max=600"`
	PassingScore     int  `json:"passing_score" gorm:"not null" validate:"required,min=1,max=100"`
	MaxAttempts      *int `json:"max_attempts" validate:"omitempty,min=1,max=50"`

	// Question Display Settings
	RandomizeQuestions bool `json:"randomize_questions" gorm:"not null;default:false"`
	RandomizeOptions   bool `json:"randomize_options" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Attempts []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	QuestionsCount int `json:"questions_count" gorm:"-"`
	TotalPoints    int `json:"total_points" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
