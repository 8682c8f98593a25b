package models

import (
	"testing"
	"time"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		maxScore int
		want     int
	}{
		{name: "full marks", score: 20, maxScore: 20, want: 100},
		{name: "zero score", score: 0, maxScore: 20, want: 0},
		{name: "rounds down", score: 5, maxScore: 15, want: 33},
		{name: "rounds up", score: 2, maxScore: 3, want: 67},
		{name: "half rounds up", score: 1, maxScore: 200, want: 1},
		{name: "zero max score", score: 10, maxScore: 0, want: 0},
		{name: "fractional points", score: 7.5, maxScore: 10, want: 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.score, tt.maxScore); got != tt.want {
				t.Errorf("Percentage(%v, %d) = %d, want %d", tt.score, tt.maxScore, got, tt.want)
			}
		})
	}
}

func TestQuizAttempt_InProgress(t *testing.T) {
	attempt := &QuizAttempt{ID: "a1", StartedAt: time.Now()}
	if !attempt.InProgress() {
		t.Error("attempt with nil SubmittedAt must be in progress")
	}

	now := time.Now()
	attempt.SubmittedAt = &now
	if attempt.InProgress() {
		t.Error("submitted attempt must not be in progress")
	}
}

func TestQuizAttempt_ScorePercentage(t *testing.T) {
	attempt := &QuizAttempt{Score: 15, MaxScore: 20}
	if got := attempt.ScorePercentage(); got != 75 {
		t.Errorf("ScorePercentage = %d, want 75", got)
	}
}
