package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// GradingStatus is the tri-state grading outcome. Ungraded is an explicit
// state, not an overloaded null: code_challenge and essay answers stay
// ungraded until an instructor grades them.
type GradingStatus string

const (
	GradingCorrect   GradingStatus = "correct"
	GradingIncorrect GradingStatus = "incorrect"
	GradingUngraded  GradingStatus = "ungraded"
)

// Answer is one entry of an attempt's answer document: the submitted payload
// for one question plus its grading annotations.
type Answer struct {
	QuestionID string `json:"question_id"`

	// Submitted payload (variant fields, one set per question type)
	SelectedOption *string `json:"selected_option,omitempty"` // multiple_choice
	SelectedAnswer *bool   `json:"selected_answer,omitempty"` // true_false
	TextAnswer     *string `json:"text_answer,omitempty"`     // fill_blank, essay
	CodeAnswer     *string `json:"code_answer,omitempty"`     // code_challenge

	// Grading
	Status       GradingStatus  `json:"status"`
	PointsEarned float64        `json:"points_earned"`
	Feedback     *string        `json:"feedback,omitempty"`
	GradedBy     *string        `json:"graded_by,omitempty"`
	GradedAt     *time.Time     `json:"graded_at,omitempty"`
	RubricScores map[string]int `json:"rubric_scores,omitempty"`
}

// AnswerDocument holds all answers of one attempt as a single JSONB row.
// Created once at submission; entries are patched in place by manual grading.
type AnswerDocument struct {
	AttemptID string         `json:"attempt_id" gorm:"primaryKey;size:36"`
	Answers   datatypes.JSON `json:"answers" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (AnswerDocument) TableName() string {
	return "attempt_answers"
}

func (d *AnswerDocument) Decode() ([]Answer, error) {
	if len(d.Answers) == 0 {
		return []Answer{}, nil
	}
	var answers []Answer
	if err := json.Unmarshal(d.Answers, &answers); err != nil {
		return nil, fmt.Errorf("decode answer document for attempt %s: %w", d.AttemptID, err)
	}
	return answers, nil
}

func (d *AnswerDocument) Encode(answers []Answer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answer document for attempt %s: %w", d.AttemptID, err)
	}
	d.Answers = data
	return nil
}
