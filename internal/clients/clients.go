package clients

import (
	"context"
	"errors"
)

// The attempt lifecycle depends on three collaborators owned by other
// services of the platform. Contracts are deliberately narrow: one lookup or
// action each, nothing else.

var (
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrLessonAlreadyCompleted is the one collaborator failure callers
	// recover from: completing an already-completed lesson is a no-op.
	ErrLessonAlreadyCompleted = errors.New("lesson already completed")
)

// Lesson is the projection of a lesson this service cares about.
type Lesson struct {
	ID                 string `json:"id"`
	IsPublished        bool   `json:"is_published"`
	CourseID           string `json:"course_id"`
	LessonType         string `json:"lesson_type"`
	CourseInstructorID string `json:"course_instructor_id"`
}

// Enrollment is the projection of an enrollment record.
type Enrollment struct {
	Status string `json:"status"`
}

// EnrollmentStatusActive is the only status that authorizes quiz participation.
const EnrollmentStatusActive = "active"

// CompletionResult reports whether completing a lesson finished the course.
type CompletionResult struct {
	CourseCompleted bool `json:"course_completed"`
}

// LessonClient looks lessons up in the course service.
type LessonClient interface {
	FindByID(ctx context.Context, lessonID string) (*Lesson, error)
}

// EnrollmentClient looks enrollments up in the enrollment service.
type EnrollmentClient interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*Enrollment, error)
}

// ProgressClient marks lessons complete in the progress service.
type ProgressClient interface {
	CompleteLesson(ctx context.Context, userID, lessonID string) (*CompletionResult, error)
}
