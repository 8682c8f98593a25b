package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/clients"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/events"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
	"github.com/xuri/excelize/v2"
)

func newReportFixture(t *testing.T) (*fakeRepo, ReportService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher(logger)
	lessons := &fakeLessonClient{lessons: map[string]*clients.Lesson{
		"lesson-1": {
			ID:                 "lesson-1",
			IsPublished:        true,
			CourseID:           "course-1",
			LessonType:         "quiz",
			CourseInstructorID: "instr-1",
		},
	}}

	repo.quiz.quizzes["quiz-1"] = &models.Quiz{
		ID: "quiz-1", LessonID: "lesson-1", Title: "Errors", PassingScore: 60,
	}

	quizzes := NewQuizService(repo, nil, logger, validator.New(), lessons, publisher)
	return repo, NewReportService(repo, nil, logger, quizzes)
}

func TestReportService_ExportQuizAttempts(t *testing.T) {
	repo, service := newReportFixture(t)

	now := time.Now()
	repo.attempt.attempts["a1"] = &models.QuizAttempt{
		ID: "a1", QuizID: "quiz-1", UserID: "student-1",
		Score: 18, MaxScore: 20, Passed: true,
		StartedAt: now.Add(-20 * time.Minute), SubmittedAt: &now,
	}
	repo.attempt.attempts["a2"] = &models.QuizAttempt{
		ID: "a2", QuizID: "quiz-1", UserID: "student-2",
		StartedAt: now.Add(-5 * time.Minute),
	}

	data, filename, err := service.ExportQuizAttempts(context.Background(), "quiz-1", instructorActor)
	if err != nil {
		t.Fatalf("ExportQuizAttempts returned error: %v", err)
	}

	if !strings.HasPrefix(filename, "quiz-attempts-quiz-1-") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q", filename)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Attempts")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	// Header, two attempts, blank spacer, summary footer
	if len(rows) < 3 {
		t.Fatalf("rows = %d, want at least 3", len(rows))
	}
	if rows[0][0] != "Attempt ID" {
		t.Errorf("header = %q, want Attempt ID", rows[0][0])
	}

	statuses := map[string]bool{}
	for _, row := range rows[1:3] {
		if len(row) > 2 {
			statuses[row[2]] = true
		}
	}
	if !statuses["submitted"] || !statuses["in_progress"] {
		t.Errorf("statuses = %v, want both submitted and in_progress", statuses)
	}
}

func TestReportService_ExportQuizAttempts_InstructorOnly(t *testing.T) {
	_, service := newReportFixture(t)

	_, _, err := service.ExportQuizAttempts(context.Background(), "quiz-1", studentActor)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("err = %v, want PermissionError", err)
	}
}

func TestReportService_ExportQuizAttempts_QuizNotFound(t *testing.T) {
	_, service := newReportFixture(t)

	_, _, err := service.ExportQuizAttempts(context.Background(), "ghost", instructorActor)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}
