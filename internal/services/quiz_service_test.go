package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/clients"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/events"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

type quizFixture struct {
	repo      *fakeRepo
	lessons   *fakeLessonClient
	publisher *events.MockEventPublisher
	service   QuizService
}

func newQuizFixture(t *testing.T) *quizFixture {
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
		"lesson-2": {
			ID:                 "lesson-2",
			IsPublished:        true,
			CourseID:           "course-2",
			LessonType:         "video",
			CourseInstructorID: "instr-1",
		},
	}}

	service := NewQuizService(repo, nil, logger, validator.New(), lessons, publisher)

	return &quizFixture{
		repo:      repo,
		lessons:   lessons,
		publisher: publisher,
		service:   service,
	}
}

func createRequest() *CreateQuizRequest {
	return &CreateQuizRequest{
		LessonID:     "lesson-1",
		Title:        "Interfaces",
		PassingScore: 70,
	}
}

func TestQuizService_Create(t *testing.T) {
	f := newQuizFixture(t)

	resp, err := f.service.Create(context.Background(), createRequest(), instructorActor)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if resp.ID == "" {
		t.Fatal("quiz id must be assigned")
	}
	if !resp.CanEdit {
		t.Error("creator must be able to edit")
	}

	// The question document is seeded immediately, empty
	doc, ok := f.repo.qdoc.docs[resp.ID]
	if !ok {
		t.Fatal("question document must be seeded")
	}
	questions, err := doc.Decode()
	if err != nil {
		t.Fatalf("decode seeded document: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("seeded questions = %d, want 0", len(questions))
	}
}

func TestQuizService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *quizFixture, req *CreateQuizRequest)
		actor   Actor
		wantErr error
	}{
		{
			name:    "lesson missing",
			mutate:  func(f *quizFixture, req *CreateQuizRequest) { req.LessonID = "ghost" },
			actor:   instructorActor,
			wantErr: ErrLessonNotFound,
		},
		{
			name:    "lesson is not a quiz lesson",
			mutate:  func(f *quizFixture, req *CreateQuizRequest) { req.LessonID = "lesson-2" },
			actor:   instructorActor,
			wantErr: ErrLessonNotQuizType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t)
			req := createRequest()
			tt.mutate(f, req)

			_, err := f.service.Create(context.Background(), req, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("students cannot author", func(t *testing.T) {
		f := newQuizFixture(t)
		_, err := f.service.Create(context.Background(), createRequest(), studentActor)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("err = %v, want PermissionError", err)
		}
	})

	t.Run("another instructor's course", func(t *testing.T) {
		f := newQuizFixture(t)
		_, err := f.service.Create(context.Background(), createRequest(),
			Actor{ID: "instr-2", Role: models.RoleInstructor})
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("err = %v, want PermissionError", err)
		}
	})
}

func TestQuizService_Create_OnePerLesson(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	if _, err := f.service.Create(ctx, createRequest(), instructorActor); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.service.Create(ctx, createRequest(), instructorActor)
	if !errors.Is(err, ErrQuizAlreadyExists) {
		t.Errorf("err = %v, want ErrQuizAlreadyExists", err)
	}
}

func TestQuizService_Update_PartialPatch(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, createRequest(), instructorActor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.service.Update(ctx, created.ID, &UpdateQuizRequest{
		PassingScore: intPtr(85),
	}, instructorActor)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.PassingScore != 85 {
		t.Errorf("passing score = %d, want 85", updated.PassingScore)
	}
	// Untouched fields stay as created
	if updated.Title != "Interfaces" {
		t.Errorf("title = %q, want unchanged", updated.Title)
	}
}

func TestQuizService_Delete_CleansDocuments(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, createRequest(), instructorActor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now()
	f.repo.attempt.attempts["a1"] = &models.QuizAttempt{
		ID: "a1", QuizID: created.ID, UserID: "student-1",
		StartedAt: now, SubmittedAt: &now,
	}
	f.repo.adoc.docs["a1"] = &models.AnswerDocument{AttemptID: "a1"}

	if err := f.service.Delete(ctx, created.ID, instructorActor); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, ok := f.repo.quiz.quizzes[created.ID]; ok {
		t.Error("quiz row must be deleted")
	}
	if _, ok := f.repo.qdoc.docs[created.ID]; ok {
		t.Error("question document must be deleted")
	}
	if _, ok := f.repo.adoc.docs["a1"]; ok {
		t.Error("answer documents must be deleted")
	}

	published := f.publisher.GetPublishedEvents()
	found := false
	for _, e := range published {
		if e.Type == events.EventQuizDeleted {
			found = true
		}
	}
	if !found {
		t.Errorf("no %s event published", events.EventQuizDeleted)
	}
}

func TestQuizService_CanEdit(t *testing.T) {
	f := newQuizFixture(t)
	quiz := &models.Quiz{ID: "quiz-1", LessonID: "lesson-1"}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{name: "admin", actor: Actor{ID: "anyone", Role: models.RoleAdmin}, want: true},
		{name: "owning instructor", actor: instructorActor, want: true},
		{name: "other instructor", actor: Actor{ID: "instr-2", Role: models.RoleInstructor}, want: false},
		{name: "student", actor: studentActor, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.service.CanEdit(context.Background(), quiz, tt.actor)
			if err != nil {
				t.Fatalf("CanEdit returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanEdit = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("dangling lesson denies instructors", func(t *testing.T) {
		orphan := &models.Quiz{ID: "quiz-2", LessonID: "ghost"}
		got, err := f.service.CanEdit(context.Background(), orphan, instructorActor)
		if err != nil {
			t.Fatalf("CanEdit returned error: %v", err)
		}
		if got {
			t.Error("instructor must not edit a quiz with a missing lesson")
		}
	})
}
