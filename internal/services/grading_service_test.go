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

type gradingFixture struct {
	repo      *fakeRepo
	progress  *fakeProgressClient
	publisher *events.MockEventPublisher
	service   GradingService
	attempt   *models.QuizAttempt
}

// newGradingFixture wires a submitted attempt that is one essay grade short
// of passing: the multiple choice answer already earned 10 of 20 points
// against a 60% bar.
func newGradingFixture(t *testing.T) *gradingFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher(logger)
	progress := &fakeProgressClient{}

	lessons := &fakeLessonClient{lessons: map[string]*clients.Lesson{
		"lesson-1": {
			ID:                 "lesson-1",
			IsPublished:        true,
			CourseID:           "course-1",
			LessonType:         "quiz",
			CourseInstructorID: "instr-1",
		},
	}}

	quiz := &models.Quiz{
		ID:           "quiz-1",
		LessonID:     "lesson-1",
		Title:        "Concurrency",
		PassingScore: 60,
	}
	repo.quiz.quizzes[quiz.ID] = quiz

	questions := []models.Question{
		{
			ID: "q1", Type: models.MultipleChoice, Text: "Pick one", Points: 10, Order: 0,
			Content: testContent(t, models.MultipleChoiceContent{
				Options: []models.ChoiceOption{
					{OptionID: "a", Text: "First", IsCorrect: true},
					{OptionID: "b", Text: "Second"},
				},
			}),
		},
		{
			ID: "q2", Type: models.Essay, Text: "Explain channels", Points: 10, Order: 1,
			Content: testContent(t, models.EssayContent{}),
		},
	}
	doc := &models.QuestionDocument{QuizID: quiz.ID}
	if err := doc.Encode(questions); err != nil {
		t.Fatalf("encode question document: %v", err)
	}
	repo.qdoc.docs[quiz.ID] = doc

	submittedAt := time.Now().Add(-time.Hour)
	attempt := &models.QuizAttempt{
		ID:          "attempt-1",
		QuizID:      quiz.ID,
		UserID:      "student-1",
		Score:       10,
		MaxScore:    20,
		Passed:      false,
		StartedAt:   submittedAt.Add(-10 * time.Minute),
		SubmittedAt: &submittedAt,
	}
	repo.attempt.attempts[attempt.ID] = attempt

	answerDoc := &models.AnswerDocument{AttemptID: attempt.ID}
	if err := answerDoc.Encode([]models.Answer{
		{QuestionID: "q1", SelectedOption: strPtr("a"), Status: models.GradingCorrect, PointsEarned: 10},
		{QuestionID: "q2", TextAnswer: strPtr("Channels synchronize goroutines."), Status: models.GradingUngraded},
	}); err != nil {
		t.Fatalf("encode answer document: %v", err)
	}
	repo.adoc.docs[attempt.ID] = answerDoc

	quizzes := NewQuizService(repo, nil, logger, v, lessons, publisher)
	service := NewGradingService(repo, nil, logger, v, quizzes, progress, publisher)

	return &gradingFixture{
		repo:      repo,
		progress:  progress,
		publisher: publisher,
		service:   service,
		attempt:   attempt,
	}
}

func TestGradingService_GradeAttempt_CrossesPassingBar(t *testing.T) {
	f := newGradingFixture(t)

	result, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
		QuestionID:   "q2",
		PointsEarned: 8,
		Feedback:     strPtr("Solid explanation."),
	}, instructorActor)
	if err != nil {
		t.Fatalf("GradeAttempt returned error: %v", err)
	}

	if result.Score != 18 {
		t.Errorf("score = %v, want 18", result.Score)
	}
	// Max score stays frozen at submission time
	if result.MaxScore != 20 {
		t.Errorf("max score = %d, want 20", result.MaxScore)
	}
	if result.ScorePercentage != 90 {
		t.Errorf("percentage = %d, want 90", result.ScorePercentage)
	}
	if !result.Passed || !result.PassedChanged {
		t.Errorf("passed=%v passedChanged=%v, want true/true", result.Passed, result.PassedChanged)
	}

	// Crossing the bar completes the lesson for the learner, once
	if f.progress.calls != 1 {
		t.Errorf("CompleteLesson calls = %d, want 1", f.progress.calls)
	}

	if result.Answer.Status != models.GradingCorrect {
		t.Errorf("answer status = %s, want correct", result.Answer.Status)
	}
	if result.Answer.GradedBy == nil || *result.Answer.GradedBy != instructorActor.ID {
		t.Error("GradedBy must record the grader")
	}
	if result.Answer.GradedAt == nil {
		t.Error("GradedAt must be set")
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventAttemptGraded {
		t.Fatalf("published = %v, want one %s event", published, events.EventAttemptGraded)
	}
}

func TestGradingService_GradeAttempt_RegradeNeverDoubleCounts(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()

	if _, err := f.service.GradeAttempt(ctx, f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "q2", PointsEarned: 8,
	}, instructorActor); err != nil {
		t.Fatalf("first grade: %v", err)
	}

	// Lowering the award replaces the entry; the aggregate re-sums instead
	// of stacking deltas.
	result, err := f.service.GradeAttempt(ctx, f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "q2", PointsEarned: 2,
	}, instructorActor)
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}

	if result.Score != 12 {
		t.Errorf("score = %v, want 12", result.Score)
	}
	// 12/20 sits exactly on the 60% bar, so the attempt stays passed and
	// the lesson is not completed a second time
	if !result.Passed {
		t.Error("attempt must stay passed at exactly 60%")
	}
	if result.PassedChanged {
		t.Error("PassedChanged must be false when already passed")
	}
	if f.progress.calls != 1 {
		t.Errorf("CompleteLesson calls = %d, want 1", f.progress.calls)
	}
}

func TestGradingService_GradeAttempt_InProgressRejected(t *testing.T) {
	f := newGradingFixture(t)
	f.attempt.SubmittedAt = nil

	_, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "q2", PointsEarned: 5,
	}, instructorActor)
	if !errors.Is(err, ErrAttemptNotSubmitted) {
		t.Errorf("err = %v, want ErrAttemptNotSubmitted", err)
	}
}

func TestGradingService_GradeAttempt_InstructorOnly(t *testing.T) {
	f := newGradingFixture(t)

	_, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "q2", PointsEarned: 5,
	}, studentActor)

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("err = %v, want PermissionError", err)
	}
}

func TestGradingService_GradeAttempt_PointsCappedAtQuestionValue(t *testing.T) {
	f := newGradingFixture(t)

	_, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "q2", PointsEarned: 50,
	}, instructorActor)

	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationErrors", err)
	}
}

func TestGradingService_GradeAttempt_DeletedQuestionStaysGradable(t *testing.T) {
	f := newGradingFixture(t)

	// Drop q2 from the question document; its answer entry survives and the
	// point cap no longer applies.
	doc := f.repo.qdoc.docs["quiz-1"]
	questions, err := doc.Decode()
	if err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if err := doc.Encode(questions[:1]); err != nil {
		t.Fatalf("encode questions: %v", err)
	}

	result, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "q2", PointsEarned: 50,
	}, instructorActor)
	if err != nil {
		t.Fatalf("GradeAttempt returned error: %v", err)
	}
	if result.Answer.PointsEarned != 50 {
		t.Errorf("points = %v, want 50", result.Answer.PointsEarned)
	}
}

func TestGradingService_GradeAttempt_UnknownQuestion(t *testing.T) {
	f := newGradingFixture(t)

	_, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
		QuestionID: "ghost", PointsEarned: 5,
	}, instructorActor)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestGradingService_GradeAttempt_StatusResolution(t *testing.T) {
	tests := []struct {
		name      string
		isCorrect *bool
		points    float64
		want      models.GradingStatus
	}{
		{name: "explicit correct", isCorrect: boolPtr(true), points: 0, want: models.GradingCorrect},
		{name: "explicit incorrect", isCorrect: boolPtr(false), points: 5, want: models.GradingIncorrect},
		{name: "inferred from points", isCorrect: nil, points: 3, want: models.GradingCorrect},
		{name: "inferred zero points", isCorrect: nil, points: 0, want: models.GradingIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGradingFixture(t)

			result, err := f.service.GradeAttempt(context.Background(), f.attempt.ID, &GradeAttemptRequest{
				QuestionID:   "q2",
				PointsEarned: tt.points,
				IsCorrect:    tt.isCorrect,
			}, instructorActor)
			if err != nil {
				t.Fatalf("GradeAttempt returned error: %v", err)
			}
			if result.Answer.Status != tt.want {
				t.Errorf("status = %s, want %s", result.Answer.Status, tt.want)
			}
		})
	}
}
