package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/clients"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/events"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/grading"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
	"gorm.io/gorm"
)

type gradingService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	quizzes   QuizService
	progress  clients.ProgressClient
	publisher events.EventPublisher
}

func NewGradingService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, quizzes QuizService, progress clients.ProgressClient, publisher events.EventPublisher) GradingService {
	return &gradingService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		quizzes:   quizzes,
		progress:  progress,
		publisher: publisher,
	}
}

// GradeAttempt patches the grade of one answer entry and recomputes the
// attempt's aggregate. The aggregate always re-sums every entry rather than
// applying a delta, so regrading the same question twice can never double
// count, and the max score stays fixed at what it was when the attempt was
// submitted.
func (s *gradingService) GradeAttempt(ctx context.Context, attemptID string, req *GradeAttemptRequest, actor Actor) (*GradeResult, error) {
	s.logger.Info("Manually grading attempt",
		"attempt_id", attemptID,
		"question_id", req.QuestionID,
		"grader_id", actor.ID)

	// Validate request
	if err := s.validator.ValidateGradeAttempt(req); err.HasErrors() {
		return nil, err
	}

	attempt, err := s.repo.Attempt().GetByID(ctx, nil, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	// Only submitted attempts carry answers to grade
	if attempt.InProgress() {
		return nil, ErrAttemptNotSubmitted
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	canGrade, err := s.quizzes.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, err
	}
	if !canGrade {
		return nil, NewPermissionError(actor.ID, attemptID, "attempt", "grade", "not course instructor")
	}

	answerDoc, err := s.repo.AnswerDoc().Get(ctx, attempt.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get answer document: %w", err)
	}
	answers, err := answerDoc.Decode()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, a := range answers {
		if a.QuestionID == req.QuestionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}

	// Cap the award at the question's point value while the question still
	// exists. A since-deleted question keeps its answer entry gradable.
	if maxPoints, ok := s.questionPoints(ctx, attempt.QuizID, req.QuestionID); ok {
		if req.PointsEarned > float64(maxPoints) {
			return nil, NewValidationError("points_earned",
				fmt.Sprintf("cannot exceed the question's %d points", maxPoints), req.PointsEarned)
		}
	}

	now := time.Now()
	entry := &answers[idx]
	entry.PointsEarned = req.PointsEarned
	entry.Feedback = req.Feedback
	entry.GradedBy = &actor.ID
	entry.GradedAt = &now
	if req.RubricScores != nil {
		entry.RubricScores = req.RubricScores
	}
	switch {
	case req.IsCorrect != nil && *req.IsCorrect:
		entry.Status = models.GradingCorrect
	case req.IsCorrect != nil:
		entry.Status = models.GradingIncorrect
	case req.PointsEarned > 0:
		entry.Status = models.GradingCorrect
	default:
		entry.Status = models.GradingIncorrect
	}

	// Answers first, then the attempt row, same ordering as submission
	if err := answerDoc.Encode(answers); err != nil {
		return nil, err
	}
	if err := s.repo.AnswerDoc().Save(ctx, answerDoc); err != nil {
		return nil, fmt.Errorf("failed to save answer document: %w", err)
	}

	wasPassed := attempt.Passed
	attempt.Score = grading.AggregateScore(answers)
	percentage := attempt.ScorePercentage()
	attempt.Passed = percentage >= quiz.PassingScore
	if err := s.repo.Attempt().Update(ctx, nil, attempt); err != nil {
		return nil, fmt.Errorf("failed to update attempt: %w", err)
	}

	passedChanged := !wasPassed && attempt.Passed
	courseCompleted := false
	if passedChanged {
		courseCompleted = s.completeLesson(ctx, attempt.UserID, quiz.LessonID, attempt.ID)
	}

	if err := s.publisher.Publish(ctx, events.EventAttemptGraded, events.AttemptGradedEvent{
		AttemptID:       attempt.ID,
		QuizID:          quiz.ID,
		QuestionID:      req.QuestionID,
		GradedBy:        actor.ID,
		Score:           attempt.Score,
		MaxScore:        attempt.MaxScore,
		Passed:          attempt.Passed,
		PassedChanged:   passedChanged,
		CourseCompleted: courseCompleted,
	}); err != nil {
		s.logger.Error("Failed to publish attempt graded event", "attempt_id", attempt.ID, "error", err)
	}

	s.logger.Info("Attempt graded successfully",
		"attempt_id", attempt.ID,
		"question_id", req.QuestionID,
		"score", attempt.Score,
		"passed", attempt.Passed,
		"passed_changed", passedChanged)

	return &GradeResult{
		QuizAttempt:     attempt,
		ScorePercentage: percentage,
		Answer:          answers[idx],
		PassedChanged:   passedChanged,
		CourseCompleted: courseCompleted,
	}, nil
}

func (s *gradingService) questionPoints(ctx context.Context, quizID, questionID string) (int, bool) {
	doc, err := s.repo.QuestionDoc().Get(ctx, quizID)
	if err != nil {
		return 0, false
	}
	questions, err := doc.Decode()
	if err != nil {
		return 0, false
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q.Points, true
		}
	}
	return 0, false
}

func (s *gradingService) completeLesson(ctx context.Context, userID, lessonID, attemptID string) bool {
	completion, err := s.progress.CompleteLesson(ctx, userID, lessonID)
	if err != nil {
		if !errors.Is(err, clients.ErrLessonAlreadyCompleted) {
			s.logger.Error("Failed to complete lesson",
				"attempt_id", attemptID,
				"lesson_id", lessonID,
				"error", err)
		}
		return false
	}
	return completion.CourseCompleted
}
