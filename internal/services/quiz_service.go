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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type quizService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	lessons   clients.LessonClient
	publisher events.EventPublisher
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, lessons clients.LessonClient, publisher events.EventPublisher) QuizService {
	return &quizService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		lessons:   lessons,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, actor Actor) (*QuizResponse, error) {
	s.logger.Info("Creating quiz",
		"lesson_id", req.LessonID,
		"user_id", actor.ID)

	// Validate request
	if err := s.validator.ValidateQuizCreate(req); err.HasErrors() {
		return nil, err
	}

	if !actor.IsAdmin() && !actor.IsInstructor() {
		return nil, NewPermissionError(actor.ID, req.LessonID, "quiz", "create", "role cannot author quizzes")
	}

	// The lesson must exist, be a quiz lesson, and belong to the caller's course
	lesson, err := s.lessons.FindByID(ctx, req.LessonID)
	if err != nil {
		if errors.Is(err, clients.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to look up lesson: %w", err)
	}
	if lesson.LessonType != "quiz" {
		return nil, ErrLessonNotQuizType
	}
	if !actor.IsAdmin() && lesson.CourseInstructorID != actor.ID {
		return nil, NewPermissionError(actor.ID, req.LessonID, "quiz", "create", "lesson belongs to another instructor's course")
	}

	// One quiz per lesson
	exists, err := s.repo.Quiz().ExistsByLesson(ctx, nil, req.LessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing quiz: %w", err)
	}
	if exists {
		return nil, ErrQuizAlreadyExists
	}

	quiz := &models.Quiz{
		ID:                 uuid.New().String(),
		LessonID:           req.LessonID,
		Title:              req.Title,
		Description:        req.Description,
		TimeLimitMinutes:   req.TimeLimitMinutes,
		PassingScore:       req.PassingScore,
		MaxAttempts:        req.MaxAttempts,
		RandomizeQuestions: req.RandomizeQuestions,
		RandomizeOptions:   req.RandomizeOptions,
	}

	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			// Lost the race on the lesson_id unique index
			return nil, ErrQuizAlreadyExists
		}
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	// Seed the question document so reads never have to special-case a
	// missing row. Stores are independent, so this happens after the insert.
	doc := &models.QuestionDocument{QuizID: quiz.ID, UpdatedAt: time.Now()}
	if err := doc.Encode([]models.Question{}); err != nil {
		return nil, err
	}
	if err := s.repo.QuestionDoc().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create question document: %w", err)
	}

	s.logger.Info("Quiz created successfully",
		"quiz_id", quiz.ID,
		"lesson_id", quiz.LessonID)

	return &QuizResponse{Quiz: quiz, Questions: []models.Question{}, CanEdit: true}, nil
}

func (s *quizService) GetByID(ctx context.Context, id string, actor Actor) (*QuizResponse, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return s.buildQuizResponse(ctx, quiz, actor)
}

func (s *quizService) GetByLesson(ctx context.Context, lessonID string, actor Actor) (*QuizResponse, error) {
	quiz, err := s.repo.Quiz().GetByLesson(ctx, nil, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz by lesson: %w", err)
	}

	return s.buildQuizResponse(ctx, quiz, actor)
}

func (s *quizService) Update(ctx context.Context, id string, req *UpdateQuizRequest, actor Actor) (*QuizResponse, error) {
	s.logger.Info("Updating quiz", "quiz_id", id, "user_id", actor.ID)

	// Validate request
	if err := s.validator.ValidateQuizUpdate(req); err.HasErrors() {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	canEdit, err := s.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, NewPermissionError(actor.ID, id, "quiz", "update", "not course instructor")
	}

	// Partial update: nil fields stay unchanged
	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = req.Description
	}
	if req.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = req.MaxAttempts
	}
	if req.RandomizeQuestions != nil {
		quiz.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.RandomizeOptions != nil {
		quiz.RandomizeOptions = *req.RandomizeOptions
	}

	if err := s.repo.Quiz().Update(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.logger.Info("Quiz updated successfully", "quiz_id", id)

	return s.buildQuizResponse(ctx, quiz, actor)
}

func (s *quizService) Delete(ctx context.Context, id string, actor Actor) error {
	s.logger.Info("Deleting quiz", "quiz_id", id, "user_id", actor.ID)

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}

	canEdit, err := s.CanEdit(ctx, quiz, actor)
	if err != nil {
		return err
	}
	if !canEdit {
		return NewPermissionError(actor.ID, id, "quiz", "delete", "not course instructor")
	}

	// Document-store rows go first. If the relational delete then fails the
	// quiz survives with empty documents, which reads tolerate; the reverse
	// order could orphan answer documents with no owning quiz.
	attemptIDs, err := s.repo.Attempt().ListIDsByQuiz(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to list attempt ids: %w", err)
	}
	if err := s.repo.AnswerDoc().DeleteByAttempts(ctx, attemptIDs); err != nil {
		return fmt.Errorf("failed to delete answer documents: %w", err)
	}
	if err := s.repo.QuestionDoc().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question document: %w", err)
	}

	// Attempt rows go with the quiz via the cascade
	if err := s.repo.Quiz().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventQuizDeleted, events.QuizDeletedEvent{
		QuizID:   id,
		LessonID: quiz.LessonID,
	}); err != nil {
		s.logger.Error("Failed to publish quiz deleted event", "quiz_id", id, "error", err)
	}

	s.logger.Info("Quiz deleted successfully", "quiz_id", id, "attempts_removed", len(attemptIDs))

	return nil
}

// ===== PERMISSION CHECKS =====

// CanEdit reports whether the actor may author this quiz. Instructors own a
// quiz through the course the lesson belongs to.
func (s *quizService) CanEdit(ctx context.Context, quiz *models.Quiz, actor Actor) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if !actor.IsInstructor() {
		return false, nil
	}

	lesson, err := s.lessons.FindByID(ctx, quiz.LessonID)
	if err != nil {
		if errors.Is(err, clients.ErrLessonNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up lesson: %w", err)
	}
	return lesson.CourseInstructorID == actor.ID, nil
}

// ===== HELPERS =====

func (s *quizService) buildQuizResponse(ctx context.Context, quiz *models.Quiz, actor Actor) (*QuizResponse, error) {
	canEdit, err := s.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.QuestionDoc().Get(ctx, quiz.ID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get question document: %w", err)
	}

	questions := []models.Question{}
	if doc != nil {
		if questions, err = doc.Decode(); err != nil {
			return nil, err
		}
	}

	quiz.QuestionsCount = len(questions)
	quiz.TotalPoints = 0
	for _, q := range questions {
		quiz.TotalPoints += q.Points
	}

	capability := grading.ViewQuiz
	if canEdit {
		capability = grading.ViewFull
	}
	sanitized, err := grading.SanitizeAll(questions, capability)
	if err != nil {
		return nil, err
	}

	return &QuizResponse{Quiz: quiz, Questions: sanitized, CanEdit: canEdit}, nil
}
