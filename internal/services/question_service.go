package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/grading"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type questionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	quizzes   QuizService
}

func NewQuestionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, quizzes QuizService) QuestionService {
	return &questionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		quizzes:   quizzes,
	}
}

// ===== QUESTION MANAGEMENT =====

func (s *questionService) Add(ctx context.Context, quizID string, req *CreateQuestionRequest, actor Actor) (*models.Question, error) {
	s.logger.Info("Adding question",
		"quiz_id", quizID,
		"type", req.Type,
		"user_id", actor.ID)

	// Validate request
	if err := s.validator.ValidateQuestionCreate(req); err.HasErrors() {
		return nil, err
	}

	quiz, doc, questions, err := s.loadForEdit(ctx, quizID, actor, "add_question")
	if err != nil {
		return nil, err
	}

	question := models.Question{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Text:        req.Text,
		Points:      req.Points,
		Order:       len(questions),
		Content:     req.Content,
		Explanation: req.Explanation,
		Difficulty:  req.Difficulty,
		Tags:        req.Tags,
	}

	if issues := grading.ValidateQuestion(question); len(issues) > 0 {
		return nil, issuesToValidationErrors(issues)
	}

	questions = append(questions, question)
	if err := s.saveQuestions(ctx, quiz, doc, questions); err != nil {
		return nil, err
	}

	s.logger.Info("Question added successfully",
		"quiz_id", quizID,
		"question_id", question.ID,
		"questions_count", len(questions))

	return &question, nil
}

func (s *questionService) Update(ctx context.Context, quizID, questionID string, req *UpdateQuestionRequest, actor Actor) (*models.Question, error) {
	s.logger.Info("Updating question",
		"quiz_id", quizID,
		"question_id", questionID,
		"user_id", actor.ID)

	// Validate request
	if err := s.validator.ValidateQuestionUpdate(req); err.HasErrors() {
		return nil, err
	}

	quiz, doc, questions, err := s.loadForEdit(ctx, quizID, actor, "update_question")
	if err != nil {
		return nil, err
	}

	idx := indexOfQuestion(questions, questionID)
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}

	// Merge the patch into the stored question, then re-validate the whole
	// object. A type change with stale content must fail here, not at
	// grading time.
	merged := questions[idx]
	if req.Type != nil {
		merged.Type = *req.Type
	}
	if req.Text != nil {
		merged.Text = *req.Text
	}
	if req.Points != nil {
		merged.Points = *req.Points
	}
	if req.Content != nil {
		merged.Content = req.Content
	}
	if req.Difficulty != nil {
		merged.Difficulty = *req.Difficulty
	}
	if req.Tags != nil {
		merged.Tags = req.Tags
	}
	if req.Explanation != nil {
		merged.Explanation = req.Explanation
	}

	if issues := grading.ValidateQuestion(merged); len(issues) > 0 {
		return nil, issuesToValidationErrors(issues)
	}

	questions[idx] = merged
	if err := s.saveQuestions(ctx, quiz, doc, questions); err != nil {
		return nil, err
	}

	s.logger.Info("Question updated successfully",
		"quiz_id", quizID,
		"question_id", questionID)

	return &merged, nil
}

func (s *questionService) Delete(ctx context.Context, quizID, questionID string, actor Actor) error {
	s.logger.Info("Deleting question",
		"quiz_id", quizID,
		"question_id", questionID,
		"user_id", actor.ID)

	quiz, doc, questions, err := s.loadForEdit(ctx, quizID, actor, "delete_question")
	if err != nil {
		return err
	}

	idx := indexOfQuestion(questions, questionID)
	if idx < 0 {
		return ErrQuestionNotFound
	}

	// Remove and close the order gap; order values stay dense and 0-based
	questions = append(questions[:idx], questions[idx+1:]...)
	for i := range questions {
		questions[i].Order = i
	}

	if err := s.saveQuestions(ctx, quiz, doc, questions); err != nil {
		return err
	}

	s.logger.Info("Question deleted successfully",
		"quiz_id", quizID,
		"question_id", questionID,
		"questions_count", len(questions))

	return nil
}

func (s *questionService) Reorder(ctx context.Context, quizID string, req *ReorderQuestionsRequest, actor Actor) ([]models.Question, error) {
	s.logger.Info("Reordering questions",
		"quiz_id", quizID,
		"user_id", actor.ID)

	if err := s.validator.Validate(req); err.HasErrors() {
		return nil, err
	}

	quiz, doc, questions, err := s.loadForEdit(ctx, quizID, actor, "reorder_questions")
	if err != nil {
		return nil, err
	}

	// The request must be a complete permutation of the current ids
	if len(req.QuestionIDs) != len(questions) {
		return nil, NewValidationError("question_ids", "must list every question exactly once", len(req.QuestionIDs))
	}

	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	reordered := make([]models.Question, 0, len(questions))
	for i, id := range req.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, NewValidationError("question_ids", "unknown or duplicate question id", id)
		}
		delete(byID, id)
		q.Order = i
		reordered = append(reordered, q)
	}

	if err := s.saveQuestions(ctx, quiz, doc, reordered); err != nil {
		return nil, err
	}

	s.logger.Info("Questions reordered successfully", "quiz_id", quizID)

	return reordered, nil
}

func (s *questionService) List(ctx context.Context, quizID string, actor Actor) ([]models.Question, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	doc, err := s.repo.QuestionDoc().Get(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return []models.Question{}, nil
		}
		return nil, fmt.Errorf("failed to get question document: %w", err)
	}
	questions, err := doc.Decode()
	if err != nil {
		return nil, err
	}

	canEdit, err := s.quizzes.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, err
	}
	capability := grading.ViewQuiz
	if canEdit {
		capability = grading.ViewFull
	}
	return grading.SanitizeAll(questions, capability)
}

// ===== HELPERS =====

// loadForEdit resolves the quiz, checks authoring permission, and returns the
// decoded question document ready for mutation.
func (s *questionService) loadForEdit(ctx context.Context, quizID string, actor Actor, action string) (*models.Quiz, *models.QuestionDocument, []models.Question, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, nil, ErrQuizNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	canEdit, err := s.quizzes.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, nil, nil, err
	}
	if !canEdit {
		return nil, nil, nil, NewPermissionError(actor.ID, quizID, "quiz", action, "not course instructor")
	}

	doc, err := s.repo.QuestionDoc().Get(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Quiz created before its document landed; start empty
			doc = &models.QuestionDocument{QuizID: quizID}
			return quiz, doc, []models.Question{}, nil
		}
		return nil, nil, nil, fmt.Errorf("failed to get question document: %w", err)
	}

	questions, err := doc.Decode()
	if err != nil {
		return nil, nil, nil, err
	}
	return quiz, doc, questions, nil
}

// saveQuestions persists the mutated document and drops the quiz cache
// entries, which embed question counts derived from this document.
func (s *questionService) saveQuestions(ctx context.Context, quiz *models.Quiz, doc *models.QuestionDocument, questions []models.Question) error {
	if err := doc.Encode(questions); err != nil {
		return err
	}
	doc.UpdatedAt = time.Now()
	if err := s.repo.QuestionDoc().Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save question document: %w", err)
	}

	s.repo.Quiz().InvalidateCache(ctx, quiz.ID, quiz.LessonID)
	return nil
}

func indexOfQuestion(questions []models.Question, questionID string) int {
	for i, q := range questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}

// issuesToValidationErrors adapts structural question issues into the shared
// validation error shape.
func issuesToValidationErrors(issues []grading.Issue) validator.ValidationErrors {
	out := make(validator.ValidationErrors, 0, len(issues))
	for _, issue := range issues {
		out = append(out, validator.ValidationError{
			Field:   issue.Field,
			Message: issue.Message,
			Rule:    "question_content",
		})
	}
	return out
}
