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

type attemptService struct {
	repo        repositories.Repository
	db          *gorm.DB
	logger      *slog.Logger
	validator   *validator.Validator
	quizzes     QuizService
	lessons     clients.LessonClient
	enrollments clients.EnrollmentClient
	progress    clients.ProgressClient
	publisher   events.EventPublisher
}

func NewAttemptService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, quizzes QuizService, lessons clients.LessonClient, enrollments clients.EnrollmentClient, progress clients.ProgressClient, publisher events.EventPublisher) AttemptService {
	return &attemptService{
		repo:        repo,
		db:          db,
		logger:      logger,
		validator:   validator,
		quizzes:     quizzes,
		lessons:     lessons,
		enrollments: enrollments,
		progress:    progress,
		publisher:   publisher,
	}
}

// ===== LIFECYCLE =====

func (s *attemptService) Start(ctx context.Context, quizID string, actor Actor) (*AttemptResponse, error) {
	s.logger.Info("Starting quiz attempt",
		"quiz_id", quizID,
		"user_id", actor.ID)

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	// The lesson must be published and the learner actively enrolled in
	// its course before anything is written.
	lesson, err := s.lessons.FindByID(ctx, quiz.LessonID)
	if err != nil {
		if errors.Is(err, clients.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to look up lesson: %w", err)
	}
	if !lesson.IsPublished {
		return nil, ErrLessonNotPublished
	}

	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, actor.ID, lesson.CourseID)
	if err != nil {
		if errors.Is(err, clients.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotActive
		}
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}
	if enrollment.Status != clients.EnrollmentStatusActive {
		return nil, ErrEnrollmentNotActive
	}

	// An open attempt means "resume it", and that answer must win over the
	// attempt limit when both apply.
	if _, err := s.repo.Attempt().GetOpenAttempt(ctx, nil, quizID, actor.ID); err == nil {
		return nil, ErrAttemptInProgress
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check for open attempt: %w", err)
	}

	// Only submitted attempts count against the limit; an abandoned open
	// attempt never locks a learner out.
	if quiz.MaxAttempts != nil {
		submitted, err := s.repo.Attempt().CountSubmitted(ctx, nil, quizID, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count submitted attempts: %w", err)
		}
		if submitted >= int64(*quiz.MaxAttempts) {
			return nil, ErrAttemptLimitReached
		}
	}

	attempt := &models.QuizAttempt{
		ID:        uuid.New().String(),
		QuizID:    quizID,
		UserID:    actor.ID,
		StartedAt: time.Now(),
	}

	// The partial unique index on open attempts is the real gate here: two
	// concurrent starts race to this insert and exactly one wins.
	if err := s.repo.Attempt().Create(ctx, nil, attempt); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrAttemptInProgress
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	questions, err := s.questionsForAttempt(ctx, quiz)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt started successfully",
		"attempt_id", attempt.ID,
		"quiz_id", quizID,
		"user_id", actor.ID)

	return &AttemptResponse{
		QuizAttempt: attempt,
		Questions:   questions,
		CanSubmit:   true,
	}, nil
}

func (s *attemptService) Submit(ctx context.Context, attemptID string, req *SubmitAttemptRequest, actor Actor) (*SubmitResult, error) {
	s.logger.Info("Submitting quiz attempt",
		"attempt_id", attemptID,
		"user_id", actor.ID,
		"answers_count", len(req.Answers))

	// Validate request
	if err := s.validator.ValidateSubmitAttempt(req); err.HasErrors() {
		return nil, err
	}

	attempt, err := s.repo.Attempt().GetByID(ctx, nil, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	// Submission is strictly owner-only; not even admins submit for a learner
	if attempt.UserID != actor.ID {
		return nil, NewPermissionError(actor.ID, attemptID, "attempt", "submit", "not owned by user")
	}

	if !attempt.InProgress() {
		return nil, ErrAttemptAlreadySubmitted
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	// A time limit blocks late submission; it never auto-finalizes the
	// attempt, which stays open until a submit lands or the quiz goes away.
	if quiz.TimeLimitMinutes != nil {
		deadline := attempt.StartedAt.Add(time.Duration(*quiz.TimeLimitMinutes) * time.Minute)
		if time.Now().After(deadline) {
			return nil, ErrAttemptTimeExpired
		}
	}

	doc, err := s.repo.QuestionDoc().Get(ctx, attempt.QuizID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get question document: %w", err)
	}
	questions := []models.Question{}
	if doc != nil {
		if questions, err = doc.Decode(); err != nil {
			return nil, err
		}
	}

	result, err := grading.Grade(answersFromRequest(req.Answers), questions)
	if err != nil {
		return nil, fmt.Errorf("failed to grade attempt: %w", err)
	}

	percentage := result.Percentage()
	passed := percentage >= quiz.PassingScore

	// Answers land first. If the attempt-row update then fails, the attempt
	// stays open and a retried submit overwrites nothing relational; the
	// reverse order could close an attempt with no answers on record.
	answerDoc := &models.AnswerDocument{AttemptID: attempt.ID}
	if err := answerDoc.Encode(result.GradedAnswers); err != nil {
		return nil, err
	}
	if err := s.repo.AnswerDoc().Create(ctx, answerDoc); err != nil {
		return nil, fmt.Errorf("failed to store answers: %w", err)
	}

	now := time.Now()
	attempt.Score = result.Score
	attempt.MaxScore = result.MaxScore
	attempt.Passed = passed
	attempt.SubmittedAt = &now
	if err := s.repo.Attempt().Update(ctx, nil, attempt); err != nil {
		return nil, fmt.Errorf("failed to finalize attempt: %w", err)
	}

	courseCompleted := false
	if passed {
		courseCompleted = s.completeLesson(ctx, actor.ID, quiz.LessonID, attempt.ID)
	}

	if err := s.publisher.Publish(ctx, events.EventAttemptSubmitted, events.AttemptSubmittedEvent{
		AttemptID:       attempt.ID,
		QuizID:          quiz.ID,
		UserID:          actor.ID,
		Score:           attempt.Score,
		MaxScore:        attempt.MaxScore,
		ScorePercentage: percentage,
		Passed:          passed,
		CourseCompleted: courseCompleted,
		SubmittedAt:     now,
	}); err != nil {
		s.logger.Error("Failed to publish attempt submitted event", "attempt_id", attempt.ID, "error", err)
	}

	s.logger.Info("Quiz attempt submitted successfully",
		"attempt_id", attempt.ID,
		"score", attempt.Score,
		"max_score", attempt.MaxScore,
		"percentage", percentage,
		"passed", passed)

	return &SubmitResult{
		QuizAttempt:     attempt,
		ScorePercentage: percentage,
		PassingScore:    quiz.PassingScore,
		Answers:         result.GradedAnswers,
		CourseCompleted: courseCompleted,
	}, nil
}

// ===== GET OPERATIONS =====

func (s *attemptService) GetByID(ctx context.Context, id string, actor Actor) (*AttemptResponse, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	isOwner := attempt.UserID == actor.ID
	canEdit, err := s.quizzes.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, err
	}
	if !isOwner && !canEdit {
		return nil, NewPermissionError(actor.ID, id, "attempt", "read", "not owner or course instructor")
	}

	resp := &AttemptResponse{
		QuizAttempt:     attempt,
		ScorePercentage: attempt.ScorePercentage(),
	}

	if attempt.InProgress() {
		// Only the owner gets the question sheet back mid-attempt
		if isOwner {
			questions, err := s.questionsForAttempt(ctx, quiz)
			if err != nil {
				return nil, err
			}
			resp.Questions = questions
			resp.CanSubmit = true
		}
		return resp, nil
	}

	answerDoc, err := s.repo.AnswerDoc().Get(ctx, attempt.ID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get answer document: %w", err)
	}
	if answerDoc != nil {
		if resp.Answers, err = answerDoc.Decode(); err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// ===== LIST OPERATIONS =====

func (s *attemptService) ListMy(ctx context.Context, quizID string, params ListAttemptsParams, actor Actor) (*AttemptListResponse, error) {
	filters := repositories.AttemptFilters{}
	if quizID != "" {
		filters.QuizID = &quizID
	}
	applyListParams(&filters, params)

	attempts, total, err := s.repo.Attempt().ListByUser(ctx, nil, actor.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	return buildAttemptList(attempts, total, params), nil
}

func (s *attemptService) ListByQuiz(ctx context.Context, quizID string, filters repositories.AttemptFilters, params ListAttemptsParams, actor Actor) (*AttemptListResponse, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	canEdit, err := s.quizzes.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, NewPermissionError(actor.ID, quizID, "quiz", "view_attempts", "not course instructor")
	}

	applyListParams(&filters, params)

	attempts, total, err := s.repo.Attempt().ListByQuiz(ctx, nil, quizID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	return buildAttemptList(attempts, total, params), nil
}

// ===== HELPERS =====

// questionsForAttempt projects the quiz's questions into the learner-facing
// shape: answer data stripped, orders shuffled per the quiz settings. The
// shuffle is fresh on every call and never persisted.
func (s *attemptService) questionsForAttempt(ctx context.Context, quiz *models.Quiz) ([]models.Question, error) {
	doc, err := s.repo.QuestionDoc().Get(ctx, quiz.ID)
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

	questions, err = grading.SanitizeAll(questions, grading.ViewAttempt)
	if err != nil {
		return nil, err
	}

	if quiz.RandomizeQuestions {
		questions = grading.ShuffleQuestions(questions)
	}
	if quiz.RandomizeOptions {
		if questions, err = grading.ShuffleOptions(questions); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// completeLesson reports lesson completion to the progress service. An
// already-completed lesson is fine; anything else is logged and dropped
// because the submission itself is already durable.
func (s *attemptService) completeLesson(ctx context.Context, userID, lessonID, attemptID string) bool {
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

func answersFromRequest(reqs []SubmitAnswerRequest) []models.Answer {
	answers := make([]models.Answer, 0, len(reqs))
	for _, r := range reqs {
		answers = append(answers, models.Answer{
			QuestionID:     r.QuestionID,
			SelectedOption: r.SelectedOption,
			SelectedAnswer: r.SelectedAnswer,
			TextAnswer:     r.TextAnswer,
			CodeAnswer:     r.CodeAnswer,
		})
	}
	return answers
}

func applyListParams(filters *repositories.AttemptFilters, params ListAttemptsParams) {
	size := params.Size
	if size <= 0 {
		size = 20
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	filters.Limit = size
	filters.Offset = (page - 1) * size
	filters.SortBy = params.SortBy
	filters.SortOrder = params.SortOrder
}

func buildAttemptList(attempts []*models.QuizAttempt, total int64, params ListAttemptsParams) *AttemptListResponse {
	responses := make([]*AttemptResponse, len(attempts))
	for i, attempt := range attempts {
		responses[i] = &AttemptResponse{
			QuizAttempt:     attempt,
			ScorePercentage: attempt.ScorePercentage(),
			CanSubmit:       attempt.InProgress(),
		}
	}

	size := params.Size
	if size <= 0 {
		size = 20
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	return &AttemptListResponse{
		Attempts: responses,
		Total:    total,
		Page:     page,
		Size:     size,
	}
}
