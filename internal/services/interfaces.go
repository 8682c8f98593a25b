package services

import (
	"context"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateQuizRequest = validator.QuizCreateRequest
type UpdateQuizRequest = validator.QuizUpdateRequest
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type ReorderQuestionsRequest = validator.ReorderQuestionsRequest
type SubmitAttemptRequest = validator.SubmitAttemptRequest
type SubmitAnswerRequest = validator.SubmitAnswerRequest
type GradeAttemptRequest = validator.GradeAttemptRequest
type ListAttemptsParams = validator.ListAttemptsParams

// Actor is the authenticated caller as asserted by the platform gateway.
// This service never authenticates; it trusts the identity headers the
// gateway injects and only decides authorization.
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsInstructor() bool {
	return a.Role == models.RoleInstructor
}

type QuizResponse struct {
	*models.Quiz
	Questions []models.Question `json:"questions,omitempty"`
	CanEdit   bool              `json:"can_edit"`
}

type AttemptResponse struct {
	*models.QuizAttempt
	ScorePercentage int               `json:"score_percentage"`
	Questions       []models.Question `json:"questions,omitempty"`
	Answers         []models.Answer   `json:"answers,omitempty"`
	CanSubmit       bool              `json:"can_submit"`
}

type AttemptListResponse struct {
	Attempts []*AttemptResponse `json:"attempts"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}

// SubmitResult is what a learner gets back from submitting an attempt.
type SubmitResult struct {
	*models.QuizAttempt
	ScorePercentage int             `json:"score_percentage"`
	PassingScore    int             `json:"passing_score"`
	Answers         []models.Answer `json:"answers"`
	CourseCompleted bool            `json:"course_completed"`
}

// GradeResult is the outcome of one manual grading patch.
type GradeResult struct {
	*models.QuizAttempt
	ScorePercentage int           `json:"score_percentage"`
	Answer          models.Answer `json:"answer"`
	PassedChanged   bool          `json:"passed_changed"`
	CourseCompleted bool          `json:"course_completed"`
}

// ===== SERVICE INTERFACES =====

type QuizService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateQuizRequest, actor Actor) (*QuizResponse, error)
	GetByID(ctx context.Context, id string, actor Actor) (*QuizResponse, error)
	GetByLesson(ctx context.Context, lessonID string, actor Actor) (*QuizResponse, error)
	Update(ctx context.Context, id string, req *UpdateQuizRequest, actor Actor) (*QuizResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error

	// Permission checks
	CanEdit(ctx context.Context, quiz *models.Quiz, actor Actor) (bool, error)
}

type QuestionService interface {
	Add(ctx context.Context, quizID string, req *CreateQuestionRequest, actor Actor) (*models.Question, error)
	Update(ctx context.Context, quizID, questionID string, req *UpdateQuestionRequest, actor Actor) (*models.Question, error)
	Delete(ctx context.Context, quizID, questionID string, actor Actor) error
	Reorder(ctx context.Context, quizID string, req *ReorderQuestionsRequest, actor Actor) ([]models.Question, error)
	List(ctx context.Context, quizID string, actor Actor) ([]models.Question, error)
}

type AttemptService interface {
	// Lifecycle
	Start(ctx context.Context, quizID string, actor Actor) (*AttemptResponse, error)
	Submit(ctx context.Context, attemptID string, req *SubmitAttemptRequest, actor Actor) (*SubmitResult, error)

	// Get operations
	GetByID(ctx context.Context, id string, actor Actor) (*AttemptResponse, error)

	// List operations
	ListMy(ctx context.Context, quizID string, params ListAttemptsParams, actor Actor) (*AttemptListResponse, error)
	ListByQuiz(ctx context.Context, quizID string, filters repositories.AttemptFilters, params ListAttemptsParams, actor Actor) (*AttemptListResponse, error)
}

type GradingService interface {
	// GradeAttempt patches the grade of one answer in a submitted attempt
	// and recomputes the attempt's aggregate score.
	GradeAttempt(ctx context.Context, attemptID string, req *GradeAttemptRequest, actor Actor) (*GradeResult, error)
}

type ReportService interface {
	// ExportQuizAttempts renders every attempt of a quiz as an XLSX workbook.
	ExportQuizAttempts(ctx context.Context, quizID string, actor Actor) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Quiz() QuizService
	Question() QuestionService
	Attempt() AttemptService
	Grading() GradingService
	Report() ReportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
