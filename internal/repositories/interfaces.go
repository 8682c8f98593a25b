package repositories

import (
	"context"
	"time"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type AttemptFilters struct {
	QuizID    *string    `json:"quiz_id"`
	Submitted *bool      `json:"submitted"`
	Passed    *bool      `json:"passed"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "started_at", "score"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// ===== RELATIONAL STORE =====

// QuizRepository covers quiz rows in the relational store.
type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Quiz, error)
	ExistsByLesson(ctx context.Context, tx *gorm.DB, lessonID string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error

	// Delete removes the quiz row; attempt rows go with it via the cascade.
	// Document-store cleanup is the caller's job and happens first.
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// InvalidateCache drops the cached quiz entries for both lookup keys.
	// Question mutations call this because they change what a quiz read
	// returns without touching the quiz row itself.
	InvalidateCache(ctx context.Context, quizID, lessonID string)
}

// AttemptRepository covers attempt rows in the relational store.
type AttemptRepository interface {
	// Create inserts a new attempt. The partial unique index on open
	// attempts makes this the race-free "at most one in progress" check:
	// a second concurrent insert fails with a duplicate-key error.
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error

	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.QuizAttempt, error)
	Update(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error

	GetOpenAttempt(ctx context.Context, tx *gorm.DB, quizID, userID string) (*models.QuizAttempt, error)
	CountSubmitted(ctx context.Context, tx *gorm.DB, quizID, userID string) (int64, error)

	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	ListByQuiz(ctx context.Context, tx *gorm.DB, quizID string, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	ListIDsByQuiz(ctx context.Context, tx *gorm.DB, quizID string) ([]string, error)
}

// ===== DOCUMENT STORE =====

// QuestionDocumentRepository holds one ordered question list per quiz.
// No tx parameter: this store never participates in relational transactions.
type QuestionDocumentRepository interface {
	Create(ctx context.Context, doc *models.QuestionDocument) error
	Get(ctx context.Context, quizID string) (*models.QuestionDocument, error)
	Save(ctx context.Context, doc *models.QuestionDocument) error
	Delete(ctx context.Context, quizID string) error
}

// AnswerDocumentRepository holds one answer list per attempt.
type AnswerDocumentRepository interface {
	Create(ctx context.Context, doc *models.AnswerDocument) error
	Get(ctx context.Context, attemptID string) (*models.AnswerDocument, error)
	Save(ctx context.Context, doc *models.AnswerDocument) error
	DeleteByAttempts(ctx context.Context, attemptIDs []string) error
}
