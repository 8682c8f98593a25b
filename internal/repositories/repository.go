package repositories

import "context"

// Repository aggregates every store the service talks to. The quiz and
// attempt repositories share the relational store and may join a transaction;
// the question and answer document repositories are a separate store with no
// transactional coupling, which is why their methods take no tx handle.
type Repository interface {
	// Relational quiz store
	Quiz() QuizRepository
	Attempt() AttemptRepository

	// Document store
	QuestionDoc() QuestionDocumentRepository
	AnswerDoc() AnswerDocumentRepository

	// Transaction support (relational store only)
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
