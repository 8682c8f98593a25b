package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/clients"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/events"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
	"gorm.io/gorm"
)

// Dependencies bundles everything the services need. The manager wires the
// services together once at startup; nothing is constructed per request.
type Dependencies struct {
	DB        *gorm.DB
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator

	Lessons     clients.LessonClient
	Enrollments clients.EnrollmentClient
	Progress    clients.ProgressClient

	Publisher events.EventPublisher
}

// serviceManager implements ServiceManager
type serviceManager struct {
	deps Dependencies

	quizService     QuizService
	questionService QuestionService
	attemptService  AttemptService
	gradingService  GradingService
	reportService   ReportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	d := sm.deps
	sm.quizService = NewQuizService(d.Repo, d.DB, d.Logger, d.Validator, d.Lessons, d.Publisher)
	sm.questionService = NewQuestionService(d.Repo, d.DB, d.Logger, d.Validator, sm.quizService)
	sm.attemptService = NewAttemptService(d.Repo, d.DB, d.Logger, d.Validator, sm.quizService, d.Lessons, d.Enrollments, d.Progress, d.Publisher)
	sm.gradingService = NewGradingService(d.Repo, d.DB, d.Logger, d.Validator, sm.quizService, d.Progress, d.Publisher)
	sm.reportService = NewReportService(d.Repo, d.DB, d.Logger, sm.quizService)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.quizService
}

func (sm *serviceManager) Question() QuestionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.questionService
}

func (sm *serviceManager) Attempt() AttemptService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.attemptService
}

func (sm *serviceManager) Grading() GradingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.gradingService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if err := sm.deps.Publisher.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close event publisher", "error", err)
	}

	if repoManager, ok := sm.deps.Repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
		}
	} else if err := sm.deps.Repo.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}
