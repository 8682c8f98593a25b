package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/utils"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

type HandlerManager struct {
	quizHandler     *QuizHandler
	questionHandler *QuestionHandler
	attemptHandler  *AttemptHandler
	gradingHandler  *GradingHandler
	reportHandler   *ReportHandler
	authMiddleware  *GatewayAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:     NewQuizHandler(serviceManager.Quiz(), validator, logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), validator, logger),
		attemptHandler:  NewAttemptHandler(serviceManager.Attempt(), validator, logger),
		gradingHandler:  NewGradingHandler(serviceManager.Grading(), validator, logger),
		reportHandler:   NewReportHandler(serviceManager.Report(), logger),
		authMiddleware:  NewGatewayAuthMiddleware(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	authoring := hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor, models.RoleAdmin)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			// Authoring - Instructors and Admins only
			quizzes.POST("", authoring, hm.quizHandler.CreateQuiz)
			quizzes.PUT("/:id", authoring, hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", authoring, hm.quizHandler.DeleteQuiz)

			// View quizzes - All authenticated users (answers stripped per role)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)

			// Question management - Instructors and Admins only
			quizzes.POST("/:id/questions", authoring, hm.questionHandler.AddQuestion)
			quizzes.PUT("/:id/questions/reorder", authoring, hm.questionHandler.ReorderQuestions)
			quizzes.PUT("/:id/questions/:question_id", authoring, hm.questionHandler.UpdateQuestion)
			quizzes.DELETE("/:id/questions/:question_id", authoring, hm.questionHandler.DeleteQuestion)
			quizzes.GET("/:id/questions", hm.questionHandler.ListQuestions)

			// Attempt oversight - Instructors and Admins only
			quizzes.GET("/:id/attempts", authoring, hm.attemptHandler.ListQuizAttempts)
			quizzes.GET("/:id/attempts/export", authoring, hm.reportHandler.ExportQuizAttempts)

			// Taking the quiz
			quizzes.POST("/:id/attempts", hm.attemptHandler.StartAttempt)
		}

		// Lesson-scoped lookup
		lessons := v1.Group("/lessons")
		{
			lessons.GET("/:lesson_id/quiz", hm.quizHandler.GetQuizByLesson)
		}

		// Attempt routes
		attempts := v1.Group("/attempts")
		{
			attempts.GET("", hm.attemptHandler.ListMyAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.POST("/:id/submit", hm.attemptHandler.SubmitAttempt)

			// Manual grading - Instructors and Admins only
			attempts.POST("/:id/grade", authoring, hm.gradingHandler.GradeAttempt)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})
}
