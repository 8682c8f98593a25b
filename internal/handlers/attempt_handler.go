package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/utils"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	validator      *validator.Validator
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	validator *validator.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		validator:      validator,
	}
}

// StartAttempt starts a new quiz attempt
// @Summary Start quiz attempt
// @Description Starts a new attempt; at most one open attempt per quiz and user
// @Tags attempts
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 201 {object} services.AttemptResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id}/attempts [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	quizID := c.Param("id")
	h.LogRequest(c, "Starting quiz attempt", "quiz_id", quizID)

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), quizID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

// SubmitAttempt submits an open attempt with all answers
// @Summary Submit quiz attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param submission body services.SubmitAttemptRequest true "Answers"
// @Success 200 {object} services.SubmitResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	attemptID := c.Param("id")
	h.LogRequest(c, "Submitting quiz attempt", "attempt_id", attemptID)

	var req services.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), attemptID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAttempt returns one attempt
// @Summary Get attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} services.AttemptResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	id := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// ListMyAttempts returns the caller's own attempts
// @Summary List my attempts
// @Tags attempts
// @Produce json
// @Param quiz_id query string false "Filter by quiz"
// @Success 200 {object} services.AttemptListResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var params services.ListAttemptsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	attempts, err := h.attemptService.ListMy(c.Request.Context(), c.Query("quiz_id"), params, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

// ListQuizAttempts returns all attempts of a quiz for its instructor
// @Summary List quiz attempts
// @Tags attempts
// @Produce json
// @Param id path string true "Quiz ID"
// @Param submitted query bool false "Only submitted or only open attempts"
// @Param passed query bool false "Only passed or only failed attempts"
// @Success 200 {object} services.AttemptListResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/attempts [get]
func (h *AttemptHandler) ListQuizAttempts(c *gin.Context) {
	quizID := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var params services.ListAttemptsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	filters := repositories.AttemptFilters{}
	if v, ok := boolQuery(c, "submitted"); ok {
		filters.Submitted = &v
	}
	if v, ok := boolQuery(c, "passed"); ok {
		filters.Passed = &v
	}

	attempts, err := h.attemptService.ListByQuiz(c.Request.Context(), quizID, filters, params, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

func boolQuery(c *gin.Context, name string) (bool, bool) {
	switch c.Query(name) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}
