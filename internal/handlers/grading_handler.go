package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/utils"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	validator      *validator.Validator
}

func NewGradingHandler(
	gradingService services.GradingService,
	validator *validator.Validator,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		validator:      validator,
	}
}

// GradeAttempt patches the grade of one answer in a submitted attempt
// @Summary Grade attempt answer
// @Description Sets points and feedback for one answer and recomputes the attempt score
// @Tags grading
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param grade body services.GradeAttemptRequest true "Grade data"
// @Success 200 {object} services.GradeResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /attempts/{id}/grade [post]
func (h *GradingHandler) GradeAttempt(c *gin.Context) {
	attemptID := c.Param("id")
	h.LogRequest(c, "Grading attempt", "attempt_id", attemptID)

	var req services.GradeAttemptRequest
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

	result, err := h.gradingService.GradeAttempt(c.Request.Context(), attemptID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
