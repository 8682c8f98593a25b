package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/utils"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps data payloads that carry no natural top-level shape
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// BaseHandler carries what every handler needs
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with handler context
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "method", c.Request.Method, "path", c.Request.URL.Path)
	h.logger.Info(msg, args...)
}

// handleServiceError translates service errors into HTTP responses. Every
// handler funnels its service failures through here so status mapping lives
// in exactly one place.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied",
			Details: permErr.Reason,
		})
		return
	}

	var ruleErr *services.BusinessRuleError
	if errors.As(err, &ruleErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: ruleErr.Message,
			Details: ruleErr.Rule,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAttemptNotFound),
		errors.Is(err, services.ErrLessonNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrQuizAlreadyExists),
		errors.Is(err, services.ErrAttemptInProgress),
		errors.Is(err, services.ErrAttemptAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrEnrollmentNotActive):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrAttemptNotSubmitted),
		errors.Is(err, services.ErrAttemptLimitReached),
		errors.Is(err, services.ErrAttemptTimeExpired),
		errors.Is(err, services.ErrLessonNotPublished),
		errors.Is(err, services.ErrLessonNotQuizType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})

	default:
		h.logger.Error("Unhandled service error",
			"path", c.Request.URL.Path,
			"error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
