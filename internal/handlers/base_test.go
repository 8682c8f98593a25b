package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

func serviceErrorStatus(t *testing.T, err error) int {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", nil)

	h := NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.handleServiceError(c, err)

	return w.Code
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"quiz not found", services.ErrQuizNotFound, http.StatusNotFound},
		{"question not found", services.ErrQuestionNotFound, http.StatusNotFound},
		{"attempt not found", services.ErrAttemptNotFound, http.StatusNotFound},
		{"lesson not found", services.ErrLessonNotFound, http.StatusNotFound},
		{"quiz already exists", services.ErrQuizAlreadyExists, http.StatusConflict},
		{"attempt in progress", services.ErrAttemptInProgress, http.StatusConflict},
		{"double submit", services.ErrAttemptAlreadySubmitted, http.StatusConflict},
		// Rule violations the caller can act on are bad requests, not
		// conflicts: the limit and the clock are part of the quiz contract.
		{"attempt limit reached", services.ErrAttemptLimitReached, http.StatusBadRequest},
		{"attempt time expired", services.ErrAttemptTimeExpired, http.StatusBadRequest},
		{"attempt not submitted", services.ErrAttemptNotSubmitted, http.StatusBadRequest},
		{"lesson not published", services.ErrLessonNotPublished, http.StatusBadRequest},
		{"lesson not quiz type", services.ErrLessonNotQuizType, http.StatusBadRequest},
		{"enrollment not active", services.ErrEnrollmentNotActive, http.StatusForbidden},
		{"permission denied", services.NewPermissionError("u1", "q1", "quiz", "update", "not the owner"), http.StatusForbidden},
		{"validation failure", validator.ValidationErrors{{Field: "title", Message: "required"}}, http.StatusBadRequest},
		{"unknown error", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serviceErrorStatus(t, tt.err); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}
