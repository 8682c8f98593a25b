package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/utils"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	validator       *validator.Validator
}

func NewQuestionHandler(
	questionService services.QuestionService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		validator:       validator,
	}
}

// AddQuestion appends a question to a quiz
// @Summary Add question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions [post]
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	quizID := c.Param("id")
	h.LogRequest(c, "Adding question", "quiz_id", quizID)

	var req services.CreateQuestionRequest
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

	question, err := h.questionService.Add(c.Request.Context(), quizID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions returns a quiz's questions, sanitized per the caller's role
// @Summary List questions
// @Tags questions
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	quizID := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), quizID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: questions})
}

// UpdateQuestion patches one question
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param question_id path string true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Fields to update"
// @Success 200 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions/{question_id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	quizID := c.Param("id")
	questionID := c.Param("question_id")
	h.LogRequest(c, "Updating question", "quiz_id", quizID, "question_id", questionID)

	var req services.UpdateQuestionRequest
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

	question, err := h.questionService.Update(c.Request.Context(), quizID, questionID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes one question and closes the order gap
// @Summary Delete question
// @Tags questions
// @Param id path string true "Quiz ID"
// @Param question_id path string true "Question ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions/{question_id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	quizID := c.Param("id")
	questionID := c.Param("question_id")
	h.LogRequest(c, "Deleting question", "quiz_id", quizID, "question_id", questionID)

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), quizID, questionID, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderQuestions replaces the full question ordering
// @Summary Reorder questions
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param order body services.ReorderQuestionsRequest true "New ordering"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions/reorder [put]
func (h *QuestionHandler) ReorderQuestions(c *gin.Context) {
	quizID := c.Param("id")
	h.LogRequest(c, "Reordering questions", "quiz_id", quizID)

	var req services.ReorderQuestionsRequest
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

	questions, err := h.questionService.Reorder(c.Request.Context(), quizID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: questions})
}
