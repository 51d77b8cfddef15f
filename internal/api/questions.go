package api

import (
	"net/http"
	"time"

	"habitflow/internal/middleware"
	"habitflow/internal/model"
	"habitflow/internal/service"
	"habitflow/pkg/auth"
	"habitflow/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type questionRoutes struct {
	qs service.QuestionServiceI
	a  *auth.JWTAuth
}

func NewQuestionRoutes(handler *gin.RouterGroup, qs service.QuestionServiceI, a *auth.JWTAuth, admin *middleware.Authorization) {
	r := &questionRoutes{qs: qs, a: a}
	h := handler.Group("/questions")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.ListQuestions)
		h.POST("/:question_id/answer", r.Answer)
		h.GET("/answers", r.ListAnswers)

		op := h.Group("")
		op.Use(admin.AdminOnly())
		{
			op.POST("", r.CreateQuestion)
		}
	}
}

type QuestionResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

func (r *questionRoutes) ListQuestions(c *gin.Context) {
	questions, err := r.qs.ListQuestions(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to list questions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list questions"})
		return
	}

	out := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = QuestionResponse{
			ID:       q.ID.String(),
			Text:     q.Text,
			Position: q.Position,
		}
	}
	c.JSON(http.StatusOK, out)
}

type CreateQuestionRequest struct {
	Text     string `json:"text" binding:"required"`
	Position int    `json:"position" binding:"min=0"`
}

func (r *questionRoutes) CreateQuestion(c *gin.Context) {
	log := logger.Logger()

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	question := &model.Question{
		Text:     req.Text,
		Position: req.Position,
	}

	err := r.qs.CreateQuestion(c.Request.Context(), question)
	if err != nil {
		log.Error("failed to create question", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, QuestionResponse{
		ID:       question.ID.String(),
		Text:     question.Text,
		Position: question.Position,
	})
}

type AnswerRequest struct {
	Text string `json:"text" binding:"required"`
}

func (r *questionRoutes) Answer(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question_id"})
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err = r.qs.Answer(c.Request.Context(), &model.Answer{
		UserID:     claims.UserID,
		QuestionID: questionID,
		Text:       req.Text,
	})
	if err != nil {
		log.Error("failed to save answer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

type AnswerResponse struct {
	QuestionID string    `json:"question_id"`
	Text       string    `json:"text"`
	AnsweredAt time.Time `json:"answered_at"`
}

func (r *questionRoutes) ListAnswers(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	answers, err := r.qs.ListAnswers(c.Request.Context(), claims.UserID)
	if err != nil {
		logger.Logger().Error("failed to list answers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list answers"})
		return
	}

	out := make([]AnswerResponse, len(answers))
	for i, a := range answers {
		out[i] = AnswerResponse{
			QuestionID: a.QuestionID.String(),
			Text:       a.Text,
			AnsweredAt: a.AnsweredAt,
		}
	}
	c.JSON(http.StatusOK, out)
}
