package api

import (
	"errors"
	"net/http"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/service"
	"habitflow/pkg/auth"
	"habitflow/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type prizeRoutes struct {
	ps service.PrizeServiceI
	a  *auth.JWTAuth
}

func NewPrizeRoutes(handler *gin.RouterGroup, ps service.PrizeServiceI, a *auth.JWTAuth) {
	r := &prizeRoutes{ps: ps, a: a}
	h := handler.Group("/prizes")
	h.Use(a.AuthMiddleware())
	{
		h.POST("", r.CreatePrize)
		h.GET("", r.ListPrizes)
		h.POST("/:prize_id/claim", r.ClaimPrize)
		h.DELETE("/:prize_id", r.DeletePrize)
	}
}

type PrizeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type PrizeResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (r *prizeRoutes) CreatePrize(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	prize := &model.Prize{
		UserID:      claims.UserID,
		Name:        req.Name,
		Description: req.Description,
	}

	err := r.ps.CreatePrize(c.Request.Context(), prize)
	if err != nil {
		log.Error("failed to create prize", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create prize"})
		return
	}

	c.JSON(http.StatusCreated, PrizeResponse{
		ID:          prize.ID.String(),
		Name:        prize.Name,
		Description: prize.Description,
		CreatedAt:   prize.CreatedAt,
	})
}

func (r *prizeRoutes) ListPrizes(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	prizes, err := r.ps.ListPrizes(c.Request.Context(), claims.UserID)
	if err != nil {
		logger.Logger().Error("failed to list prizes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list prizes"})
		return
	}

	out := make([]PrizeResponse, len(prizes))
	for i, p := range prizes {
		out[i] = PrizeResponse{
			ID:          p.ID.String(),
			Name:        p.Name,
			Description: p.Description,
			ClaimedAt:   p.ClaimedAt,
			CreatedAt:   p.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (r *prizeRoutes) ClaimPrize(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	prizeID, err := uuid.Parse(c.Param("prize_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prize_id"})
		return
	}

	err = r.ps.ClaimPrize(c.Request.Context(), claims.UserID, prizeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPrizeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "prize not found"})
		case errors.Is(err, service.ErrPrizeAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "prize already claimed"})
		default:
			logger.Logger().Error("failed to claim prize", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim prize"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *prizeRoutes) DeletePrize(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	prizeID, err := uuid.Parse(c.Param("prize_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prize_id"})
		return
	}

	err = r.ps.DeletePrize(c.Request.Context(), claims.UserID, prizeID)
	if err != nil {
		if errors.Is(err, service.ErrPrizeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prize not found"})
			return
		}
		logger.Logger().Error("failed to delete prize", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete prize"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
