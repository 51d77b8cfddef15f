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

type goalRoutes struct {
	gs service.GoalServiceI
	a  *auth.JWTAuth
}

func NewGoalRoutes(handler *gin.RouterGroup, gs service.GoalServiceI, a *auth.JWTAuth) {
	r := &goalRoutes{gs: gs, a: a}
	h := handler.Group("/goals")
	h.Use(a.AuthMiddleware())
	{
		h.POST("", r.CreateGoal)
		h.GET("", r.ListGoals)
		h.GET("/:goal_id", r.GetGoal)
		h.PUT("/:goal_id", r.UpdateGoal)
		h.DELETE("/:goal_id", r.DeleteGoal)

		h.POST("/:goal_id/missions", r.CreateMission)
		h.GET("/:goal_id/missions", r.ListMissions)
		h.POST("/:goal_id/missions/:mission_id/complete", r.CompleteMission)
		h.DELETE("/:goal_id/missions/:mission_id", r.DeleteMission)
	}
}

type GoalRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type GoalResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func goalToResponse(g *model.Goal) GoalResponse {
	return GoalResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		Deadline:    g.Deadline,
		CreatedAt:   g.CreatedAt,
	}
}

func (r *goalRoutes) CreateGoal(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	goal := &model.Goal{
		UserID:      claims.UserID,
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	}

	err := r.gs.CreateGoal(c.Request.Context(), goal)
	if err != nil {
		log.Error("failed to create goal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, goalToResponse(goal))
}

func (r *goalRoutes) ListGoals(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goals, err := r.gs.ListGoals(c.Request.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to list goals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list goals"})
		return
	}

	out := make([]GoalResponse, len(goals))
	for i, g := range goals {
		out[i] = goalToResponse(g)
	}
	c.JSON(http.StatusOK, out)
}

func (r *goalRoutes) GetGoal(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}

	goal, err := r.gs.GetGoal(c.Request.Context(), claims.UserID, goalID)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		logger.Logger().Error("failed to get goal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get goal"})
		return
	}

	c.JSON(http.StatusOK, goalToResponse(goal))
}

func (r *goalRoutes) UpdateGoal(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err = r.gs.UpdateGoal(c.Request.Context(), &model.Goal{
		ID:          goalID,
		UserID:      claims.UserID,
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		log.Error("failed to update goal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *goalRoutes) DeleteGoal(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}

	err = r.gs.DeleteGoal(c.Request.Context(), claims.UserID, goalID)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		logger.Logger().Error("failed to delete goal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

type MissionRequest struct {
	Name     string `json:"name" binding:"required"`
	Weekdays []int  `json:"weekdays" binding:"required,min=1,dive,min=0,max=6"`
}

type MissionResponse struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	Name      string    `json:"name"`
	Weekdays  []int     `json:"weekdays"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *goalRoutes) CreateMission(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}

	var req MissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	mission := &model.Mission{
		GoalID:   goalID,
		Name:     req.Name,
		Weekdays: req.Weekdays,
	}

	err = r.gs.CreateMission(c.Request.Context(), claims.UserID, mission)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		log.Error("failed to create mission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create mission"})
		return
	}

	c.JSON(http.StatusCreated, MissionResponse{
		ID:        mission.ID.String(),
		GoalID:    mission.GoalID.String(),
		Name:      mission.Name,
		Weekdays:  mission.Weekdays,
		CreatedAt: mission.CreatedAt,
	})
}

func (r *goalRoutes) ListMissions(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}

	missions, err := r.gs.ListMissions(c.Request.Context(), claims.UserID, goalID)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		logger.Logger().Error("failed to list missions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list missions"})
		return
	}

	out := make([]MissionResponse, len(missions))
	for i, m := range missions {
		out[i] = MissionResponse{
			ID:        m.ID.String(),
			GoalID:    m.GoalID.String(),
			Name:      m.Name,
			Weekdays:  m.Weekdays,
			CreatedAt: m.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (r *goalRoutes) CompleteMission(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}
	missionID, err := uuid.Parse(c.Param("mission_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission_id"})
		return
	}

	err = r.gs.CompleteMission(c.Request.Context(), claims.UserID, goalID, missionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		case errors.Is(err, service.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "mission already completed today"})
		default:
			logger.Logger().Error("failed to complete mission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete mission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *goalRoutes) DeleteMission(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}
	missionID, err := uuid.Parse(c.Param("mission_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission_id"})
		return
	}

	err = r.gs.DeleteMission(c.Request.Context(), claims.UserID, goalID, missionID)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal or mission not found"})
			return
		}
		logger.Logger().Error("failed to delete mission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete mission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
