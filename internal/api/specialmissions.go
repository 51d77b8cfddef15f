package api

import (
	"errors"
	"net/http"
	"strconv"
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

type specialMissionRoutes struct {
	sm service.SpecialMissionServiceI
	a  *auth.JWTAuth
}

func NewSpecialMissionRoutes(handler *gin.RouterGroup, sm service.SpecialMissionServiceI, a *auth.JWTAuth, admin *middleware.Authorization) {
	r := &specialMissionRoutes{sm: sm, a: a}
	h := handler.Group("/specialmissions")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/latest", r.GetLatest)
		h.POST("/assignments/:assignment_id/complete", r.CompleteAssignment)

		op := h.Group("")
		op.Use(admin.AdminOnly())
		{
			op.POST("", r.CreateMission)
			op.POST("/schedules", r.ScheduleMission)
		}
	}
}

type SpecialMissionResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Steps         []string `json:"steps"`
	Link          string   `json:"link"`
	IsPartnership bool     `json:"is_partnership"`
}

type LatestAssignmentResponse struct {
	AssignmentID int64                  `json:"assignment_id"`
	Mission      SpecialMissionResponse `json:"mission"`
	Status       string                 `json:"status"`
	Note         string                 `json:"note,omitempty"`
	AvailableAt  time.Time              `json:"available_at"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	ExpiredAt    *time.Time             `json:"expired_at,omitempty"`
}

func (r *specialMissionRoutes) GetLatest(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	latest, err := r.sm.LatestStatus(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no mission assigned yet"})
			return
		}
		log.Error("failed to get latest assignment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get latest assignment"})
		return
	}

	c.JSON(http.StatusOK, LatestAssignmentResponse{
		AssignmentID: latest.Assignment.ID,
		Mission: SpecialMissionResponse{
			ID:            latest.Mission.ID.String(),
			Name:          latest.Mission.Name,
			Steps:         latest.Mission.Steps,
			Link:          latest.Mission.Link,
			IsPartnership: latest.Mission.IsPartnership,
		},
		Status:      string(latest.Status),
		Note:        latest.Note,
		AvailableAt: latest.Assignment.AvailableAt,
		CompletedAt: latest.Assignment.CompletedAt,
		ExpiredAt:   latest.Assignment.ExpiredAt,
	})
}

func (r *specialMissionRoutes) CompleteAssignment(c *gin.Context) {
	log := logger.Logger()

	assignmentID, err := strconv.ParseInt(c.Param("assignment_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse assignment_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment_id"})
		return
	}

	err = r.sm.Complete(c.Request.Context(), assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		case errors.Is(err, service.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "assignment already completed"})
		default:
			log.Error("failed to complete assignment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete assignment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

type CreateMissionRequest struct {
	Name          string   `json:"name" binding:"required"`
	Steps         []string `json:"steps" binding:"required,min=1"`
	Link          string   `json:"link"`
	IsPartnership bool     `json:"is_partnership"`
}

func (r *specialMissionRoutes) CreateMission(c *gin.Context) {
	log := logger.Logger()

	var req CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	mission := &model.SpecialMission{
		Name:          req.Name,
		Steps:         req.Steps,
		Link:          req.Link,
		IsPartnership: req.IsPartnership,
	}

	err := r.sm.CreateMission(c.Request.Context(), mission)
	if err != nil {
		log.Error("failed to create special mission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create special mission"})
		return
	}

	c.JSON(http.StatusCreated, SpecialMissionResponse{
		ID:            mission.ID.String(),
		Name:          mission.Name,
		Steps:         mission.Steps,
		Link:          mission.Link,
		IsPartnership: mission.IsPartnership,
	})
}

type ScheduleMissionRequest struct {
	MissionID     string `json:"mission_id" binding:"required,uuid"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
}

func (r *specialMissionRoutes) ScheduleMission(c *gin.Context) {
	log := logger.Logger()

	var req ScheduleMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	missionID, err := uuid.Parse(req.MissionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission_id"})
		return
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_date must be YYYY-MM-DD"})
		return
	}

	err = r.sm.ScheduleMission(c.Request.Context(), missionID, scheduledDate)
	if err != nil {
		if errors.Is(err, service.ErrMissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
			return
		}
		log.Error("failed to schedule mission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule mission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{})
}
