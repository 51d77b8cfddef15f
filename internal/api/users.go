package api

import (
	"errors"
	"net/http"
	"time"

	"habitflow/internal/service"
	"habitflow/pkg/auth"
	"habitflow/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	us service.UserServiceI
	a  *auth.JWTAuth
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, a *auth.JWTAuth) {
	r := &userRoutes{us: us, a: a}

	pub := handler.Group("/auth")
	{
		pub.POST("/register", r.Register)
		pub.POST("/login", r.Login)
	}

	h := handler.Group("/users")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/me", r.GetProfile)
		h.PATCH("/me", r.UpdateProfile)
		h.PATCH("/me/sponsorship", r.UpdateSponsorOptIn)
	}
}

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	TimezoneOffset int    `json:"timezone_offset" binding:"min=-12,max=14"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Name                  string    `json:"name"`
	TimezoneOffset        int       `json:"timezone_offset"`
	SponsorSpecialMission *bool     `json:"sponsor_special_mission"`
	CreatedAt             time.Time `json:"created_at"`
}

func (r *userRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.Register(c.Request.Context(), service.RegisterInput{
		Email:          req.Email,
		Name:           req.Name,
		Password:       req.Password,
		TimezoneOffset: req.TimezoneOffset,
	})
	if err != nil {
		log.Error("failed to register user", zap.Error(err))
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	token, err := r.a.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		log.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:                    user.ID.String(),
			Email:                 user.Email,
			Name:                  user.Name,
			TimezoneOffset:        user.TimezoneOffset,
			SponsorSpecialMission: user.SponsorSpecialMission,
			CreatedAt:             user.CreatedAt,
		},
	})
}

func (r *userRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		log.Error("failed to log in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	token, err := r.a.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		log.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:                    user.ID.String(),
			Email:                 user.Email,
			Name:                  user.Name,
			TimezoneOffset:        user.TimezoneOffset,
			SponsorSpecialMission: user.SponsorSpecialMission,
			CreatedAt:             user.CreatedAt,
		},
	})
}

func (r *userRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := r.us.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to get user", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:                    user.ID.String(),
		Email:                 user.Email,
		Name:                  user.Name,
		TimezoneOffset:        user.TimezoneOffset,
		SponsorSpecialMission: user.SponsorSpecialMission,
		CreatedAt:             user.CreatedAt,
	})
}

type UpdateProfileRequest struct {
	Name           string `json:"name" binding:"required"`
	TimezoneOffset int    `json:"timezone_offset" binding:"min=-12,max=14"`
}

func (r *userRoutes) UpdateProfile(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := r.us.UpdateProfile(c.Request.Context(), claims.UserID, req.Name, req.TimezoneOffset)
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

type SponsorOptInRequest struct {
	SponsorSpecialMission *bool `json:"sponsor_special_mission" binding:"required"`
}

func (r *userRoutes) UpdateSponsorOptIn(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SponsorOptInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := r.us.SetSponsorOptIn(c.Request.Context(), claims.UserID, *req.SponsorSpecialMission)
	if err != nil {
		log.Error("failed to update sponsorship opt-in", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update sponsorship opt-in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
