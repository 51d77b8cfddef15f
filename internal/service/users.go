package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
	"habitflow/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// FirstMissionAssigner is the slice of the special mission engine the user
// service needs for the registration bootstrap.
type FirstMissionAssigner interface {
	AssignFirstMission(ctx context.Context, userID uuid.UUID) error
}

type UserService struct {
	repo           UserRepository
	firstMission   FirstMissionAssigner
	inactivityDays int
}

func NewUserService(repo UserRepository, firstMission FirstMissionAssigner, inactivityDays int) *UserService {
	return &UserService{
		repo:           repo,
		firstMission:   firstMission,
		inactivityDays: inactivityDays,
	}
}

type RegisterInput struct {
	Email          string
	Name           string
	Password       string
	TimezoneOffset int
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             uuid.New(),
		Email:          input.Email,
		Name:           input.Name,
		PasswordHash:   string(hash),
		IsActive:       true,
		TimezoneOffset: input.TimezoneOffset,
		LastSeenAt:     now,
		CreatedAt:      now,
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The bootstrap is best-effort: the cron pass will pick the user up
	// later the same day if this fails.
	err = s.firstMission.AssignFirstMission(ctx, user.ID)
	if err != nil {
		logger.Logger().Error("failed to bootstrap first mission",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	err = s.repo.TouchLastSeen(ctx, user.ID, time.Now().UTC())
	if err != nil {
		logger.Logger().Error("failed to update last seen",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, name string, timezoneOffset int) error {
	err := s.repo.UpdateUserProfile(ctx, id, name, timezoneOffset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *UserService) SetSponsorOptIn(ctx context.Context, id uuid.UUID, optIn bool) error {
	err := s.repo.UpdateSponsorOptIn(ctx, id, optIn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update sponsorship opt-in: %w", err)
	}
	return nil
}

// DeactivateInactive flips off users who have not been seen for the
// configured number of days, removing them from the assignment pass.
func (s *UserService) DeactivateInactive(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.inactivityDays)

	deactivated, err := s.repo.DeactivateInactiveUsers(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to deactivate inactive users: %w", err)
	}

	logger.Logger().Info("inactivity sweep finished",
		zap.Int64("deactivated", deactivated))

	return nil
}
