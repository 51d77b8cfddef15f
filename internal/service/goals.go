package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
	"habitflow/pkg/clock"

	"github.com/google/uuid"
)

type GoalService struct {
	repo GoalRepository
}

func NewGoalService(repo GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}

	err := s.repo.CreateGoal(ctx, goal)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (s *GoalService) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error) {
	goals, err := s.repo.ListGoalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	err := s.repo.UpdateGoal(ctx, goal)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	err := s.repo.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (s *GoalService) CreateMission(ctx context.Context, userID uuid.UUID, mission *model.Mission) error {
	if _, err := s.ownedGoal(ctx, userID, mission.GoalID); err != nil {
		return err
	}

	if mission.ID == uuid.Nil {
		mission.ID = uuid.New()
	}
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now().UTC()
	}

	err := s.repo.CreateMission(ctx, mission)
	if err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}
	return nil
}

func (s *GoalService) ListMissions(ctx context.Context, userID, goalID uuid.UUID) ([]*model.Mission, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}

	missions, err := s.repo.ListMissionsByGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, nil
}

func (s *GoalService) CompleteMission(ctx context.Context, userID, goalID, missionID uuid.UUID) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}

	day := clock.UTCDay(time.Now().UTC())
	err := s.repo.RecordMissionCompletion(ctx, missionID, day)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCompleted) {
			return ErrAlreadyCompleted
		}
		return fmt.Errorf("failed to complete mission: %w", err)
	}
	return nil
}

func (s *GoalService) DeleteMission(ctx context.Context, userID, goalID, missionID uuid.UUID) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}

	err := s.repo.DeleteMission(ctx, goalID, missionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	return nil
}

func (s *GoalService) ownedGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if goal.UserID != userID {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}
