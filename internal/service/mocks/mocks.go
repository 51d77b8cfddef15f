// Package mocks holds hand-written testify mocks for the repository
// interfaces consumed by the service layer.
package mocks

import (
	"context"
	"time"

	"habitflow/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSpecialMissionRepository struct {
	mock.Mock
}

func (m *MockSpecialMissionRepository) CreateSpecialMission(ctx context.Context, mission *model.SpecialMission) error {
	args := m.Called(ctx, mission)
	return args.Error(0)
}

func (m *MockSpecialMissionRepository) GetSpecialMission(ctx context.Context, id uuid.UUID) (*model.SpecialMission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SpecialMission), args.Error(1)
}

func (m *MockSpecialMissionRepository) ListSpecialMissions(ctx context.Context) ([]*model.SpecialMission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SpecialMission), args.Error(1)
}

func (m *MockSpecialMissionRepository) ListNonSponsoredMissions(ctx context.Context) ([]*model.SpecialMission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SpecialMission), args.Error(1)
}

func (m *MockSpecialMissionRepository) CreateSponsorSchedule(ctx context.Context, missionID uuid.UUID, scheduledDate time.Time) error {
	args := m.Called(ctx, missionID, scheduledDate)
	return args.Error(0)
}

func (m *MockSpecialMissionRepository) GetScheduledMission(ctx context.Context, day time.Time) (*model.SpecialMission, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SpecialMission), args.Error(1)
}

func (m *MockSpecialMissionRepository) GetDailyPick(ctx context.Context, day time.Time) (*model.SpecialMission, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SpecialMission), args.Error(1)
}

func (m *MockSpecialMissionRepository) CreateDailyPick(ctx context.Context, day time.Time, missionID uuid.UUID) (*model.SpecialMission, error) {
	args := m.Called(ctx, day, missionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SpecialMission), args.Error(1)
}

func (m *MockSpecialMissionRepository) AssignMission(ctx context.Context, userID, missionID uuid.UUID, availableAt, windowFrom, windowTo time.Time) error {
	args := m.Called(ctx, userID, missionID, availableAt, windowFrom, windowTo)
	return args.Error(0)
}

func (m *MockSpecialMissionRepository) ExpireAssignments(ctx context.Context, timezoneOffset int, localMidnight time.Time) (int64, error) {
	args := m.Called(ctx, timezoneOffset, localMidnight)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpecialMissionRepository) CompleteAssignment(ctx context.Context, assignmentID int64, completedAt time.Time) error {
	args := m.Called(ctx, assignmentID, completedAt)
	return args.Error(0)
}

func (m *MockSpecialMissionRepository) GetLatestAssignment(ctx context.Context, userID uuid.UUID) (*model.MissionAssignment, *model.SpecialMission, error) {
	args := m.Called(ctx, userID)
	var assignment *model.MissionAssignment
	var mission *model.SpecialMission
	if args.Get(0) != nil {
		assignment = args.Get(0).(*model.MissionAssignment)
	}
	if args.Get(1) != nil {
		mission = args.Get(1).(*model.SpecialMission)
	}
	return assignment, mission, args.Error(2)
}

func (m *MockSpecialMissionRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSpecialMissionRepository) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockSpecialMissionRepository) ListTimezoneOffsets(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserProfile(ctx context.Context, id uuid.UUID, name string, timezoneOffset int) error {
	args := m.Called(ctx, id, name, timezoneOffset)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateSponsorOptIn(ctx context.Context, id uuid.UUID, optIn bool) error {
	args := m.Called(ctx, id, optIn)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateInactiveUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockFirstMissionAssigner struct {
	mock.Mock
}

func (m *MockFirstMissionAssigner) AssignFirstMission(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockPrizeRepository struct {
	mock.Mock
}

func (m *MockPrizeRepository) CreatePrize(ctx context.Context, prize *model.Prize) error {
	args := m.Called(ctx, prize)
	return args.Error(0)
}

func (m *MockPrizeRepository) ListPrizesByUser(ctx context.Context, userID uuid.UUID) ([]*model.Prize, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Prize), args.Error(1)
}

func (m *MockPrizeRepository) ClaimPrize(ctx context.Context, userID, prizeID uuid.UUID, claimedAt time.Time) error {
	args := m.Called(ctx, userID, prizeID, claimedAt)
	return args.Error(0)
}

func (m *MockPrizeRepository) DeletePrize(ctx context.Context, userID, prizeID uuid.UUID) error {
	args := m.Called(ctx, userID, prizeID)
	return args.Error(0)
}
