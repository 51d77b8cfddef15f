package service

import (
	"context"
	"testing"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
	"habitflow/internal/service/mocks"
	"habitflow/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestMission(name string, partnership bool) *model.SpecialMission {
	return &model.SpecialMission{
		ID:            uuid.New(),
		Name:          name,
		Steps:         []string{"step one", "step two"},
		Link:          "https://example.com/" + name,
		IsPartnership: partnership,
		CreatedAt:     time.Now().UTC(),
	}
}

func optedOut() *bool {
	v := false
	return &v
}

func TestSpecialMissionService_MissionOfDay(t *testing.T) {
	today := clock.UTCDay(time.Now().UTC())
	sponsored := newTestMission("sponsored", true)
	organic := newTestMission("organic", false)

	tests := []struct {
		name          string
		mockSetup     func(repo *mocks.MockSpecialMissionRepository)
		expected      *model.SpecialMission
		expectedError error
	}{
		{
			name: "sponsor schedule wins",
			mockSetup: func(repo *mocks.MockSpecialMissionRepository) {
				repo.On("GetScheduledMission", mock.Anything, today).
					Return(sponsored, nil)
			},
			expected: sponsored,
		},
		{
			name: "memoized pick reused",
			mockSetup: func(repo *mocks.MockSpecialMissionRepository) {
				repo.On("GetScheduledMission", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetDailyPick", mock.Anything, today).
					Return(organic, nil)
			},
			expected: organic,
		},
		{
			name: "random pick persisted on first access",
			mockSetup: func(repo *mocks.MockSpecialMissionRepository) {
				repo.On("GetScheduledMission", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetDailyPick", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("ListNonSponsoredMissions", mock.Anything).
					Return([]*model.SpecialMission{organic}, nil)
				repo.On("CreateDailyPick", mock.Anything, today, organic.ID).
					Return(organic, nil)
			},
			expected: organic,
		},
		{
			name: "empty catalog means no mission of the day",
			mockSetup: func(repo *mocks.MockSpecialMissionRepository) {
				repo.On("GetScheduledMission", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetDailyPick", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("ListNonSponsoredMissions", mock.Anything).
					Return([]*model.SpecialMission{}, nil)
			},
			expectedError: ErrNoMissionOfDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSpecialMissionRepository{}
			tt.mockSetup(mockRepo)
			svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())

			mission, err := svc.MissionOfDay(context.Background(), time.Now().UTC())

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected.ID, mission.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSpecialMissionService_MissionOfDay_StableAcrossCalls(t *testing.T) {
	today := clock.UTCDay(time.Now().UTC())
	organic := newTestMission("alpha", false)

	mockRepo := &mocks.MockSpecialMissionRepository{}
	mockRepo.On("GetScheduledMission", mock.Anything, today).
		Return(nil, repository.ErrNotFound)
	// First call misses the memo, later calls hit it.
	mockRepo.On("GetDailyPick", mock.Anything, today).
		Return(nil, repository.ErrNotFound).Once()
	mockRepo.On("ListNonSponsoredMissions", mock.Anything).
		Return([]*model.SpecialMission{organic}, nil).Once()
	mockRepo.On("CreateDailyPick", mock.Anything, today, organic.ID).
		Return(organic, nil).Once()
	mockRepo.On("GetDailyPick", mock.Anything, today).
		Return(organic, nil)

	svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())

	for i := 0; i < 3; i++ {
		mission, err := svc.MissionOfDay(context.Background(), time.Now().UTC())
		assert.NoError(t, err)
		assert.Equal(t, organic.ID, mission.ID)
	}

	mockRepo.AssertExpectations(t)
}

// assignmentWindowMatch checks the structural relationship between the
// arguments of AssignMission for a user with the given offset: a 24h window
// starting at the user's local midnight, with availableAt inside the daytime
// delivery slot.
func assignmentWindowMatch(t *testing.T, offset int) func(args mock.Arguments) {
	return func(args mock.Arguments) {
		availableAt := args.Get(3).(time.Time)
		from := args.Get(4).(time.Time)
		to := args.Get(5).(time.Time)

		assert.Equal(t, 24*time.Hour, to.Sub(from))

		local := from.Add(time.Duration(offset) * time.Hour)
		assert.Equal(t, 0, local.Hour())
		assert.Equal(t, 0, local.Minute())

		delta := availableAt.Sub(from)
		assert.GreaterOrEqual(t, delta, 10*time.Hour)
		assert.Less(t, delta, 23*time.Hour)
	}
}

func TestSpecialMissionService_RunAssignmentPass(t *testing.T) {
	organic := newTestMission("alpha", false)
	sponsored := newTestMission("sponsored", true)

	userMinus3 := &model.User{ID: uuid.New(), IsActive: true, TimezoneOffset: -3}
	userOptedOut := &model.User{ID: uuid.New(), IsActive: true, SponsorSpecialMission: optedOut()}

	t.Run("assigns organic mission in the user's local day window", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("GetDailyPick", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("ListNonSponsoredMissions", mock.Anything).
			Return([]*model.SpecialMission{organic}, nil)
		mockRepo.On("CreateDailyPick", mock.Anything, mock.Anything, organic.ID).
			Return(organic, nil)
		mockRepo.On("ListActiveUsers", mock.Anything).
			Return([]*model.User{userMinus3}, nil)
		mockRepo.On("AssignMission", mock.Anything, userMinus3.ID, organic.ID,
			mock.Anything, mock.Anything, mock.Anything).
			Run(assignmentWindowMatch(t, -3)).
			Return(nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunAssignmentPass(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("second run the same day assigns nothing", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("GetDailyPick", mock.Anything, mock.Anything).
			Return(organic, nil)
		mockRepo.On("ListActiveUsers", mock.Anything).
			Return([]*model.User{userMinus3}, nil)
		mockRepo.On("AssignMission", mock.Anything, userMinus3.ID, organic.ID,
			mock.Anything, mock.Anything, mock.Anything).
			Return(repository.ErrAlreadyAssigned)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunAssignmentPass(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("sponsored mission skips opted-out users", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(sponsored, nil)
		mockRepo.On("ListActiveUsers", mock.Anything).
			Return([]*model.User{userOptedOut}, nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunAssignmentPass(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "AssignMission",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no mission of the day is a no-op", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("GetDailyPick", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("ListNonSponsoredMissions", mock.Anything).
			Return([]*model.SpecialMission{}, nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunAssignmentPass(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "ListActiveUsers", mock.Anything)
	})

	t.Run("one failing user does not stop the pass", func(t *testing.T) {
		otherUser := &model.User{ID: uuid.New(), IsActive: true}

		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("GetDailyPick", mock.Anything, mock.Anything).
			Return(organic, nil)
		mockRepo.On("ListActiveUsers", mock.Anything).
			Return([]*model.User{userMinus3, otherUser}, nil)
		mockRepo.On("AssignMission", mock.Anything, userMinus3.ID, organic.ID,
			mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError)
		mockRepo.On("AssignMission", mock.Anything, otherUser.ID, organic.ID,
			mock.Anything, mock.Anything, mock.Anything).
			Return(nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunAssignmentPass(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestSpecialMissionService_AssignFirstMission(t *testing.T) {
	organic := newTestMission("alpha", false)
	sponsored := newTestMission("sponsored", true)

	t.Run("assigns with availableAt just before now", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), IsActive: true, TimezoneOffset: 2}

		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("GetDailyPick", mock.Anything, mock.Anything).
			Return(organic, nil)
		mockRepo.On("GetUserByID", mock.Anything, user.ID).
			Return(user, nil)
		mockRepo.On("AssignMission", mock.Anything, user.ID, organic.ID,
			mock.MatchedBy(func(availableAt time.Time) bool {
				since := time.Since(availableAt)
				return since >= time.Minute && since < time.Minute+2*time.Second
			}), mock.Anything, mock.Anything).
			Return(nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.AssignFirstMission(context.Background(), user.ID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("opted-out user gets no sponsored bootstrap", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), IsActive: true, SponsorSpecialMission: optedOut()}

		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(sponsored, nil)
		mockRepo.On("GetUserByID", mock.Anything, user.ID).
			Return(user, nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.AssignFirstMission(context.Background(), user.ID)

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "AssignMission",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already assigned is not an error", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), IsActive: true}

		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetScheduledMission", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		mockRepo.On("GetDailyPick", mock.Anything, mock.Anything).
			Return(organic, nil)
		mockRepo.On("GetUserByID", mock.Anything, user.ID).
			Return(user, nil)
		mockRepo.On("AssignMission", mock.Anything, user.ID, organic.ID,
			mock.Anything, mock.Anything, mock.Anything).
			Return(repository.ErrAlreadyAssigned)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.AssignFirstMission(context.Background(), user.ID)

		assert.NoError(t, err)
	})
}

func TestSpecialMissionService_RunExpirationSweep(t *testing.T) {
	t.Run("sweeps each timezone against its own midnight", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("ListTimezoneOffsets", mock.Anything).
			Return([]int{-3, 0}, nil)

		for _, offset := range []int{-3, 0} {
			offset := offset
			mockRepo.On("ExpireAssignments", mock.Anything, offset,
				mock.MatchedBy(func(midnight time.Time) bool {
					local := midnight.Add(time.Duration(offset) * time.Hour)
					return local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0
				})).
				Return(int64(1), nil)
		}

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunExpirationSweep(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("a failing timezone does not stop the sweep", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("ListTimezoneOffsets", mock.Anything).
			Return([]int{5, 6}, nil)
		mockRepo.On("ExpireAssignments", mock.Anything, 5, mock.Anything).
			Return(int64(0), assert.AnError)
		mockRepo.On("ExpireAssignments", mock.Anything, 6, mock.Anything).
			Return(int64(2), nil)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		err := svc.RunExpirationSweep(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestSpecialMissionService_Complete(t *testing.T) {
	tests := []struct {
		name          string
		repoError     error
		expectedError error
	}{
		{name: "success"},
		{
			name:          "assignment missing",
			repoError:     repository.ErrNotFound,
			expectedError: ErrAssignmentNotFound,
		},
		{
			name:          "already completed",
			repoError:     repository.ErrAlreadyCompleted,
			expectedError: ErrAlreadyCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSpecialMissionRepository{}
			mockRepo.On("CompleteAssignment", mock.Anything, int64(42), mock.Anything).
				Return(tt.repoError)

			svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
			err := svc.Complete(context.Background(), 42)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSpecialMissionService_LatestStatus(t *testing.T) {
	userID := uuid.New()
	mission := newTestMission("alpha", false)
	completedAt := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	expiredAt := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name           string
		assignment     *model.MissionAssignment
		expectedStatus model.AssignmentStatus
		expectedNote   string
	}{
		{
			name: "completed with completion day note",
			assignment: &model.MissionAssignment{
				ID: 1, UserID: userID, MissionID: mission.ID,
				AvailableAt: completedAt.Add(-2 * time.Hour),
				CompletedAt: &completedAt,
			},
			expectedStatus: model.AssignmentCompleted,
			expectedNote:   "completed on 2025-03-10",
		},
		{
			name: "expired",
			assignment: &model.MissionAssignment{
				ID: 2, UserID: userID, MissionID: mission.ID,
				AvailableAt: expiredAt.Add(-24 * time.Hour),
				ExpiredAt:   &expiredAt,
			},
			expectedStatus: model.AssignmentExpired,
		},
		{
			name: "available once the delivery instant has passed",
			assignment: &model.MissionAssignment{
				ID: 3, UserID: userID, MissionID: mission.ID,
				AvailableAt: time.Now().UTC().Add(-time.Minute),
			},
			expectedStatus: model.AssignmentAvailable,
		},
		{
			name: "pending before the delivery instant",
			assignment: &model.MissionAssignment{
				ID: 4, UserID: userID, MissionID: mission.ID,
				AvailableAt: time.Now().UTC().Add(3 * time.Hour),
			},
			expectedStatus: model.AssignmentPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSpecialMissionRepository{}
			mockRepo.On("GetLatestAssignment", mock.Anything, userID).
				Return(tt.assignment, mission, nil)

			svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
			latest, err := svc.LatestStatus(context.Background(), userID)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, latest.Status)
			assert.Equal(t, tt.expectedNote, latest.Note)
			assert.Equal(t, mission.ID, latest.Mission.ID)
		})
	}

	t.Run("no assignment yet", func(t *testing.T) {
		mockRepo := &mocks.MockSpecialMissionRepository{}
		mockRepo.On("GetLatestAssignment", mock.Anything, userID).
			Return(nil, nil, repository.ErrNotFound)

		svc := NewSpecialMissionService(mockRepo, DefaultDeliveryWindow())
		_, err := svc.LatestStatus(context.Background(), userID)

		assert.ErrorIs(t, err, ErrAssignmentNotFound)
	})
}
