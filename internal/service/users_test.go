package service

import (
	"context"
	"testing"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
	"habitflow/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	input := RegisterInput{
		Email:          "ada@example.com",
		Name:           "Ada",
		Password:       "correct horse",
		TimezoneOffset: -3,
	}

	t.Run("creates user and bootstraps first mission", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockAssigner := &mocks.MockFirstMissionAssigner{}

		mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
			return user.Email == input.Email &&
				user.IsActive &&
				user.TimezoneOffset == input.TimezoneOffset &&
				bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) == nil
		})).Return(nil)
		mockAssigner.On("AssignFirstMission", mock.Anything, mock.Anything).
			Return(nil)

		svc := NewUserService(mockRepo, mockAssigner, 30)
		user, err := svc.Register(context.Background(), input)

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		mockRepo.AssertExpectations(t)
		mockAssigner.AssertExpectations(t)
	})

	t.Run("bootstrap failure does not fail registration", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockAssigner := &mocks.MockFirstMissionAssigner{}

		mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
		mockAssigner.On("AssignFirstMission", mock.Anything, mock.Anything).
			Return(assert.AnError)

		svc := NewUserService(mockRepo, mockAssigner, 30)
		user, err := svc.Register(context.Background(), input)

		assert.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockAssigner := &mocks.MockFirstMissionAssigner{}

		mockRepo.On("CreateUser", mock.Anything, mock.Anything).
			Return(repository.ErrDuplicateEmail)

		svc := NewUserService(mockRepo, mockAssigner, 30)
		_, err := svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockAssigner.AssertNotCalled(t, "AssignFirstMission", mock.Anything, mock.Anything)
	})
}

func TestUserService_Login(t *testing.T) {
	password := "correct horse"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	stored := &model.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	tests := []struct {
		name          string
		password      string
		mockSetup     func(repo *mocks.MockUserRepository)
		expectedError error
	}{
		{
			name:     "success",
			password: password,
			mockSetup: func(repo *mocks.MockUserRepository) {
				repo.On("GetUserByEmail", mock.Anything, stored.Email).
					Return(stored, nil)
				repo.On("TouchLastSeen", mock.Anything, stored.ID, mock.Anything).
					Return(nil)
			},
		},
		{
			name:     "wrong password",
			password: "wrong horse",
			mockSetup: func(repo *mocks.MockUserRepository) {
				repo.On("GetUserByEmail", mock.Anything, stored.Email).
					Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: password,
			mockSetup: func(repo *mocks.MockUserRepository) {
				repo.On("GetUserByEmail", mock.Anything, stored.Email).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockUserRepository{}
			tt.mockSetup(mockRepo)

			svc := NewUserService(mockRepo, &mocks.MockFirstMissionAssigner{}, 30)
			user, err := svc.Login(context.Background(), stored.Email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, stored.ID, user.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_DeactivateInactive(t *testing.T) {
	inactivityDays := 30

	mockRepo := &mocks.MockUserRepository{}
	mockRepo.On("DeactivateInactiveUsers", mock.Anything,
		mock.MatchedBy(func(cutoff time.Time) bool {
			expected := time.Now().UTC().AddDate(0, 0, -inactivityDays)
			return expected.Sub(cutoff).Abs() < 5*time.Second
		})).
		Return(int64(2), nil)

	svc := NewUserService(mockRepo, &mocks.MockFirstMissionAssigner{}, inactivityDays)
	err := svc.DeactivateInactive(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
