package service

import (
	"context"
	"testing"

	"habitflow/internal/repository"
	"habitflow/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPrizeService_ClaimPrize(t *testing.T) {
	userID := uuid.New()
	prizeID := uuid.New()

	tests := []struct {
		name          string
		repoError     error
		expectedError error
	}{
		{name: "success"},
		{
			name:          "unknown prize",
			repoError:     repository.ErrNotFound,
			expectedError: ErrPrizeNotFound,
		},
		{
			name:          "second claim is a conflict",
			repoError:     repository.ErrAlreadyClaimed,
			expectedError: ErrPrizeAlreadyClaimed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockPrizeRepository{}
			mockRepo.On("ClaimPrize", mock.Anything, userID, prizeID, mock.Anything).
				Return(tt.repoError)

			svc := NewPrizeService(mockRepo)
			err := svc.ClaimPrize(context.Background(), userID, prizeID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
