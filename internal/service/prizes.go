package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"

	"github.com/google/uuid"
)

type PrizeService struct {
	repo PrizeRepository
}

func NewPrizeService(repo PrizeRepository) *PrizeService {
	return &PrizeService{repo: repo}
}

func (s *PrizeService) CreatePrize(ctx context.Context, prize *model.Prize) error {
	if prize.ID == uuid.Nil {
		prize.ID = uuid.New()
	}
	if prize.CreatedAt.IsZero() {
		prize.CreatedAt = time.Now().UTC()
	}

	err := s.repo.CreatePrize(ctx, prize)
	if err != nil {
		return fmt.Errorf("failed to create prize: %w", err)
	}
	return nil
}

func (s *PrizeService) ListPrizes(ctx context.Context, userID uuid.UUID) ([]*model.Prize, error) {
	prizes, err := s.repo.ListPrizesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	return prizes, nil
}

func (s *PrizeService) ClaimPrize(ctx context.Context, userID, prizeID uuid.UUID) error {
	err := s.repo.ClaimPrize(ctx, userID, prizeID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrPrizeNotFound
		case errors.Is(err, repository.ErrAlreadyClaimed):
			return ErrPrizeAlreadyClaimed
		}
		return fmt.Errorf("failed to claim prize: %w", err)
	}
	return nil
}

func (s *PrizeService) DeletePrize(ctx context.Context, userID, prizeID uuid.UUID) error {
	err := s.repo.DeletePrize(ctx, userID, prizeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPrizeNotFound
		}
		return fmt.Errorf("failed to delete prize: %w", err)
	}
	return nil
}
