package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"

	"github.com/google/uuid"
)

type QuestionService struct {
	repo QuestionRepository
}

func NewQuestionService(repo QuestionRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *model.Question) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}

	err := s.repo.CreateQuestion(ctx, question)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *QuestionService) Answer(ctx context.Context, answer *model.Answer) error {
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now().UTC()
	}

	err := s.repo.SaveAnswer(ctx, answer)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

func (s *QuestionService) ListAnswers(ctx context.Context, userID uuid.UUID) ([]*model.Answer, error) {
	answers, err := s.repo.ListAnswersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}
