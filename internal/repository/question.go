package repository

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type question struct {
	ID        uuid.UUID `db:"id"`
	Text      string    `db:"text"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *Repository) CreateQuestion(ctx context.Context, q *model.Question) error {
	query, args, err := squirrel.
		Insert("questions").
		SetMap(map[string]interface{}{
			"id":         q.ID,
			"text":       q.Text,
			"position":   q.Position,
			"created_at": q.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	return nil
}

func (r *Repository) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	query, args, err := squirrel.
		Select("id", "text", "position", "created_at").
		From("questions").
		OrderBy("position").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []question
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	questions := make([]*model.Question, len(rows))
	for i, row := range rows {
		questions[i] = &model.Question{
			ID:        row.ID,
			Text:      row.Text,
			Position:  row.Position,
			CreatedAt: row.CreatedAt,
		}
	}
	return questions, nil
}

// SaveAnswer upserts the user's answer; re-answering replaces the text.
func (r *Repository) SaveAnswer(ctx context.Context, a *model.Answer) error {
	query := `INSERT INTO question_answers (user_id, question_id, text, answered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, question_id)
		DO UPDATE SET text = EXCLUDED.text, answered_at = EXCLUDED.answered_at`

	_, err := r.db.ExecContext(ctx, query, a.UserID, a.QuestionID, a.Text, a.AnsweredAt)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}

	return nil
}

func (r *Repository) ListAnswersByUser(ctx context.Context, userID uuid.UUID) ([]*model.Answer, error) {
	query, args, err := squirrel.
		Select("user_id", "question_id", "text", "answered_at").
		From("question_answers").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("answered_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		UserID     uuid.UUID `db:"user_id"`
		QuestionID uuid.UUID `db:"question_id"`
		Text       string    `db:"text"`
		AnsweredAt time.Time `db:"answered_at"`
	}
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	answers := make([]*model.Answer, len(rows))
	for i, row := range rows {
		answers[i] = &model.Answer{
			UserID:     row.UserID,
			QuestionID: row.QuestionID,
			Text:       row.Text,
			AnsweredAt: row.AnsweredAt,
		}
	}
	return answers, nil
}
