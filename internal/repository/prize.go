package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"habitflow/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type prize struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	ClaimedAt   *time.Time `db:"claimed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (p *prize) toModel() *model.Prize {
	return &model.Prize{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		ClaimedAt:   p.ClaimedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func (r *Repository) CreatePrize(ctx context.Context, p *model.Prize) error {
	query, args, err := squirrel.
		Insert("prizes").
		SetMap(map[string]interface{}{
			"id":          p.ID,
			"user_id":     p.UserID,
			"name":        p.Name,
			"description": p.Description,
			"created_at":  p.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert prize: %w", err)
	}

	return nil
}

func (r *Repository) ListPrizesByUser(ctx context.Context, userID uuid.UUID) ([]*model.Prize, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "name", "description", "claimed_at", "created_at").
		From("prizes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []prize
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	prizes := make([]*model.Prize, len(rows))
	for i := range rows {
		prizes[i] = rows[i].toModel()
	}
	return prizes, nil
}

// ClaimPrize stamps claimed_at once. A prize that was already claimed returns
// ErrAlreadyClaimed.
func (r *Repository) ClaimPrize(ctx context.Context, userID, prizeID uuid.UUID, claimedAt time.Time) error {
	query, args, err := squirrel.
		Update("prizes").
		Set("claimed_at", claimedAt).
		Where(squirrel.Eq{"id": prizeID, "user_id": userID, "claimed_at": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// 0 rows means either missing or already claimed; look to tell them apart.
	check, checkArgs, err := squirrel.
		Select("id", "user_id", "name", "description", "claimed_at", "created_at").
		From("prizes").
		Where(squirrel.Eq{"id": prizeID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var p prize
	err = r.db.GetContext(ctx, &p, check, checkArgs...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	return ErrAlreadyClaimed
}

func (r *Repository) DeletePrize(ctx context.Context, userID, prizeID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("prizes").
		Where(squirrel.Eq{"id": prizeID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execExpectingRow(ctx, query, args)
}
