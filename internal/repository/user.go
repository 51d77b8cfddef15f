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
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type User struct {
	ID                    uuid.UUID `db:"id"`
	Email                 string    `db:"email"`
	Name                  string    `db:"name"`
	PasswordHash          string    `db:"password_hash"`
	IsActive              bool      `db:"is_active"`
	IsAdmin               bool      `db:"is_admin"`
	TimezoneOffset        int       `db:"timezone_offset"`
	SponsorSpecialMission *bool     `db:"sponsor_special_mission"`
	LastSeenAt            time.Time `db:"last_seen_at"`
	CreatedAt             time.Time `db:"created_at"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		ID:                    u.ID,
		Email:                 u.Email,
		Name:                  u.Name,
		PasswordHash:          u.PasswordHash,
		IsActive:              u.IsActive,
		IsAdmin:               u.IsAdmin,
		TimezoneOffset:        u.TimezoneOffset,
		SponsorSpecialMission: u.SponsorSpecialMission,
		LastSeenAt:            u.LastSeenAt,
		CreatedAt:             u.CreatedAt,
	}
}

var userColumns = []string{
	"id", "email", "name", "password_hash", "is_active", "is_admin",
	"timezone_offset", "sponsor_special_mission", "last_seen_at", "created_at",
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"id":                      user.ID,
			"email":                   user.Email,
			"name":                    user.Name,
			"password_hash":           user.PasswordHash,
			"is_active":               user.IsActive,
			"is_admin":                user.IsAdmin,
			"timezone_offset":         user.TimezoneOffset,
			"sponsor_special_mission": user.SponsorSpecialMission,
			"last_seen_at":            user.LastSeenAt,
			"created_at":              user.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id uuid.UUID, name string, timezoneOffset int) error {
	query, args, err := squirrel.
		Update("users").
		SetMap(map[string]interface{}{
			"name":            name,
			"timezone_offset": timezoneOffset,
		}).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execExpectingRow(ctx, query, args)
}

func (r *Repository) UpdateSponsorOptIn(ctx context.Context, id uuid.UUID, optIn bool) error {
	query, args, err := squirrel.
		Update("users").
		Set("sponsor_special_mission", optIn).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execExpectingRow(ctx, query, args)
}

func (r *Repository) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	query, args, err := squirrel.
		Update("users").
		Set("last_seen_at", at).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execExpectingRow(ctx, query, args)
}

func (r *Repository) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []User
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, len(rows))
	for i := range rows {
		users[i] = rows[i].toModel()
	}
	return users, nil
}

// ListTimezoneOffsets returns the distinct whole-hour offsets present among
// users, for the per-timezone expiration sweep.
func (r *Repository) ListTimezoneOffsets(ctx context.Context) ([]int, error) {
	query, args, err := squirrel.
		Select("DISTINCT timezone_offset").
		From("users").
		OrderBy("timezone_offset").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var offsets []int
	err = r.db.SelectContext(ctx, &offsets, query, args...)
	if err != nil {
		return nil, err
	}
	return offsets, nil
}

// DeactivateInactiveUsers flips is_active off for users not seen since the
// cutoff and returns the number of rows touched.
func (r *Repository) DeactivateInactiveUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := squirrel.
		Update("users").
		Set("is_active", false).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Lt{"last_seen_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *Repository) execExpectingRow(ctx context.Context, query string, args []interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
