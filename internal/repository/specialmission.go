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
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type specialMission struct {
	ID            uuid.UUID      `db:"id"`
	Name          string         `db:"name"`
	Steps         pq.StringArray `db:"steps"`
	Link          string         `db:"link"`
	IsPartnership bool           `db:"is_partnership"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (m *specialMission) toModel() *model.SpecialMission {
	return &model.SpecialMission{
		ID:            m.ID,
		Name:          m.Name,
		Steps:         []string(m.Steps),
		Link:          m.Link,
		IsPartnership: m.IsPartnership,
		CreatedAt:     m.CreatedAt,
	}
}

type missionAssignment struct {
	ID          int64      `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	MissionID   uuid.UUID  `db:"mission_id"`
	AvailableAt time.Time  `db:"available_at"`
	CompletedAt *time.Time `db:"completed_at"`
	ExpiredAt   *time.Time `db:"expired_at"`
}

var specialMissionColumns = []string{
	"id", "name", "steps", "link", "is_partnership", "created_at",
}

func (r *Repository) CreateSpecialMission(ctx context.Context, mission *model.SpecialMission) error {
	query, args, err := squirrel.
		Insert("special_missions").
		SetMap(map[string]interface{}{
			"id":             mission.ID,
			"name":           mission.Name,
			"steps":          pq.StringArray(mission.Steps),
			"link":           mission.Link,
			"is_partnership": mission.IsPartnership,
			"created_at":     mission.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mission insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert special mission: %w", err)
	}

	return nil
}

func (r *Repository) GetSpecialMission(ctx context.Context, id uuid.UUID) (*model.SpecialMission, error) {
	query, args, err := squirrel.
		Select(specialMissionColumns...).
		From("special_missions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var mission specialMission
	err = r.db.GetContext(ctx, &mission, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return mission.toModel(), nil
}

func (r *Repository) ListSpecialMissions(ctx context.Context) ([]*model.SpecialMission, error) {
	return r.listMissions(ctx, squirrel.
		Select(specialMissionColumns...).
		From("special_missions").
		OrderBy("created_at"))
}

func (r *Repository) ListNonSponsoredMissions(ctx context.Context) ([]*model.SpecialMission, error) {
	return r.listMissions(ctx, squirrel.
		Select(specialMissionColumns...).
		From("special_missions").
		Where(squirrel.Eq{"is_partnership": false}).
		OrderBy("created_at"))
}

func (r *Repository) listMissions(ctx context.Context, builder squirrel.SelectBuilder) ([]*model.SpecialMission, error) {
	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	var rows []specialMission
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	missions := make([]*model.SpecialMission, len(rows))
	for i := range rows {
		missions[i] = rows[i].toModel()
	}
	return missions, nil
}

func (r *Repository) CreateSponsorSchedule(ctx context.Context, missionID uuid.UUID, scheduledDate time.Time) error {
	query, args, err := squirrel.
		Insert("sponsor_special_mission_schedules").
		SetMap(map[string]interface{}{
			"mission_id":     missionID,
			"scheduled_date": scheduledDate,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert sponsor schedule: %w", err)
	}

	return nil
}

// GetScheduledMission returns the sponsored mission scheduled for the UTC day
// starting at day. When several schedule rows target the same day the lowest
// schedule id wins.
func (r *Repository) GetScheduledMission(ctx context.Context, day time.Time) (*model.SpecialMission, error) {
	query, args, err := squirrel.
		Select(
			"m.id", "m.name", "m.steps", "m.link", "m.is_partnership", "m.created_at",
		).
		From("sponsor_special_mission_schedules s").
		Join("special_missions m ON m.id = s.mission_id").
		Where(squirrel.GtOrEq{"s.scheduled_date": day}).
		Where(squirrel.Lt{"s.scheduled_date": day.Add(24 * time.Hour)}).
		Where(squirrel.Eq{"m.is_partnership": true}).
		OrderBy("s.id").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var mission specialMission
	err = r.db.GetContext(ctx, &mission, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return mission.toModel(), nil
}

// GetDailyPick returns the memoized fallback mission for a UTC day.
func (r *Repository) GetDailyPick(ctx context.Context, day time.Time) (*model.SpecialMission, error) {
	query, args, err := squirrel.
		Select(
			"m.id", "m.name", "m.steps", "m.link", "m.is_partnership", "m.created_at",
		).
		From("daily_special_mission d").
		Join("special_missions m ON m.id = d.mission_id").
		Where(squirrel.Eq{"d.day": day}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var mission specialMission
	err = r.db.GetContext(ctx, &mission, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return mission.toModel(), nil
}

// CreateDailyPick records the fallback mission for a UTC day and returns the
// winning pick. The day column is unique and the insert is ON CONFLICT DO
// NOTHING, so concurrent first-access runs converge on a single mission.
func (r *Repository) CreateDailyPick(ctx context.Context, day time.Time, missionID uuid.UUID) (*model.SpecialMission, error) {
	query := `INSERT INTO daily_special_mission (day, mission_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (day) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, day, missionID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert daily pick: %w", err)
	}

	return r.GetDailyPick(ctx, day)
}

// AssignMission creates an assignment for the user unless one already exists
// for this mission with available_at inside [windowFrom, windowTo). The check
// and insert run in one transaction holding the user's row lock, so
// overlapping scheduler runs cannot double-assign.
func (r *Repository) AssignMission(ctx context.Context, userID, missionID uuid.UUID, availableAt, windowFrom, windowTo time.Time) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		lockQuery, lockArgs, err := squirrel.
			Select("id").
			From("users").
			Where(squirrel.Eq{"id": userID}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var lockedID uuid.UUID
		err = tx.GetContext(ctx, &lockedID, lockQuery, lockArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		existsQuery, existsArgs, err := squirrel.
			Select("count(1)").
			From("user_special_missions").
			Where(squirrel.Eq{"user_id": userID, "mission_id": missionID}).
			Where(squirrel.GtOrEq{"available_at": windowFrom}).
			Where(squirrel.Lt{"available_at": windowTo}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var count int
		err = tx.GetContext(ctx, &count, existsQuery, existsArgs...)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("user_special_missions").
			SetMap(map[string]interface{}{
				"user_id":      userID,
				"mission_id":   missionID,
				"available_at": availableAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}

		return nil
	})
}

// ExpireAssignments stamps expired_at on every unfinished assignment of users
// in the given timezone whose available_at is at or before that timezone's
// local midnight. Returns the number of assignments expired.
func (r *Repository) ExpireAssignments(ctx context.Context, timezoneOffset int, localMidnight time.Time) (int64, error) {
	query, args, err := squirrel.
		Update("user_special_missions").
		Set("expired_at", localMidnight).
		Where(squirrel.Eq{"completed_at": nil}).
		Where(squirrel.Eq{"expired_at": nil}).
		Where(squirrel.LtOrEq{"available_at": localMidnight}).
		Where(squirrel.Expr(
			"user_id IN (SELECT id FROM users WHERE timezone_offset = ?)",
			timezoneOffset)).
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

func (r *Repository) CompleteAssignment(ctx context.Context, assignmentID int64, completedAt time.Time) error {
	query, args, err := squirrel.
		Select("id", "user_id", "mission_id", "available_at", "completed_at", "expired_at").
		From("user_special_missions").
		Where(squirrel.Eq{"id": assignmentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var assignment missionAssignment
	err = r.db.GetContext(ctx, &assignment, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if assignment.CompletedAt != nil {
		return ErrAlreadyCompleted
	}

	update, updateArgs, err := squirrel.
		Update("user_special_missions").
		Set("completed_at", completedAt).
		Where(squirrel.Eq{"id": assignmentID}).
		Where(squirrel.Eq{"completed_at": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, update, updateArgs...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Lost a race with another completion call.
		return ErrAlreadyCompleted
	}

	return nil
}

// GetLatestAssignment returns the most recently created assignment for the
// user (highest id) joined with its mission.
func (r *Repository) GetLatestAssignment(ctx context.Context, userID uuid.UUID) (*model.MissionAssignment, *model.SpecialMission, error) {
	query, args, err := squirrel.
		Select(
			"a.id", "a.user_id", "a.mission_id", "a.available_at", "a.completed_at", "a.expired_at",
			"m.name", "m.steps", "m.link", "m.is_partnership", "m.created_at",
		).
		From("user_special_missions a").
		Join("special_missions m ON m.id = a.mission_id").
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, nil, err
	}

	var row struct {
		missionAssignment
		Name          string         `db:"name"`
		Steps         pq.StringArray `db:"steps"`
		Link          string         `db:"link"`
		IsPartnership bool           `db:"is_partnership"`
		CreatedAt     time.Time      `db:"created_at"`
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	assignment := &model.MissionAssignment{
		ID:          row.ID,
		UserID:      row.UserID,
		MissionID:   row.MissionID,
		AvailableAt: row.AvailableAt,
		CompletedAt: row.CompletedAt,
		ExpiredAt:   row.ExpiredAt,
	}
	mission := &model.SpecialMission{
		ID:            row.MissionID,
		Name:          row.Name,
		Steps:         []string(row.Steps),
		Link:          row.Link,
		IsPartnership: row.IsPartnership,
		CreatedAt:     row.CreatedAt,
	}
	return assignment, mission, nil
}
