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

type goal struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Deadline    *time.Time `db:"deadline"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (g *goal) toModel() *model.Goal {
	return &model.Goal{
		ID:          g.ID,
		UserID:      g.UserID,
		Name:        g.Name,
		Description: g.Description,
		Deadline:    g.Deadline,
		CreatedAt:   g.CreatedAt,
	}
}

type mission struct {
	ID        uuid.UUID     `db:"id"`
	GoalID    uuid.UUID     `db:"goal_id"`
	Name      string        `db:"name"`
	Weekdays  pq.Int64Array `db:"weekdays"`
	CreatedAt time.Time     `db:"created_at"`
}

func (m *mission) toModel() *model.Mission {
	weekdays := make([]int, len(m.Weekdays))
	for i, d := range m.Weekdays {
		weekdays[i] = int(d)
	}
	return &model.Mission{
		ID:        m.ID,
		GoalID:    m.GoalID,
		Name:      m.Name,
		Weekdays:  weekdays,
		CreatedAt: m.CreatedAt,
	}
}

func (r *Repository) CreateGoal(ctx context.Context, g *model.Goal) error {
	query, args, err := squirrel.
		Insert("goals").
		SetMap(map[string]interface{}{
			"id":          g.ID,
			"user_id":     g.UserID,
			"name":        g.Name,
			"description": g.Description,
			"deadline":    g.Deadline,
			"created_at":  g.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build goal insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	return nil
}

func (r *Repository) GetGoal(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "name", "description", "deadline", "created_at").
		From("goals").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var g goal
	err = r.db.GetContext(ctx, &g, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return g.toModel(), nil
}

func (r *Repository) ListGoalsByUser(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "name", "description", "deadline", "created_at").
		From("goals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []goal
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	goals := make([]*model.Goal, len(rows))
	for i := range rows {
		goals[i] = rows[i].toModel()
	}
	return goals, nil
}

func (r *Repository) UpdateGoal(ctx context.Context, g *model.Goal) error {
	query, args, err := squirrel.
		Update("goals").
		SetMap(map[string]interface{}{
			"name":        g.Name,
			"description": g.Description,
			"deadline":    g.Deadline,
		}).
		Where(squirrel.Eq{"id": g.ID, "user_id": g.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execExpectingRow(ctx, query, args)
}

// DeleteGoal removes the goal with its missions and their completions.
func (r *Repository) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		completions := `DELETE FROM mission_completions
			WHERE mission_id IN (SELECT id FROM missions WHERE goal_id = $1)`
		if _, err := tx.ExecContext(ctx, completions, goalID); err != nil {
			return fmt.Errorf("failed to delete mission completions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM missions WHERE goal_id = $1`, goalID); err != nil {
			return fmt.Errorf("failed to delete missions: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete goal: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) CreateMission(ctx context.Context, m *model.Mission) error {
	weekdays := make(pq.Int64Array, len(m.Weekdays))
	for i, d := range m.Weekdays {
		weekdays[i] = int64(d)
	}

	query, args, err := squirrel.
		Insert("missions").
		SetMap(map[string]interface{}{
			"id":         m.ID,
			"goal_id":    m.GoalID,
			"name":       m.Name,
			"weekdays":   weekdays,
			"created_at": m.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert mission: %w", err)
	}

	return nil
}

func (r *Repository) ListMissionsByGoal(ctx context.Context, goalID uuid.UUID) ([]*model.Mission, error) {
	query, args, err := squirrel.
		Select("id", "goal_id", "name", "weekdays", "created_at").
		From("missions").
		Where(squirrel.Eq{"goal_id": goalID}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []mission
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	missions := make([]*model.Mission, len(rows))
	for i := range rows {
		missions[i] = rows[i].toModel()
	}
	return missions, nil
}

// RecordMissionCompletion marks the mission done for a calendar day. A second
// completion of the same day is rejected.
func (r *Repository) RecordMissionCompletion(ctx context.Context, missionID uuid.UUID, day time.Time) error {
	query := `INSERT INTO mission_completions (mission_id, completed_on)
		VALUES ($1, $2)
		ON CONFLICT (mission_id, completed_on) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, missionID, day)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyCompleted
	}

	return nil
}

func (r *Repository) ListMissionCompletions(ctx context.Context, missionID uuid.UUID, from, to time.Time) ([]*model.MissionCompletion, error) {
	query, args, err := squirrel.
		Select("mission_id", "completed_on").
		From("mission_completions").
		Where(squirrel.Eq{"mission_id": missionID}).
		Where(squirrel.GtOrEq{"completed_on": from}).
		Where(squirrel.Lt{"completed_on": to}).
		OrderBy("completed_on").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		MissionID   uuid.UUID `db:"mission_id"`
		CompletedOn time.Time `db:"completed_on"`
	}
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	completions := make([]*model.MissionCompletion, len(rows))
	for i, row := range rows {
		completions[i] = &model.MissionCompletion{
			MissionID:   row.MissionID,
			CompletedOn: row.CompletedOn,
		}
	}
	return completions, nil
}

func (r *Repository) DeleteMission(ctx context.Context, goalID, missionID uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM mission_completions WHERE mission_id = $1`, missionID); err != nil {
			return fmt.Errorf("failed to delete mission completions: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM missions WHERE id = $1 AND goal_id = $2`, missionID, goalID)
		if err != nil {
			return fmt.Errorf("failed to delete mission: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}
