package model

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Deadline    *time.Time
	CreatedAt   time.Time
}

// Mission is a recurring sub-task of a goal, repeated on the listed weekdays.
type Mission struct {
	ID        uuid.UUID
	GoalID    uuid.UUID
	Name      string
	Weekdays  []int
	CreatedAt time.Time
}

type MissionCompletion struct {
	MissionID   uuid.UUID
	CompletedOn time.Time
}
