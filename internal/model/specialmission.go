package model

import (
	"time"

	"github.com/google/uuid"
)

type SpecialMission struct {
	ID            uuid.UUID
	Name          string
	Steps         []string
	Link          string
	IsPartnership bool
	CreatedAt     time.Time
}

// SponsorSchedule pins a sponsored mission to a UTC calendar day.
type SponsorSchedule struct {
	ID            int64
	MissionID     uuid.UUID
	ScheduledDate time.Time
}

// DailyMissionPick memoizes the random fallback choice for a UTC day so every
// run that day sees the same mission.
type DailyMissionPick struct {
	Day       time.Time
	MissionID uuid.UUID
	CreatedAt time.Time
}

type AssignmentStatus string

const (
	AssignmentCompleted AssignmentStatus = "COMPLETED"
	AssignmentAvailable AssignmentStatus = "AVAILABLE"
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentExpired   AssignmentStatus = "EXPIRED"
)

type MissionAssignment struct {
	ID          int64
	UserID      uuid.UUID
	MissionID   uuid.UUID
	AvailableAt time.Time
	CompletedAt *time.Time
	ExpiredAt   *time.Time
}

// LatestAssignment is an assignment joined with its mission and annotated
// with the derived status for the query endpoint.
type LatestAssignment struct {
	Assignment MissionAssignment
	Mission    SpecialMission
	Status     AssignmentStatus
	Note       string
}
