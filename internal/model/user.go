package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool

	// TimezoneOffset is the user's whole-hour offset from UTC.
	TimezoneOffset int

	// SponsorSpecialMission is nil or true when the user accepts sponsored
	// missions, false when they have opted out.
	SponsorSpecialMission *bool

	LastSeenAt time.Time
	CreatedAt  time.Time
}

// AcceptsSponsoredMissions reports whether the user may receive partnership
// missions. Users who never touched the setting are opted in.
func (u *User) AcceptsSponsoredMissions() bool {
	return u.SponsorSpecialMission == nil || *u.SponsorSpecialMission
}
