package model

import (
	"time"

	"github.com/google/uuid"
)

type Prize struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	ClaimedAt   *time.Time
	CreatedAt   time.Time
}
