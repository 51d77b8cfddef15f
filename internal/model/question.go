package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is an onboarding question shown to new users.
type Question struct {
	ID        uuid.UUID
	Text      string
	Position  int
	CreatedAt time.Time
}

type Answer struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Text       string
	AnsweredAt time.Time
}
