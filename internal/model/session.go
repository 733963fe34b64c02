package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// VerificationCode is kept in cache until the user confirms the login.
type VerificationCode struct {
	Code      string    `json:"code"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Attempts  int       `json:"attempts"`
}

// AuthResult carries either a session token or the fact that an emailed code must be confirmed first.
type AuthResult struct {
	Token                string
	ExpiresAt            time.Time
	VerificationRequired bool
}
