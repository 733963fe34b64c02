package dbModel

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsVerified   bool      `db:"is_verified"`
	CreatedAt    time.Time `db:"dt_create"`
}

type Settings struct {
	UserID       uuid.UUID `db:"user_id"`
	BaseCurrency string    `db:"base_currency"`
	DarkMode     bool      `db:"dark_mode"`
}
