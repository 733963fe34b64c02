package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
}

type Settings struct {
	BaseCurrency string `json:"baseCurrency"`
	DarkMode     bool   `json:"darkMode"`
}

type SettingsUpdate struct {
	BaseCurrency *string
	DarkMode     *bool
}
