package models

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
