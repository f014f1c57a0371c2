package domain

import "time"

// Account is a portal login used to protect the report endpoints.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
