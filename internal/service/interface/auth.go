// Package iface defines service interfaces for the resto CLI.
// These interfaces enable dependency injection and mocking for tests.
package iface

import (
	"context"
	"time"
)

// User represents the back-office account returned at login
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

// SessionStatus describes the locally stored session
type SessionStatus struct {
	LoggedIn        bool      `json:"loggedIn"`
	Subject         string    `json:"subject,omitempty"`
	Email           string    `json:"email,omitempty"`
	Role            string    `json:"role,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
	Expired         bool      `json:"expired"`
	HasRefreshToken bool      `json:"hasRefreshToken"`
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login exchanges email and password for a token pair and stores it
	Login(ctx context.Context, email, password string) (*User, error)

	// Logout clears stored credentials
	Logout(ctx context.Context) error

	// Status inspects the stored session without contacting the server
	Status(ctx context.Context) (*SessionStatus, error)
}
