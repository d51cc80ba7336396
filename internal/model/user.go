package model

import "time"

// User represents a user in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`    // Do not expose password hash in JSON responses
	Role         string    `json:"role"` // Free-form label, e.g. "patient" or "caregiver"
	CreatedAt    time.Time `json:"createdAt"`
}

// SignupRequest is the body of POST /signup
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
