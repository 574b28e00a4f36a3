package model

import "time"

// User represents a teacher account. One account owns one state document,
// keyed by username.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for teacher authentication.
type LoginRequest struct {
	User     string `json:"user" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UnlockRequest is the payload for the local profile passphrase check.
type UnlockRequest struct {
	Password string `json:"password" binding:"required,max=128"`
}
