package user

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the minimal projection returned on login.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Profile is the user row joined with the number of contacts it owns.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Contacts  int       `json:"contacts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// CreateUserRequest carries already-hashed credentials into the repo layer.
// Handlers hash the plaintext before building one of these.
type CreateUserRequest struct {
	Name         string
	Gender       string
	Phone        string
	Email        string
	PasswordHash string
}

type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"required"`
	Gender string `json:"gender" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

// NormalizeGender lowercases and trims a caller-supplied gender value before
// it is validated against the stored enum.
func NormalizeGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
