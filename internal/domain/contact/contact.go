package contact

import (
	"errors"
	"time"
)

type Contact struct {
	ID              int64     `json:"id"`
	ContactName     string    `json:"contact_name"`
	ContactPhone    string    `json:"contact_phone"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	ContactAddress  string    `json:"contact_address,omitempty"`
	ContactGender   string    `json:"contact_gender"`
	ContactFavorite bool      `json:"contact_favorite"`
	UserID          int64     `json:"user_id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var (
	ErrNotFound       = errors.New("contact not found")
	ErrDuplicatePhone = errors.New("contact phone already exists for user")
)

type CreateContactRequest struct {
	ContactName     string `json:"contact_name" binding:"required"`
	ContactPhone    string `json:"contact_phone" binding:"required"`
	ContactEmail    string `json:"contact_email" binding:"omitempty"`
	ContactAddress  string `json:"contact_address" binding:"omitempty"`
	ContactGender   string `json:"contact_gender" binding:"omitempty"`
	ContactFavorite bool   `json:"contact_favorite"`
	UserID          int64  `json:"user_id" binding:"required"`
}

// UpdateContactRequest is a patch: one optional slot per updatable column,
// so the UPDATE statement's shape stays statically known and caller-supplied
// keys never reach the SQL text.
type UpdateContactRequest struct {
	UserID          int64   `json:"user_id" binding:"required"`
	ContactName     *string `json:"contact_name"`
	ContactPhone    *string `json:"contact_phone"`
	ContactEmail    *string `json:"contact_email"`
	ContactAddress  *string `json:"contact_address"`
	ContactGender   *string `json:"contact_gender"`
	ContactFavorite *bool   `json:"contact_favorite"`
}

// HasChanges reports whether at least one updatable field is set.
func (r UpdateContactRequest) HasChanges() bool {
	return r.ContactName != nil ||
		r.ContactPhone != nil ||
		r.ContactEmail != nil ||
		r.ContactAddress != nil ||
		r.ContactGender != nil ||
		r.ContactFavorite != nil
}
