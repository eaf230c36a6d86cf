package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// User is the domain entity corresponding to the `users` table.
// Reputation (average rating, count) is not stored here; it is served by
// the rating aggregator from the ratings table.
type User struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Email        string
	PasswordHash string `json:"-"` // bcrypt hash, kept out of every JSON response
	FullName     string
	Phone        string

	Role                     Role
	VerificationStatus       VerificationStatus
	BackgroundCheckCompleted bool
}

var (
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email address", carpool.ErrValidation)
	ErrNameRequired      = fmt.Errorf("%w: full name is required", carpool.ErrValidation)
	ErrEmptyPasswordHash = fmt.Errorf("%w: password hash cannot be empty", carpool.ErrValidation)
)

// NewUser constructs a new User entity. The caller provides an already-hashed
// password; new accounts start unverified.
func NewUser(email, fullName, phone, passwordHash string, role Role) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		CreatedAt:          now,
		UpdatedAt:          now,
		Email:              strings.TrimSpace(email),
		PasswordHash:       strings.TrimSpace(passwordHash),
		FullName:           strings.TrimSpace(fullName),
		Phone:              strings.TrimSpace(phone),
		Role:               role,
		VerificationStatus: VerificationPending,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks invariants of the User entity.
func (u *User) Validate() error {
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if u.FullName == "" {
		return ErrNameRequired
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if !u.VerificationStatus.Valid() {
		return ErrInvalidVerification
	}
	return nil
}

// SetVerification transitions the screening status. Updates UpdatedAt.
func (u *User) SetVerification(vs VerificationStatus) error {
	if !vs.Valid() {
		return ErrInvalidVerification
	}
	u.VerificationStatus = vs
	u.touch()
	return nil
}

// CompleteBackgroundCheck marks the background check as done.
func (u *User) CompleteBackgroundCheck() {
	u.BackgroundCheckCompleted = true
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}
