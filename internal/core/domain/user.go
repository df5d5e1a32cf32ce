package domain

import "time"

// User is the consumer-facing principal. Login is gated on IsVerified.
type User struct {
	ID                int64     `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Image             string    `json:"image,omitempty"`
	IsActive          bool      `json:"is_active"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken string    `json:"-"`
	ResetToken        string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) PrincipalID() int64     { return u.ID }
func (u *User) PrincipalEmail() string { return u.Email }
func (u *User) Kind() PrincipalKind    { return KindUser }
func (u *User) Active() bool           { return u.IsActive }
