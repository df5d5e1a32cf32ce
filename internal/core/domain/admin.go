package domain

import "time"

// Admin manages the catalog. Admins live in their own namespace: the same
// email may exist as both a User and an Admin.
type Admin struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Admin) PrincipalID() int64     { return a.ID }
func (a *Admin) PrincipalEmail() string { return a.Email }
func (a *Admin) Kind() PrincipalKind    { return KindAdmin }
func (a *Admin) Active() bool           { return a.IsActive }
