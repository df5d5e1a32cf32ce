package domain

import "errors"

// Authentication and credential errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrPrincipalInactive  = errors.New("principal is inactive")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminNotFound      = errors.New("admin not found")
)

// Catalog errors.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrGenreNotFound  = errors.New("genre not found")
	ErrAuthorExists   = errors.New("author already exists")
	ErrGenreExists    = errors.New("genre already exists")
)
