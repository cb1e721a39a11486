package user

import "errors"

// Domain errors returned by user and role repositories.
var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("corporate email already registered")
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleTaken     = errors.New("role already exists")
	ErrRoleReference = errors.New("role does not exist")
)

// User represents a system user that can sign in to the back office.
type User struct {
	ID           int64  // ID is the unique identifier for the user
	RoleID       uint8  // RoleID references the Role the user belongs to
	FullName     string // FullName is the user's full name
	Email        string // Email is the unique corporate email address
	PasswordHash string // PasswordHash is the salted one-way credential, never exposed
	Active       bool   // Active reports whether the account is enabled
}

// Role groups users by permission level. Its ID is assigned, not generated.
type Role struct {
	ID   uint8
	Name string
}
