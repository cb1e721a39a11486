package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) error

	CreateRole(ctx context.Context, in CreateRoleRequest) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
}
