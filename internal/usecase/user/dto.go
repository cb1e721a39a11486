package user

// RegisterRequest represents the request payload for registering a new user.
type RegisterRequest struct {
	FullName string `json:"nombres" validate:"required,max=80"`
	Email    string `json:"correo_corp" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
	RoleID   int    `json:"id_rol" validate:"required,gt=0"`
}

// RegisterResponse carries the public part of a freshly registered user.
type RegisterResponse struct {
	ID       int64
	FullName string
}

// LoginRequest represents the credentials presented at sign in.
type LoginRequest struct {
	Email    string `json:"correo_corp" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the user fields returned after a successful sign in.
type LoginResponse struct {
	ID       int64
	FullName string
	Email    string
	RoleID   uint8
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// UpdateUserRequest represents a partial update. Nil fields keep their
// stored value.
type UpdateUserRequest struct {
	ID       int64
	FullName *string
	Email    *string
	RoleID   *uint8
	Active   *bool
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// User represents a user DTO (Data Transfer Object) for API responses.
// It never carries the password hash.
type User struct {
	ID       int64
	RoleID   uint8
	FullName string
	Email    string
	Active   bool
}

// CreateRoleRequest represents the request payload for creating a role.
type CreateRoleRequest struct {
	ID   uint8  `json:"id_rol" validate:"required"`
	Name string `json:"nombre_rol" validate:"required,max=40"`
}

// Role represents a role DTO.
type Role struct {
	ID   uint8
	Name string
}
