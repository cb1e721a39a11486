package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"integrador-service/internal/usecase/user"
)

// UserHandler handles HTTP requests for user and role operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// RegisterUserRequest represents the HTTP request body for a registration
type RegisterUserRequest struct {
	FullName string  `json:"nombres"`
	Email    string  `json:"correo_corp"`
	Password string  `json:"password"`
	RoleID   roleRef `json:"id_rol"`
}

// roleRef decodes id_rol from a JSON number or a numeric string.
// Anything else decodes as -1 so the usecase rejects it after the name check.
type roleRef int

func (r *roleRef) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*r = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = -1
	}
	*r = roleRef(n)
	return nil
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Absent or null fields keep their stored value.
type UpdateUserRequest struct {
	FullName *string `json:"nombres"`
	Email    *string `json:"correo_corp"`
	RoleID   *uint8  `json:"id_rol"`
	Active   *bool   `json:"activo"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID       int64  `json:"id_usuario"`
	RoleID   uint8  `json:"id_rol"`
	FullName string `json:"nombres"`
	Email    string `json:"correo_corp"`
	Active   bool   `json:"activo"`
}

// RegisteredUser is the user part of a registration response
type RegisteredUser struct {
	ID       int64  `json:"id_usuario"`
	FullName string `json:"nombres"`
}

// RegisterResponse represents the HTTP response for a registration
type RegisterResponse struct {
	Mensaje string         `json:"mensaje"`
	Usuario RegisteredUser `json:"usuario"`
}

// LoggedUser is the user part of a login response
type LoggedUser struct {
	ID       int64  `json:"id_usuario"`
	FullName string `json:"nombres"`
	Email    string `json:"correo_corp"`
	RoleID   uint8  `json:"id_rol"`
}

// LoginResponse represents the HTTP response for a successful sign in
type LoginResponse struct {
	Mensaje string     `json:"mensaje"`
	Usuario LoggedUser `json:"usuario"`
}

// UpdateUserResponse represents the HTTP response for an update
type UpdateUserResponse struct {
	Mensaje string       `json:"mensaje"`
	Usuario UserResponse `json:"usuario"`
}

// RoleResponse represents the HTTP response for role data
type RoleResponse struct {
	ID   uint8  `json:"id_rol"`
	Name string `json:"nombre_rol"`
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), user.RegisterRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   int(req.RoleID),
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Mensaje: "Usuario registrado con éxito.",
		Usuario: RegisteredUser{ID: resp.ID, FullName: resp.FullName},
	})
}

// Login handles POST /v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Mensaje: "Login exitoso",
		Usuario: LoggedUser{ID: resp.ID, FullName: resp.FullName, Email: resp.Email, RoleID: resp.RoleID},
	})
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, h.log, &req, true) {
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       id,
		FullName: req.FullName,
		Email:    req.Email,
		RoleID:   req.RoleID,
		Active:   req.Active,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, UpdateUserResponse{
		Mensaje: "Usuario actualizado",
		Usuario: toUserResponse(u),
	})
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Mensaje: "Usuario eliminado"})
}

// CreateRole handles POST /v1/roles
func (h *UserHandler) CreateRole(c *gin.Context) {
	var req user.CreateRoleRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}

	role, err := h.uc.CreateRole(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, RoleResponse{ID: role.ID, Name: role.Name})
}

// ListRoles handles GET /v1/roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.uc.ListRoles(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]RoleResponse, len(roles))
	for i, r := range roles {
		out[i] = RoleResponse{ID: r.ID, Name: r.Name}
	}
	c.JSON(http.StatusOK, out)
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		RoleID:   u.RoleID,
		FullName: u.FullName,
		Email:    u.Email,
		Active:   u.Active,
	}
}
