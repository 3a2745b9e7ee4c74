package dto

import "time"

// SignupRequest entrada de registro. El rol no se acepta: siempre "user".
type SignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

// SigninRequest entrada de login.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contactNumber"`
	Address       string    `json:"address"`
	ProfileImg    string    `json:"ProfileImg"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AuthResponse respuesta de signup/signin.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// UserEnvelope {success, user}.
type UserEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	User    *UserResponse `json:"user"`
}

// UserListResponse listado de administración.
type UserListResponse struct {
	Success bool           `json:"success"`
	Users   []UserResponse `json:"users"`
}

// UpdateProfileRequest campos editables del perfil (multipart). Vacío = sin cambio.
type UpdateProfileRequest struct {
	Name          string
	ContactNumber string
	Address       string
	Password      string
	// ProfileImg ruta/URL enviada como texto; la subida de archivo tiene prioridad.
	ProfileImg string
	Upload     *Upload
}

// ForgotPasswordRequest entrada de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest nueva contraseña; el token viaja en la ruta.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UpdateRoleRequest cambio de rol por un administrador.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
