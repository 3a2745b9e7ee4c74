package entity

import (
	"strings"
	"time"
)

// Role rol de un usuario. Conjunto cerrado: solo RoleUser y RoleAdmin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultProfileImg imagen asignada a los usuarios nuevos.
const DefaultProfileImg = "/img/uploadsImage/user.jpg"

// ParseRole convierte un string al rol correspondiente; ok=false si no pertenece al conjunto.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User representa un cliente o administrador de la tienda.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string // bcrypt hash, nunca sale de la capa de persistencia en un DTO
	ContactNumber string
	Address       string
	ProfileImg    string
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin atajo para comprobaciones de propiedad.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NormalizeEmail recorta y pasa a minúsculas; así se guarda y se busca siempre.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
