package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/auth"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

const profileImageFolder = "uploadsImage"

// UserUseCase perfil del usuario y administración de cuentas.
type UserUseCase struct {
	repo    repository.UserRepository
	storage ports.FileStorage
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, storage ports.FileStorage) *UserUseCase {
	return &UserUseCase{repo: repo, storage: storage}
}

// GetProfile devuelve el perfil por email. Solo el dueño o un administrador pueden verlo.
func (uc *UserUseCase) GetProfile(ctx context.Context, requester *entity.User, email string) (*dto.UserResponse, error) {
	user, err := uc.ownedProfile(ctx, requester, email)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// UpdateProfile aplica los campos no vacíos. La imagen subida tiene prioridad sobre la ruta enviada.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, requester *entity.User, email string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.ownedProfile(ctx, requester, email)
	if err != nil {
		return nil, err
	}

	if in.Password != "" {
		if len(in.Password) < auth.MinPasswordLength {
			return nil, domain.Errorf(domain.ErrInvalidInput, auth.MsgPasswordTooShort)
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.ContactNumber); v != "" {
		user.ContactNumber = v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		user.Address = v
	}

	switch {
	case in.Upload != nil:
		ext, ok := imageExtension(*in.Upload)
		if !ok {
			return nil, domain.Errorf(domain.ErrInvalidInput, "Unsupported file format")
		}
		ref, err := uc.storage.Put(ctx, profileImageFolder, uuid.New().String()+ext, in.Upload.ContentType, in.Upload.Data)
		if err != nil {
			return nil, err
		}
		user.ProfileImg = ref
	case strings.TrimSpace(in.ProfileImg) != "":
		user.ProfileImg = strings.TrimSpace(in.ProfileImg)
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// List todos los usuarios (administración).
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *dto.FromUser(u))
	}
	return out, nil
}

// Delete elimina una cuenta por id (administración).
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	id, err := ParseID(id, "User")
	if err != nil {
		return err
	}
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrNotFound, auth.MsgUserNotFound)
	}
	return nil
}

// UpdateRole cambia el rol de la cuenta identificada por email. Solo acepta user|admin.
func (uc *UserUseCase) UpdateRole(ctx context.Context, email, role string) (*dto.UserResponse, error) {
	r, ok := entity.ParseRole(role)
	if !ok {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Invalid role")
	}
	user, err := uc.repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrNotFound, auth.MsgUserNotFound)
	}
	user.Role = r
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// EnsureAdmin crea un administrador o promueve la cuenta existente (CLI).
// Si la cuenta existe y password no está vacío, también reemplaza la contraseña.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, bool, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, false, domain.Errorf(domain.ErrInvalidInput, "email is required")
	}
	user, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	if user != nil {
		user.Role = entity.RoleAdmin
		if password != "" {
			if len(password) < auth.MinPasswordLength {
				return nil, false, domain.Errorf(domain.ErrInvalidInput, auth.MsgPasswordTooShort)
			}
			if user.PasswordHash, err = auth.HashPassword(password); err != nil {
				return nil, false, err
			}
		}
		user.UpdatedAt = now
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, false, err
		}
		return dto.FromUser(user), false, nil
	}

	if len(password) < auth.MinPasswordLength {
		return nil, false, domain.Errorf(domain.ErrInvalidInput, auth.MsgPasswordTooShort)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	user = &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		ProfileImg:   entity.DefaultProfileImg,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return dto.FromUser(user), true, nil
}

func (uc *UserUseCase) ownedProfile(ctx context.Context, requester *entity.User, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	if requester == nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, auth.MsgLoginRequired)
	}
	if !requester.IsAdmin() && requester.Email != email {
		return nil, domain.Errorf(domain.ErrForbidden, "You are not allowed to access this profile")
	}
	user, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrNotFound, auth.MsgUserNotFound)
	}
	return user, nil
}
