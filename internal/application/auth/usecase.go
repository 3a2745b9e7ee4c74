package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/jhoicas/brownson-api/pkg/jwt"
	"github.com/jhoicas/brownson-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength longitud mínima de contraseña en registro, perfil y recuperación.
const MinPasswordLength = 8

// resetTokenTTL vigencia del enlace de recuperación.
const resetTokenTTL = 10 * time.Minute

// bcryptCost 10 rondas de sal.
const bcryptCost = 10

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Mensajes de autenticación expuestos al cliente.
const (
	MsgLoginRequired    = "Please login to access this resource"
	MsgInvalidToken     = "Invalid or malformed token. Please login again."
	MsgTokenExpired     = "Token expired. Please login again."
	MsgUserNotFound     = "User not found"
	MsgInvalidCreds     = "Invalid credentials"
	MsgPasswordTooShort = "Password must be at least 8 characters"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, validación de token y recuperación.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	mailer      ports.Mailer
	jwtCfg      JWTConfig
	frontendURL string
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, mailer ports.Mailer, jwtCfg JWTConfig, frontendURL string, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		mailer:      mailer,
		jwtCfg:      jwtCfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// Signup crea un usuario con rol "user": valida, hashea con bcrypt, persiste y emite token.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, string, error) {
	name := strings.TrimSpace(in.Name)
	email := entity.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, "", domain.Errorf(domain.ErrInvalidInput, "Please enter all required fields")
	}
	if !emailRe.MatchString(email) {
		return nil, "", domain.Errorf(domain.ErrInvalidInput, "Invalid email format")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, "", domain.Errorf(domain.ErrInvalidInput, MsgPasswordTooShort)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.Errorf(domain.ErrConflict, "Email already registered")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Address:       strings.TrimSpace(in.Address),
		ProfileImg:    entity.DefaultProfileImg,
		Role:          entity.RoleUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// carrera entre dos registros con el mismo email: el índice único decide
		if errors.Is(err, domain.ErrConflict) {
			return nil, "", domain.Errorf(domain.ErrConflict, "Email already registered")
		}
		return nil, "", err
	}

	token, err := uc.issue(user)
	if err != nil {
		return nil, "", err
	}
	return dto.FromUser(user), token, nil
}

// Signin verifica email/password y emite un token nuevo.
// Email desconocido y contraseña incorrecta producen el mismo error.
func (uc *AuthUseCase) Signin(ctx context.Context, in dto.SigninRequest) (*dto.UserResponse, string, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", domain.Errorf(domain.ErrInvalidInput, "Please enter all credentials")
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", domain.Errorf(domain.ErrUnauthorized, MsgInvalidCreds)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", domain.Errorf(domain.ErrUnauthorized, MsgInvalidCreds)
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, "", err
	}
	return dto.FromUser(user), token, nil
}

// Authenticate valida un token de sesión y resuelve el usuario dueño.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, domain.Errorf(domain.ErrUnauthorized, MsgLoginRequired)
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token, jwt.PurposeSession)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, domain.Errorf(domain.ErrTokenExpired, MsgTokenExpired)
		}
		return nil, domain.Errorf(domain.ErrUnauthorized, MsgInvalidToken)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, MsgInvalidToken)
	}
	user, err := uc.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrNotFound, MsgUserNotFound)
	}
	return user, nil
}

// ForgotPassword emite un token de recuperación de 10 minutos y lo envía por correo.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return domain.Errorf(domain.ErrInvalidInput, "Please enter your email")
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.Errorf(domain.ErrNotFound, MsgUserNotFound)
	}

	token, err := jwt.GenerateReset(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, resetTokenTTL)
	if err != nil {
		return fmt.Errorf("generar token de recuperación: %w", err)
	}
	link := fmt.Sprintf("%s/reset-password/%s", uc.frontendURL, token)

	if err := uc.mailer.Send(ctx, user.Email, "Reset Your Brownson Password", resetEmailHTML(link)); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo enviar el correo de recuperación")
		return domain.Errorf(domain.ErrUnavailable, "Failed to send reset link")
	}
	uc.log.Info().Str("user_id", user.ID).Msg("enlace de recuperación enviado")
	return nil
}

// ResetPassword canjea el token de recuperación y guarda la nueva contraseña.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token, jwt.PurposePasswordReset)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return domain.Errorf(domain.ErrInvalidInput, "Password reset token has expired")
		}
		return domain.Errorf(domain.ErrInvalidInput, "Invalid password reset token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return domain.Errorf(domain.ErrInvalidInput, "Invalid password reset token")
	}
	user, err := uc.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.Errorf(domain.ErrNotFound, MsgUserNotFound)
	}
	if len(password) < MinPasswordLength {
		return domain.Errorf(domain.ErrInvalidInput, MsgPasswordTooShort)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return uc.userRepo.Update(ctx, user)
}

// TokenTTL duración de la sesión, usada también como Max-Age de la cookie.
func (uc *AuthUseCase) TokenTTL() time.Duration {
	return time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
}

func (uc *AuthUseCase) issue(user *entity.User) (string, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return token, nil
}

// HashPassword hashea con bcrypt (10 rondas). Lo usan el perfil y el CLI.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func resetEmailHTML(link string) string {
	href := html.EscapeString(link)
	return `<h2>Reset Your Password</h2>
<p>Click the button below to reset your password. This link will expire in 10 minutes.</p>
<a href="` + href + `" style="padding: 10px 20px; background-color: #B82933; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a>
<p>If you didn't request this, ignore this email.</p>`
}
