package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/auth"
	"github.com/jhoicas/brownson-api/internal/application/dto"
)

// SessionCookie atributos de la cookie de sesión.
// Secure=true (producción) la marca Secure y SameSite=None para el frontend en otro dominio.
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthHandler maneja registro, login, logout y recuperación de contraseña.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie SessionCookie
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie SessionCookie) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Signup godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "name, email, password"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	user, token, err := h.uc.Signup(c.Context(), in)
	if err != nil {
		return err
	}
	h.setSession(c, token, h.uc.TokenTTL())
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Success: true, Message: "Signup successful", User: *user, Token: token,
	})
}

// Signin godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var in dto.SigninRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	user, token, err := h.uc.Signin(c.Context(), in)
	if err != nil {
		return err
	}
	h.setSession(c, token, h.uc.TokenTTL())
	return c.JSON(dto.AuthResponse{Success: true, Message: "Login successful", User: *user, Token: token})
}

// Logout godoc
// @Summary      Cerrar sesión (borra la cookie)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setSession(c, "", 0)
	return c.JSON(dto.OK("Logged out successfully"))
}

// ForgotPassword godoc
// @Summary      Enviar enlace de recuperación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	if err := h.uc.ForgotPassword(c.Context(), in.Email); err != nil {
		return err
	}
	return c.JSON(dto.OK("Password reset link sent to your email"))
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con el token del correo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path  string                    true  "token de recuperación"
// @Param        body   body  dto.ResetPasswordRequest  true  "password"
// @Success      200    {object}  dto.MessageResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	if err := h.uc.ResetPassword(c.Context(), c.Params("token"), in.Password); err != nil {
		return err
	}
	return c.JSON(dto.OK("Password reset successful"))
}

// setSession escribe la cookie httpOnly; ttl=0 la expira.
func (h *AuthHandler) setSession(c *fiber.Ctx, token string, ttl time.Duration) {
	ck := &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
	if h.cookie.Secure {
		ck.SameSite = fiber.CookieSameSiteNoneMode
	}
	if ttl > 0 {
		ck.Expires = time.Now().Add(ttl)
		ck.MaxAge = int(ttl.Seconds())
	} else {
		ck.Expires = time.Unix(0, 0)
		ck.MaxAge = -1
	}
	c.Cookie(ck)
}
