package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/auth"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
)

// LocalUser clave de Fiber locals con el *entity.User autenticado.
const LocalUser = "user"

// DefaultCookieName cookie de sesión cuando la configuración no indica otra.
const DefaultCookieName = "jwt"

// Authenticator resuelve un token de sesión al usuario dueño. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware exige credencial: Bearer en Authorization y, si no viene, la cookie de sesión.
// Deja el usuario en c.Locals(LocalUser).
func AuthMiddleware(authn Authenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authn.Authenticate(c.Context(), credential(c, cookieName))
		if err != nil {
			return err
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// OptionalAuth adjunta el usuario si la credencial es válida; en cualquier otro caso sigue como anónimo.
func OptionalAuth(authn Authenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := credential(c, cookieName); token != "" {
			if user, err := authn.Authenticate(c.Context(), token); err == nil {
				c.Locals(LocalUser, user)
			}
		}
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe ir DESPUÉS de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		if r.Valid() {
			allowed[r] = struct{}{}
		}
	}
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.Errorf(domain.ErrForbidden, "Role (undefined) is not allowed to access this resource")
		}
		if _, ok := allowed[user.Role]; !ok {
			return domain.Errorf(domain.ErrForbidden, "Role (%s) is not allowed to access this resource", user.Role)
		}
		return c.Next()
	}
}

// CurrentUser devuelve el usuario autenticado o nil.
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el id del usuario autenticado ("" si es anónimo).
func GetUserID(c *fiber.Ctx) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// GetRole devuelve el rol del usuario autenticado ("" si es anónimo).
func GetRole(c *fiber.Ctx) string {
	if u := CurrentUser(c); u != nil {
		return string(u.Role)
	}
	return ""
}

// requireUser para handlers montados tras AuthMiddleware.
func requireUser(c *fiber.Ctx) (*entity.User, error) {
	if u := CurrentUser(c); u != nil {
		return u, nil
	}
	return nil, domain.Errorf(domain.ErrUnauthorized, auth.MsgLoginRequired)
}

func credential(c *fiber.Ctx, cookieName string) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return c.Cookies(cookieName)
}
