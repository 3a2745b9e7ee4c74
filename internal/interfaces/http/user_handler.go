package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
)

// UserHandler perfil propio y administración de cuentas.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// GetProfile godoc
// @Summary      Perfil por email (dueño o admin)
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        email  path  string  true  "email"
// @Success      200    {object}  dto.UserEnvelope
// @Failure      403    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/auth/user/{email} [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	requester, err := requireUser(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetProfile(c.Context(), requester, c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.UserEnvelope{Success: true, User: out})
}

// UpdateProfile godoc
// @Summary      Actualizar perfil (multipart, imagen opcional en ProfileImg)
// @Tags         users
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        email  path  string  true  "email"
// @Success      200    {object}  dto.UserEnvelope
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/auth/user/update/{email} [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	requester, err := requireUser(c)
	if err != nil {
		return err
	}
	var in dto.UpdateProfileRequest
	if c.Is("json") {
		var body struct {
			Name          string `json:"name"`
			ContactNumber string `json:"contactNumber"`
			Address       string `json:"address"`
			Password      string `json:"password"`
			ProfileImg    string `json:"ProfileImg"`
		}
		if err := c.BodyParser(&body); err != nil {
			return invalidBody()
		}
		in = dto.UpdateProfileRequest{
			Name: body.Name, ContactNumber: body.ContactNumber, Address: body.Address,
			Password: body.Password, ProfileImg: body.ProfileImg,
		}
	} else {
		in = dto.UpdateProfileRequest{
			Name:          valueOf(formString(c, "name")),
			ContactNumber: valueOf(formString(c, "contactNumber")),
			Address:       valueOf(formString(c, "address")),
			Password:      valueOf(formString(c, "password")),
			ProfileImg:    valueOf(formString(c, "ProfileImg")),
		}
		files, err := formFiles(c, "ProfileImg")
		if err != nil {
			return err
		}
		if len(files) > 0 {
			in.Upload = &files[0]
		}
	}

	out, err := h.uc.UpdateProfile(c.Context(), requester, c.Params("email"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserEnvelope{Success: true, Message: "User updated", User: out})
}

// List godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/auth/admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.UserListResponse{Success: true, Users: users})
}

// Delete godoc
// @Summary      Eliminar usuario por id
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/admin/user/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("User deleted"))
}

// UpdateRole godoc
// @Summary      Cambiar rol (user|admin)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        email  path  string                 true  "email"
// @Param        body   body  dto.UpdateRoleRequest  true  "role"
// @Success      200    {object}  dto.UserEnvelope
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/auth/admin/user/role/{email} [put]
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.uc.UpdateRole(c.Context(), c.Params("email"), in.Role)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserEnvelope{Success: true, Message: "User role updated", User: out})
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
