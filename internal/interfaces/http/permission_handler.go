package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/permission"
)

// PermissionHandler expone el motor de resolución de permisos.
type PermissionHandler struct {
	resolver *permission.Resolver
}

// NewPermissionHandler construye el handler de permisos.
func NewPermissionHandler(resolver *permission.Resolver) *PermissionHandler {
	return &PermissionHandler{resolver: resolver}
}

// SelfView godoc
// @Summary      Árbol de permisos del usuario autenticado
// @Tags         permissions
// @Security     BearerAuth
// @Produce      json
// @Param        branch_ids  query  string  false  "ids separados por coma para estrechar el alcance"
// @Success      200  {array}  dto.BranchPermissions
// @Router       /api/permissions [get]
func (h *PermissionHandler) SelfView(c *fiber.Ctx) error {
	var filter []string
	if raw := c.Query("branch_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter = append(filter, id)
			}
		}
	}
	out, err := h.resolver.SelfView(c.UserContext(), GetUserID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Comparison godoc
// @Summary      Vista de comparación para configurar otro usuario
// @Tags         permissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComparisonRequest  true  "user_id, branch_ids"
// @Success      200  {array}  dto.BranchComparison
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permissions/compare [post]
func (h *PermissionHandler) Comparison(c *fiber.Ctx) error {
	var in dto.ComparisonRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id es requerido"})
	}
	out, err := h.resolver.Comparison(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
