package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/usecase"
)

// LayoutHandler layout del dashboard por (usuario, sucursal).
type LayoutHandler struct {
	uc *usecase.LayoutUseCase
}

// NewLayoutHandler construye el handler de layouts.
func NewLayoutHandler(uc *usecase.LayoutUseCase) *LayoutHandler {
	return &LayoutHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener el layout del actor en una sucursal
// @Tags         layouts
// @Security     BearerAuth
// @Produce      json
// @Param        branch_id  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.LayoutResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/branches/{branch_id}/layout [get]
func (h *LayoutHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("branch_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Reemplazar el layout del actor en una sucursal
// @Tags         layouts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        branch_id  path  string                 true  "ID de la sucursal"
// @Param        body       body  dto.SaveLayoutRequest  true  "features en orden y geometrías opcionales"
// @Success      200  {object}  dto.LayoutResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/branches/{branch_id}/layout [put]
func (h *LayoutHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveLayoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.FeatureIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "feature_ids es obligatorio"})
	}
	out, err := h.uc.Save(c.UserContext(), GetUserID(c), c.Params("branch_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
