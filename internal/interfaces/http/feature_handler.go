package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/usecase"
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// FeatureHandler catálogo de funcionalidades de la plataforma.
type FeatureHandler struct {
	uc *usecase.FeatureUseCase
}

// NewFeatureHandler construye el handler del catálogo.
func NewFeatureHandler(uc *usecase.FeatureUseCase) *FeatureHandler {
	return &FeatureHandler{uc: uc}
}

// ListPaid godoc
// @Summary      Listar funcionalidades de pago (vista de compra)
// @Tags         features
// @Produce      json
// @Success      200  {array}  dto.FeatureResponse
// @Router       /api/features [get]
func (h *FeatureHandler) ListPaid(c *fiber.Ctx) error {
	out, err := h.uc.ListPaid(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Listar el catálogo completo
// @Tags         features
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.FeatureResponse
// @Router       /api/features/all [get]
func (h *FeatureHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar una funcionalidad en el catálogo (solo superusuario)
// @Tags         features
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFeatureRequest  true  "funcionalidad"
// @Success      201  {object}  dto.FeatureResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/features [post]
func (h *FeatureHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFeatureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Tag) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre y tag son obligatorios"})
	}
	f := &entity.AppFeature{
		Name:        strings.TrimSpace(in.Name),
		Tag:         strings.TrimSpace(in.Tag),
		Order:       in.Order,
		Description: in.Description,
		Price:       in.Price,
		FeatureType: in.FeatureType,
		Required:    in.Required,
		W:           in.W,
		H:           in.H,
	}
	if f.W == 0 {
		f.W = entity.DefaultCellW
	}
	if f.H == 0 {
		f.H = entity.DefaultCellH
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
