package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
)

// OnboardingHandler maneja el recorrido de suscripción: checkout → activación
// → canje de token → creación de empresa/sucursal.
type OnboardingHandler struct {
	checkout  *onboarding.CheckoutUseCase
	provision *onboarding.ProvisionUseCase
}

// NewOnboardingHandler construye el handler de onboarding.
func NewOnboardingHandler(checkout *onboarding.CheckoutUseCase, provision *onboarding.ProvisionUseCase) *OnboardingHandler {
	return &OnboardingHandler{checkout: checkout, provision: provision}
}

// Checkout godoc
// @Summary      Comprar un paquete o features a la carta
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "subscription_id o feature_ids, package_duration"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/onboarding/checkout [post]
func (h *OnboardingHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PackageDuration < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "package_duration debe ser al menos 1"})
	}
	out, err := h.checkout.Checkout(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Activate godoc
// @Summary      Activar una suscripción pagada (staff)
// @Tags         onboarding
// @Security     BearerAuth
// @Param        id  path  string  true  "subscription history id"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/onboarding/subscriptions/{id}/activate [post]
func (h *OnboardingHandler) Activate(c *fiber.Ctx) error {
	if err := h.checkout.Activate(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Detail: "suscripción activada, token enviado"})
}

// VerifyToken godoc
// @Summary      Canjear el token de activación (un solo uso)
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyTokenRequest  true  "subscription_history_id, token"
// @Success      200   {object}  dto.SubscriptionHistoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/onboarding/verify-token [post]
func (h *OnboardingHandler) VerifyToken(c *fiber.Ctx) error {
	var in dto.VerifyTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SubscriptionHistoryID == "" || in.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "subscription_history_id y token son requeridos"})
	}
	out, err := h.checkout.VerifyToken(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateCompany godoc
// @Summary      Crear la empresa (consume el permiso company_create)
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/onboarding/companies [post]
func (h *OnboardingHandler) CreateCompany(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Subdomain == "" || in.SubscriptionHistoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, subdomain y subscription_history_id son requeridos"})
	}
	out, err := h.provision.CreateCompany(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateBranch godoc
// @Summary      Crear una sucursal (consume el permiso branch_create)
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "datos de la sucursal"
// @Success      201   {object}  dto.BranchResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/onboarding/branches [post]
func (h *OnboardingHandler) CreateBranch(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.SubscriptionHistoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y subscription_history_id son requeridos"})
	}
	out, err := h.provision.CreateBranch(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
