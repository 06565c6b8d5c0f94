package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/billing"
	"github.com/tamayuz/platform-api/internal/application/usecase"
)

// SubscriptionHandler paquetes, historial del actor y recibos de pago.
type SubscriptionHandler struct {
	uc      *usecase.SubscriptionUseCase
	receipt *billing.ReceiptUseCase
}

// NewSubscriptionHandler construye el handler de suscripciones.
func NewSubscriptionHandler(uc *usecase.SubscriptionUseCase, receipt *billing.ReceiptUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc, receipt: receipt}
}

// ListPackages godoc
// @Summary      Listar paquetes de suscripción
// @Tags         subscriptions
// @Produce      json
// @Success      200  {array}  dto.SubscriptionResponse
// @Router       /api/subscriptions [get]
func (h *SubscriptionHandler) ListPackages(c *fiber.Ctx) error {
	out, err := h.uc.ListPackages(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPackage godoc
// @Summary      Obtener un paquete por ID
// @Tags         subscriptions
// @Produce      json
// @Param        id   path      string  true  "ID del paquete"
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id} [get]
func (h *SubscriptionHandler) GetPackage(c *fiber.Ctx) error {
	out, err := h.uc.GetPackage(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListHistory godoc
// @Summary      Listar el historial de suscripciones del actor
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.SubscriptionHistoryResponse
// @Router       /api/subscriptions/history [get]
func (h *SubscriptionHandler) ListHistory(c *fiber.Ctx) error {
	out, err := h.uc.ListHistory(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetHistory godoc
// @Summary      Obtener un evento del historial del actor
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "ID del evento"
// @Success      200  {object}  dto.SubscriptionHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/history/{id} [get]
func (h *SubscriptionHandler) GetHistory(c *fiber.Ctx) error {
	out, err := h.uc.GetHistory(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadReceipt godoc
// @Summary      Descargar el recibo PDF de un evento pagado
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/history/{id}/receipt [get]
func (h *SubscriptionHandler) DownloadReceipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipt.DownloadReceipt(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
