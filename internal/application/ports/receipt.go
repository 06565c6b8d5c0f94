package ports

import (
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// ReceiptGenerator define el puerto de salida para generar el comprobante PDF
// de una suscripción pagada.
type ReceiptGenerator interface {
	Generate(history *entity.SubscriptionHistory, user *entity.User, features []entity.AppFeature) ([]byte, error)
}
