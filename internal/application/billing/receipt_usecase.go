package billing

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/application/ports"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una suscripción pagada.
type ReceiptUseCase struct {
	histRepo    repository.SubscriptionHistoryRepository
	userRepo    repository.UserRepository
	featureRepo repository.FeatureRepository
	generator   ports.ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	histRepo repository.SubscriptionHistoryRepository,
	userRepo repository.UserRepository,
	featureRepo repository.FeatureRepository,
	generator ports.ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{histRepo: histRepo, userRepo: userRepo, featureRepo: featureRepo, generator: generator}
}

// DownloadReceipt recupera la suscripción del usuario, verifica que esté
// pagada y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la suscripción no existe o no es del usuario.
//   - domain.ErrValidation       si aún no está pagada.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, userID, historyID string) (pdfBytes []byte, filename string, err error) {
	hist, err := uc.histRepo.GetByIDAndUser(ctx, historyID, userID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener suscripción: %w", err)
	}
	if hist == nil {
		return nil, "", domain.ErrNotFound
	}
	if !hist.Paid {
		return nil, "", domain.ErrValidation
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, "", domain.ErrUserNotFound
	}

	featureIDs, err := uc.histRepo.GetFeatureIDs(ctx, hist.ID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener features: %w", err)
	}
	features, err := uc.featureRepo.ListByIDs(ctx, featureIDs)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: cargar catálogo: %w", err)
	}

	pdf, err := uc.generator.Generate(hist, user, features)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", hist.UID), nil
}
