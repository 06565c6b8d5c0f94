package repository

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia de los paquetes.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *entity.Subscription) error
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)
	List(ctx context.Context) ([]*entity.Subscription, error)
	Update(ctx context.Context, s *entity.Subscription) error
	Delete(ctx context.Context, id string) error
	SetFeatures(ctx context.Context, subscriptionID string, featureIDs []string) error
	GetFeatureIDs(ctx context.Context, subscriptionID string) ([]string, error)
}

// SubscriptionHistoryRepository define el puerto del historial de suscripción
// (la máquina de estados de onboarding).
type SubscriptionHistoryRepository interface {
	Create(ctx context.Context, h *entity.SubscriptionHistory) error
	GetByID(ctx context.Context, id string) (*entity.SubscriptionHistory, error)
	// GetByIDAndUser devuelve (nil, nil) si no existe o no pertenece al usuario.
	GetByIDAndUser(ctx context.Context, id, userID string) (*entity.SubscriptionHistory, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.SubscriptionHistory, error)
	Update(ctx context.Context, h *entity.SubscriptionHistory) error
	Delete(ctx context.Context, id string) error
	SetFeatures(ctx context.Context, historyID string, featureIDs []string) error
	GetFeatureIDs(ctx context.Context, historyID string) ([]string, error)
}

// OTPRepository define el puerto de los tokens CompanyOTP de un solo uso.
type OTPRepository interface {
	Create(ctx context.Context, otp *entity.CompanyOTP) error
	// Consume marca el token como usado de forma atómica (compare-and-set
	// used=false→true). Devuelve domain.ErrNotFound si el token no existe o ya
	// fue consumido; presentar dos veces el mismo token solo valida la primera.
	Consume(ctx context.Context, token string) error
}
