package onboarding

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. Las
// transiciones del onboarding tocan varias tablas y deben confirmar o
// revertir como una sola unidad.
type TxRepos struct {
	Companies     repository.CompanyRepository
	Branches      repository.BranchRepository
	Contacts      repository.ContactRepository
	Users         repository.UserRepository
	Features      repository.FeatureRepository
	Subscriptions repository.SubscriptionRepository
	Histories     repository.SubscriptionHistoryRepository
	OTPs          repository.OTPRepository
	Grants        repository.GrantRepository
	Layouts       repository.LayoutRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
