package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
)

// Ensure TxRunner implements onboarding.TxRunner.
var _ onboarding.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con todos los repos atados a la tx y
// hace Commit o Rollback. Las transiciones del onboarding dependen de esto:
// entidad, contactos, entitlements, grant, layout y avance de paso confirman
// juntos o no confirma nada.
func (r *TxRunner) Run(ctx context.Context, fn func(repos onboarding.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := onboarding.TxRepos{
		Companies:     NewCompanyRepository(tx),
		Branches:      NewBranchRepository(tx),
		Contacts:      NewContactRepository(tx),
		Users:         NewUserRepository(tx),
		Features:      NewFeatureRepository(tx),
		Subscriptions: NewSubscriptionRepository(tx),
		Histories:     NewSubscriptionHistoryRepository(tx),
		OTPs:          NewOTPRepository(tx),
		Grants:        NewGrantRepository(tx),
		Layouts:       NewLayoutRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
