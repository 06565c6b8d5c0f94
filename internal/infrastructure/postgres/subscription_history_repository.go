package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.SubscriptionHistoryRepository = (*SubscriptionHistoryRepo)(nil)

// SubscriptionHistoryRepo implementación del puerto
// SubscriptionHistoryRepository sobre PostgreSQL (usable con pool o tx).
type SubscriptionHistoryRepo struct {
	q Querier
}

// NewSubscriptionHistoryRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewSubscriptionHistoryRepository(q Querier) *SubscriptionHistoryRepo {
	return &SubscriptionHistoryRepo{q: q}
}

const historyColumns = `id, uid, user_id, company_id, branch_id, subscription_id,
		start_date, end_date, package_duration, paid, payment, is_active, activate_by,
		registration_step, created_at, updated_at`

// Create persiste un evento de suscripción.
func (r *SubscriptionHistoryRepo) Create(ctx context.Context, h *entity.SubscriptionHistory) error {
	query := `
		INSERT INTO subscription_histories (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.UID, h.UserID, h.CompanyID, h.BranchID, h.SubscriptionID,
		h.StartDate, h.EndDate, h.PackageDuration, h.Paid, h.Payment, h.IsActive, h.ActivateBy,
		h.RegistrationStep,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert subscription history: %w", err)
	}
	return nil
}

// GetByID obtiene un evento por ID.
func (r *SubscriptionHistoryRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM subscription_histories WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDAndUser obtiene un evento que pertenezca al usuario; (nil, nil) si no.
func (r *SubscriptionHistoryRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.SubscriptionHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM subscription_histories WHERE id = $1 AND user_id = $2`
	return r.scanOne(ctx, query, id, userID)
}

func (r *SubscriptionHistoryRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.SubscriptionHistory, error) {
	var h entity.SubscriptionHistory
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&h.ID, &h.UID, &h.UserID, &h.CompanyID, &h.BranchID, &h.SubscriptionID,
		&h.StartDate, &h.EndDate, &h.PackageDuration, &h.Paid, &h.Payment, &h.IsActive, &h.ActivateBy,
		&h.RegistrationStep, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription history: %w", err)
	}
	return &h, nil
}

// ListByUser lista los eventos del usuario, más recientes primero.
func (r *SubscriptionHistoryRepo) ListByUser(ctx context.Context, userID string) ([]*entity.SubscriptionHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM subscription_histories WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscription histories: %w", err)
	}
	defer rows.Close()

	var list []*entity.SubscriptionHistory
	for rows.Next() {
		var h entity.SubscriptionHistory
		if err := rows.Scan(
			&h.ID, &h.UID, &h.UserID, &h.CompanyID, &h.BranchID, &h.SubscriptionID,
			&h.StartDate, &h.EndDate, &h.PackageDuration, &h.Paid, &h.Payment, &h.IsActive, &h.ActivateBy,
			&h.RegistrationStep, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// Update actualiza un evento (estado, fechas, vínculos).
func (r *SubscriptionHistoryRepo) Update(ctx context.Context, h *entity.SubscriptionHistory) error {
	query := `
		UPDATE subscription_histories SET
			company_id = $2, branch_id = $3, start_date = $4, end_date = $5,
			paid = $6, payment = $7, is_active = $8, activate_by = $9,
			registration_step = $10, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.CompanyID, h.BranchID, h.StartDate, h.EndDate,
		h.Paid, h.Payment, h.IsActive, h.ActivateBy, h.RegistrationStep,
	)
	if err != nil {
		return fmt.Errorf("update subscription history: %w", err)
	}
	return nil
}

// Delete elimina un evento.
func (r *SubscriptionHistoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM subscription_histories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subscription history: %w", err)
	}
	return nil
}

// SetFeatures reemplaza el conjunto de features del evento.
func (r *SubscriptionHistoryRepo) SetFeatures(ctx context.Context, historyID string, featureIDs []string) error {
	return setAssociation(ctx, r.q, "subscription_history_features", "history_id", historyID, featureIDs)
}

// GetFeatureIDs devuelve las features del evento ordenadas por "order".
func (r *SubscriptionHistoryRepo) GetFeatureIDs(ctx context.Context, historyID string) ([]string, error) {
	return getAssociation(ctx, r.q, "subscription_history_features", "history_id", historyID)
}
