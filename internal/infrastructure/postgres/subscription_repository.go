package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación del puerto SubscriptionRepository sobre
// PostgreSQL (usable con pool o tx).
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador de paquetes. Pasar pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// Create persiste un paquete.
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, package_name, package_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, s.ID, s.PackageName, s.PackagePrice, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetByID obtiene un paquete por ID.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT id, package_name, package_price, created_at, updated_at FROM subscriptions WHERE id = $1`
	var s entity.Subscription
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.PackageName, &s.PackagePrice, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

// List devuelve todos los paquetes.
func (r *SubscriptionRepo) List(ctx context.Context) ([]*entity.Subscription, error) {
	query := `SELECT id, package_name, package_price, created_at, updated_at FROM subscriptions ORDER BY package_price`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Subscription
	for rows.Next() {
		var s entity.Subscription
		if err := rows.Scan(&s.ID, &s.PackageName, &s.PackagePrice, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza un paquete.
func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	query := `UPDATE subscriptions SET package_name = $2, package_price = $3, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, s.ID, s.PackageName, s.PackagePrice); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

// Delete elimina un paquete.
func (r *SubscriptionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// SetFeatures reemplaza el conjunto de features del paquete.
func (r *SubscriptionRepo) SetFeatures(ctx context.Context, subscriptionID string, featureIDs []string) error {
	return setAssociation(ctx, r.q, "subscription_features", "subscription_id", subscriptionID, featureIDs)
}

// GetFeatureIDs devuelve las features del paquete ordenadas por "order".
func (r *SubscriptionRepo) GetFeatureIDs(ctx context.Context, subscriptionID string) ([]string, error) {
	return getAssociation(ctx, r.q, "subscription_features", "subscription_id", subscriptionID)
}

// setAssociation reemplaza una asociación M2M hacia app_features sincronizando
// por diferencia, sin la ventana vacía de borrar-y-recrear.
func setAssociation(ctx context.Context, q Querier, table, keyColumn, key string, featureIDs []string) error {
	prune := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND feature_id != ALL($2)`, table, keyColumn)
	if _, err := q.Exec(ctx, prune, key, featureIDs); err != nil {
		return fmt.Errorf("prune %s: %w", table, err)
	}
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, feature_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (%s, feature_id) DO NOTHING`, table, keyColumn, keyColumn)
	if _, err := q.Exec(ctx, insert, key, featureIDs); err != nil {
		return fmt.Errorf("set %s: %w", table, err)
	}
	return nil
}

func getAssociation(ctx context.Context, q Querier, table, keyColumn, key string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT a.feature_id
		FROM %s a
		JOIN app_features f ON f.id = a.feature_id
		WHERE a.%s = $1
		ORDER BY f."order"`, table, keyColumn)
	rows, err := q.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
