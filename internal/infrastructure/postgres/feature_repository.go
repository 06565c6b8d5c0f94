package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.FeatureRepository = (*FeatureRepo)(nil)

// FeatureRepo implementación del puerto FeatureRepository sobre PostgreSQL
// (usable con pool o tx).
type FeatureRepo struct {
	q Querier
}

// NewFeatureRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewFeatureRepository(q Querier) *FeatureRepo {
	return &FeatureRepo{q: q}
}

// "order" va entre comillas: es palabra reservada en SQL.
const featureColumns = `id, name, tag, "group", operation, "order", description, price, feature_type, required, w, h, x, y, created_at, updated_at`

// Create persiste una entrada del catálogo con su grupo/operación ya derivados.
func (r *FeatureRepo) Create(ctx context.Context, f *entity.AppFeature) error {
	query := `
		INSERT INTO app_features (` + featureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Tag, f.Group, f.Operation, f.Order, f.Description,
		f.Price, f.FeatureType, f.Required, f.W, f.H, f.X, f.Y, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert feature: %w", err)
	}
	return nil
}

// GetByID obtiene una feature por ID.
func (r *FeatureRepo) GetByID(ctx context.Context, id string) (*entity.AppFeature, error) {
	query := `SELECT ` + featureColumns + ` FROM app_features WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByTag obtiene una feature por tag (único en el catálogo).
func (r *FeatureRepo) GetByTag(ctx context.Context, tag string) (*entity.AppFeature, error) {
	query := `SELECT ` + featureColumns + ` FROM app_features WHERE tag = $1`
	return r.scanOne(ctx, query, tag)
}

func (r *FeatureRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.AppFeature, error) {
	var f entity.AppFeature
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.Name, &f.Tag, &f.Group, &f.Operation, &f.Order, &f.Description,
		&f.Price, &f.FeatureType, &f.Required, &f.W, &f.H, &f.X, &f.Y, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feature: %w", err)
	}
	return &f, nil
}

// ListByIDs devuelve las features existentes entre los ids pedidos, ordenadas
// por "order". Ids inexistentes simplemente no aparecen.
func (r *FeatureRepo) ListByIDs(ctx context.Context, ids []string) ([]entity.AppFeature, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + featureColumns + ` FROM app_features WHERE id = ANY($1) ORDER BY "order"`
	return r.scanMany(ctx, query, ids)
}

// ListAll devuelve el catálogo completo ordenado por "order".
func (r *FeatureRepo) ListAll(ctx context.Context) ([]entity.AppFeature, error) {
	query := `SELECT ` + featureColumns + ` FROM app_features ORDER BY "order"`
	return r.scanMany(ctx, query)
}

// ListByType devuelve las features de un tipo ordenadas por "order".
func (r *FeatureRepo) ListByType(ctx context.Context, featureType string) ([]entity.AppFeature, error) {
	query := `SELECT ` + featureColumns + ` FROM app_features WHERE feature_type = $1 ORDER BY "order"`
	return r.scanMany(ctx, query, featureType)
}

// ListIDs devuelve los ids de todo el catálogo ordenados por "order".
func (r *FeatureRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM app_features ORDER BY "order"`)
	if err != nil {
		return nil, fmt.Errorf("list feature ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan feature id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *FeatureRepo) scanMany(ctx context.Context, query string, args ...any) ([]entity.AppFeature, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()

	var list []entity.AppFeature
	for rows.Next() {
		var f entity.AppFeature
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Tag, &f.Group, &f.Operation, &f.Order, &f.Description,
			&f.Price, &f.FeatureType, &f.Required, &f.W, &f.H, &f.X, &f.Y, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
