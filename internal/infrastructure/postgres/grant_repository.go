package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.GrantRepository = (*GrantRepo)(nil)

// GrantRepo implementación del puerto GrantRepository sobre PostgreSQL
// (usable con pool o tx). La fila user_branch_grants es única por
// (user, branch); las features viven en la asociación grant_features.
type GrantRepo struct {
	q Querier
}

// NewGrantRepository construye el adaptador de grants. Pasar pool o tx (Querier).
func NewGrantRepository(q Querier) *GrantRepo {
	return &GrantRepo{q: q}
}

// Upsert reemplaza el conjunto de features del par (usuario, sucursal). La
// fila se upsertea y las features se sincronizan por diferencia: un lector
// concurrente nunca observa el conjunto momentáneamente vacío.
func (r *GrantRepo) Upsert(ctx context.Context, userID, branchID string, featureIDs []string) error {
	query := `
		INSERT INTO user_branch_grants (id, user_id, branch_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id, branch_id)
		DO UPDATE SET updated_at = now()
		RETURNING id`
	var grantID string
	if err := r.q.QueryRow(ctx, query, uuid.New().String(), userID, branchID).Scan(&grantID); err != nil {
		return fmt.Errorf("upsert grant: %w", err)
	}

	prune := `DELETE FROM grant_features WHERE grant_id = $1 AND feature_id != ALL($2)`
	if _, err := r.q.Exec(ctx, prune, grantID, featureIDs); err != nil {
		return fmt.Errorf("prune grant features: %w", err)
	}
	insert := `
		INSERT INTO grant_features (grant_id, feature_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (grant_id, feature_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, grantID, featureIDs); err != nil {
		return fmt.Errorf("set grant features: %w", err)
	}
	return nil
}

// GetFeatureIDs devuelve las features otorgadas al par (usuario, sucursal)
// ordenadas por "order". Sin grant devuelve vacío, no error.
func (r *GrantRepo) GetFeatureIDs(ctx context.Context, userID, branchID string) ([]string, error) {
	query := `
		SELECT gf.feature_id
		FROM user_branch_grants g
		JOIN grant_features gf ON gf.grant_id = g.id
		JOIN app_features f ON f.id = gf.feature_id
		WHERE g.user_id = $1 AND g.branch_id = $2
		ORDER BY f."order"`
	rows, err := r.q.Query(ctx, query, userID, branchID)
	if err != nil {
		return nil, fmt.Errorf("get grant features: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan grant feature: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MapByUser devuelve branchID → featureIDs para todas las sucursales del usuario.
func (r *GrantRepo) MapByUser(ctx context.Context, userID string) (map[string][]string, error) {
	query := `
		SELECT g.branch_id, gf.feature_id
		FROM user_branch_grants g
		JOIN grant_features gf ON gf.grant_id = g.id
		JOIN app_features f ON f.id = gf.feature_id
		WHERE g.user_id = $1
		ORDER BY g.branch_id, f."order"`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("map grants by user: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var branchID, featureID string
		if err := rows.Scan(&branchID, &featureID); err != nil {
			return nil, fmt.Errorf("scan grant row: %w", err)
		}
		out[branchID] = append(out[branchID], featureID)
	}
	return out, rows.Err()
}

// DeleteByUser elimina todos los grants del usuario.
func (r *GrantRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_branch_grants WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete grants: %w", err)
	}
	return nil
}

var _ repository.LayoutRepository = (*LayoutRepo)(nil)

// LayoutRepo implementación del puerto LayoutRepository sobre PostgreSQL
// (usable con pool o tx). El arreglo de celdas se guarda como JSONB.
type LayoutRepo struct {
	q Querier
}

// NewLayoutRepository construye el adaptador de layouts. Pasar pool o tx (Querier).
func NewLayoutRepository(q Querier) *LayoutRepo {
	return &LayoutRepo{q: q}
}

// Upsert reemplaza el layout del par (usuario, sucursal) en una sola sentencia.
func (r *LayoutRepo) Upsert(ctx context.Context, layout *entity.UserBranchLayout) error {
	query := `
		INSERT INTO user_branch_layouts (id, user_id, branch_id, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id, branch_id)
		DO UPDATE SET position = EXCLUDED.position, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, layout.ID, layout.UserID, layout.BranchID, layout.Position); err != nil {
		return fmt.Errorf("upsert layout: %w", err)
	}
	return nil
}

// Get devuelve el layout del par (usuario, sucursal); (nil, nil) si no hay.
func (r *LayoutRepo) Get(ctx context.Context, userID, branchID string) (*entity.UserBranchLayout, error) {
	query := `
		SELECT id, user_id, branch_id, position, created_at, updated_at
		FROM user_branch_layouts WHERE user_id = $1 AND branch_id = $2`
	var l entity.UserBranchLayout
	err := r.q.QueryRow(ctx, query, userID, branchID).Scan(
		&l.ID, &l.UserID, &l.BranchID, &l.Position, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get layout: %w", err)
	}
	return &l, nil
}

// DeleteByUser elimina todos los layouts del usuario.
func (r *LayoutRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_branch_layouts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete layouts: %w", err)
	}
	return nil
}
