package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implementación del puerto BranchRepository sobre PostgreSQL
// (usable con pool o tx).
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador de persistencia para sucursales. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, company_id, created_by, name, location, created_at, updated_at`

// Create persiste una nueva sucursal.
func (r *BranchRepo) Create(ctx context.Context, branch *entity.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		branch.ID, branch.CompanyID, branch.CreatedBy, branch.Name, branch.Location,
		branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID.
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByCompanyAndName obtiene una sucursal por (empresa, nombre), par único.
func (r *BranchRepo) GetByCompanyAndName(ctx context.Context, companyID, name string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE company_id = $1 AND name = $2`
	return r.scanOne(ctx, query, companyID, name)
}

func (r *BranchRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Branch, error) {
	var b entity.Branch
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.CompanyID, &b.CreatedBy, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// ListByCompany lista las sucursales de una empresa.
func (r *BranchRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE company_id = $1 ORDER BY created_at`
	return r.scanMany(ctx, query, companyID)
}

// ListByIDs lista las sucursales con los ids dados; ids inexistentes no aparecen.
func (r *BranchRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Branch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = ANY($1) ORDER BY created_at`
	return r.scanMany(ctx, query, ids)
}

func (r *BranchRepo) scanMany(ctx context.Context, query string, args ...any) ([]*entity.Branch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.CreatedBy, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Update actualiza una sucursal existente.
func (r *BranchRepo) Update(ctx context.Context, branch *entity.Branch) error {
	query := `UPDATE branches SET name = $2, location = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, branch.ID, branch.Name, branch.Location, branch.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// Delete elimina una sucursal. Entitlements, grants y layouts caen en cascada.
func (r *BranchRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	return nil
}

// SetFeatures reemplaza el entitlement de la sucursal sincronizando por
// diferencia: nunca hay una ventana con cero features visibles.
func (r *BranchRepo) SetFeatures(ctx context.Context, branchID string, featureIDs []string) error {
	query := `DELETE FROM branch_features WHERE branch_id = $1 AND feature_id != ALL($2)`
	if _, err := r.q.Exec(ctx, query, branchID, featureIDs); err != nil {
		return fmt.Errorf("prune branch features: %w", err)
	}
	insert := `
		INSERT INTO branch_features (branch_id, feature_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (branch_id, feature_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, branchID, featureIDs); err != nil {
		return fmt.Errorf("set branch features: %w", err)
	}
	return nil
}

// GetFeatureIDs devuelve el entitlement de la sucursal (vacío si no tiene).
func (r *BranchRepo) GetFeatureIDs(ctx context.Context, branchID string) ([]string, error) {
	query := `
		SELECT bf.feature_id
		FROM branch_features bf
		JOIN app_features f ON f.id = bf.feature_id
		WHERE bf.branch_id = $1
		ORDER BY f."order"`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("get branch features: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan branch feature: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
