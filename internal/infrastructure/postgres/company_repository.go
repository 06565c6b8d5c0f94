package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL
// (usable con pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, subdomain, address, created_by, updated_by, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.Subdomain, company.Address,
		company.CreatedBy, company.UpdatedBy, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName obtiene una empresa por nombre (único global).
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	return r.getBy(ctx, "name", name)
}

// GetBySubdomain obtiene una empresa por subdominio (único global).
func (r *CompanyRepo) GetBySubdomain(ctx context.Context, subdomain string) (*entity.Company, error) {
	return r.getBy(ctx, "subdomain", subdomain)
}

func (r *CompanyRepo) getBy(ctx context.Context, column, value string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + column + ` = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, value).Scan(
		&c.ID, &c.Name, &c.Subdomain, &c.Address,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by %s: %w", column, err)
	}
	return &c, nil
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, subdomain = $3, address = $4, updated_by = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.Subdomain, company.Address,
		company.UpdatedBy, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}
