package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación del puerto ContactRepository sobre PostgreSQL
// (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador de contactos. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un contacto. Email y teléfono son únicos: el duplicado se
// reporta como ErrConflict para que la transición que lo envuelve aborte.
func (r *ContactRepo) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, company_id, branch_id, email, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(ctx, query,
		contact.ID, contact.CompanyID, contact.BranchID, contact.Email, contact.PhoneNumber,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contacto ya registrado", domain.ErrConflict)
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ListByBranch lista los contactos de una sucursal.
func (r *ContactRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Contact, error) {
	query := `
		SELECT id, company_id, branch_id, email, phone_number, created_at, updated_at
		FROM contacts WHERE branch_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Contact
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.BranchID, &c.Email, &c.PhoneNumber, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// DeleteByBranch elimina los contactos de una sucursal dentro de una empresa.
func (r *ContactRepo) DeleteByBranch(ctx context.Context, companyID, branchID string) error {
	query := `DELETE FROM contacts WHERE company_id = $1 AND branch_id = $2`
	if _, err := r.q.Exec(ctx, query, companyID, branchID); err != nil {
		return fmt.Errorf("delete contacts: %w", err)
	}
	return nil
}
