package repository

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para Branch.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	GetByCompanyAndName(ctx context.Context, companyID, name string) (*entity.Branch, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Branch, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id string) error

	// SetFeatures reemplaza el entitlement del branch (asociación M2M completa).
	SetFeatures(ctx context.Context, branchID string, featureIDs []string) error
	GetFeatureIDs(ctx context.Context, branchID string) ([]string, error)
}

// ContactRepository define el puerto de persistencia para Contact.
// Create devuelve domain.ErrConflict si email o teléfono ya están registrados.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Contact, error)
	DeleteByBranch(ctx context.Context, companyID, branchID string) error
}
