package repository

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get* devuelven (nil, nil)
// cuando el registro no existe; el caso de uso decide si eso es ErrNotFound.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByName(ctx context.Context, name string) (*entity.Company, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
}
