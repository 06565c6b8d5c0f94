package repository

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// FeatureRepository define el puerto de persistencia del catálogo AppFeature.
// Los listados ordenan por la columna "order" salvo que se indique lo contrario.
type FeatureRepository interface {
	Create(ctx context.Context, f *entity.AppFeature) error
	GetByID(ctx context.Context, id string) (*entity.AppFeature, error)
	GetByTag(ctx context.Context, tag string) (*entity.AppFeature, error)
	// ListByIDs devuelve las features existentes entre los ids pedidos,
	// ordenadas por "order". Ids inexistentes simplemente no aparecen.
	ListByIDs(ctx context.Context, ids []string) ([]entity.AppFeature, error)
	ListAll(ctx context.Context) ([]entity.AppFeature, error)
	ListByType(ctx context.Context, featureType string) ([]entity.AppFeature, error)
	// ListIDs devuelve los ids de todo el catálogo (vista de owner).
	ListIDs(ctx context.Context) ([]string, error)
}
