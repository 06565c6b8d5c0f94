package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// FeatureUseCase catálogo de features: listado público de pagas y alta de
// entradas (solo staff de la plataforma).
type FeatureUseCase struct {
	repo     repository.FeatureRepository
	userRepo repository.UserRepository
}

// NewFeatureUseCase construye el caso de uso del catálogo.
func NewFeatureUseCase(repo repository.FeatureRepository, userRepo repository.UserRepository) *FeatureUseCase {
	return &FeatureUseCase{repo: repo, userRepo: userRepo}
}

// ListPaid lista las features pagas ordenadas por `order`, para la pantalla
// de selección del checkout.
func (uc *FeatureUseCase) ListPaid(ctx context.Context) ([]dto.FeatureResponse, error) {
	feats, err := uc.repo.ListByType(ctx, entity.FeatureTypePaid)
	if err != nil {
		return nil, err
	}
	return toFeatureResponses(feats), nil
}

// ListAll lista el catálogo completo.
func (uc *FeatureUseCase) ListAll(ctx context.Context) ([]dto.FeatureResponse, error) {
	feats, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toFeatureResponses(feats), nil
}

// Create da de alta una entrada del catálogo. El grupo y la operación se
// derivan del tag una sola vez acá, no en cada lectura.
func (uc *FeatureUseCase) Create(ctx context.Context, actingUserID string, f *entity.AppFeature) (*dto.FeatureResponse, error) {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsSuperuser {
		return nil, domain.ErrPermission
	}
	if f.Tag == "" || f.Name == "" {
		return nil, domain.ErrValidation
	}
	if existing, err := uc.repo.GetByTag(ctx, f.Tag); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	f.ID = uuid.New().String()
	f.CreatedAt = now
	f.UpdatedAt = now
	feature.Annotate(f)
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	resp := toFeatureResponse(*f)
	return &resp, nil
}

func toFeatureResponse(f entity.AppFeature) dto.FeatureResponse {
	return dto.FeatureResponse{
		ID:          f.ID,
		Name:        f.Name,
		Tag:         f.Tag,
		Group:       f.Group,
		Operation:   f.Operation,
		Order:       f.Order,
		Description: f.Description,
		Price:       f.Price,
		FeatureType: f.FeatureType,
		Required:    f.Required,
	}
}

func toFeatureResponses(feats []entity.AppFeature) []dto.FeatureResponse {
	out := make([]dto.FeatureResponse, 0, len(feats))
	for _, f := range feats {
		out = append(out, toFeatureResponse(f))
	}
	return out
}
