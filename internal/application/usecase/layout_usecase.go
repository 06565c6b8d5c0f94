package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/domain/layout"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// LayoutUseCase lectura y reemplazo del layout de dashboard por
// (usuario, sucursal).
type LayoutUseCase struct {
	layoutRepo  repository.LayoutRepository
	featureRepo repository.FeatureRepository
	userRepo    repository.UserRepository
	branchRepo  repository.BranchRepository
}

// NewLayoutUseCase construye el caso de uso de layouts.
func NewLayoutUseCase(layoutRepo repository.LayoutRepository, featureRepo repository.FeatureRepository, userRepo repository.UserRepository, branchRepo repository.BranchRepository) *LayoutUseCase {
	return &LayoutUseCase{layoutRepo: layoutRepo, featureRepo: featureRepo, userRepo: userRepo, branchRepo: branchRepo}
}

// Get devuelve el layout guardado del par (actor, sucursal). Sin layout
// guardado devuelve la posición vacía, no error.
func (uc *LayoutUseCase) Get(ctx context.Context, actingUserID, branchID string) (*dto.LayoutResponse, error) {
	if err := uc.checkAccess(ctx, actingUserID, branchID); err != nil {
		return nil, err
	}
	saved, err := uc.layoutRepo.Get(ctx, actingUserID, branchID)
	if err != nil {
		return nil, err
	}
	resp := &dto.LayoutResponse{BranchID: branchID, Position: []entity.LayoutEntry{}}
	if saved != nil {
		resp.Position = saved.Position
	}
	return resp, nil
}

// Save reemplaza por completo el layout del par (actor, sucursal): las
// features definen el orden y positions (opcional) sobreescribe geometrías
// por índice.
func (uc *LayoutUseCase) Save(ctx context.Context, actingUserID, branchID string, in dto.SaveLayoutRequest) (*dto.LayoutResponse, error) {
	if err := uc.checkAccess(ctx, actingUserID, branchID); err != nil {
		return nil, err
	}
	feats, err := uc.featureRepo.ListByIDs(ctx, in.FeatureIDs)
	if err != nil {
		return nil, err
	}
	if len(feats) == 0 {
		return nil, domain.ErrValidation
	}
	catalog, err := uc.featureRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	positions := make([]layout.Position, 0, len(in.Positions))
	for _, p := range in.Positions {
		pos := layout.Position{X: p.X, Y: p.Y}
		if p.H != nil {
			pos.H = *p.H
		}
		if p.W != nil {
			pos.W = *p.W
		}
		positions = append(positions, pos)
	}

	entries := layout.Build(feats, positions, feature.IndexByTag(catalog))
	if err := uc.layoutRepo.Upsert(ctx, &entity.UserBranchLayout{
		ID:       uuid.New().String(),
		UserID:   actingUserID,
		BranchID: branchID,
		Position: entries,
	}); err != nil {
		return nil, err
	}
	return &dto.LayoutResponse{BranchID: branchID, Position: entries}, nil
}

// checkAccess el actor debe alcanzar la sucursal: dueño ⇒ sucursales de su
// compañía, resto ⇒ asignadas. El error es genérico a propósito.
func (uc *LayoutUseCase) checkAccess(ctx context.Context, actingUserID, branchID string) error {
	user, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}
	if user.IsOwner && user.HasCompany() {
		if branch.CompanyID != *user.CompanyID {
			return domain.ErrPermission
		}
		return nil
	}
	assigned, err := uc.userRepo.GetAssignedBranchIDs(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, id := range assigned {
		if id == branchID {
			return nil
		}
	}
	return domain.ErrPermission
}
