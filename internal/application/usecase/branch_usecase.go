package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// BranchUseCase lecturas y edición de sucursales dentro del alcance del
// actor. El alta de sucursales no pasa por acá: siempre la financia una
// suscripción vía el onboarding.
type BranchUseCase struct {
	branchRepo  repository.BranchRepository
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
}

// NewBranchUseCase construye el caso de uso de sucursales.
func NewBranchUseCase(branchRepo repository.BranchRepository, contactRepo repository.ContactRepository, userRepo repository.UserRepository) *BranchUseCase {
	return &BranchUseCase{branchRepo: branchRepo, contactRepo: contactRepo, userRepo: userRepo}
}

// List devuelve las sucursales del alcance del actor.
func (uc *BranchUseCase) List(ctx context.Context, actingUserID string) ([]dto.BranchResponse, error) {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	branches, err := uc.scopedBranches(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		resp, err := uc.toResponse(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Get obtiene una sucursal del alcance del actor.
func (uc *BranchUseCase) Get(ctx context.Context, actingUserID, branchID string) (*dto.BranchResponse, error) {
	branch, err := uc.branchInScope(ctx, actingUserID, branchID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, branch)
}

// Update edita nombre/ubicación de una sucursal. Solo dueños y admins.
func (uc *BranchUseCase) Update(ctx context.Context, actingUserID, branchID string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	if !actor.IsOwner && !actor.IsAdmin {
		return nil, domain.ErrPermission
	}
	branch, err := uc.branchInScope(ctx, actingUserID, branchID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" && in.Name != branch.Name {
		if dup, err := uc.branchRepo.GetByCompanyAndName(ctx, branch.CompanyID, in.Name); err != nil {
			return nil, err
		} else if dup != nil {
			return nil, fmt.Errorf("%w: nombre de sucursal ya registrado", domain.ErrValidation)
		}
		branch.Name = in.Name
	}
	if in.Location != "" {
		branch.Location = in.Location
	}
	branch.UpdatedAt = time.Now()
	if err := uc.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, branch)
}

// Delete elimina una sucursal (cascada en BD para entitlements, grants y
// layouts). Solo el dueño, y nunca la sucursal principal.
func (uc *BranchUseCase) Delete(ctx context.Context, actingUserID, branchID string) error {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return err
	}
	if actor == nil {
		return domain.ErrUserNotFound
	}
	if !actor.IsOwner {
		return domain.ErrPermission
	}
	branch, err := uc.branchInScope(ctx, actingUserID, branchID)
	if err != nil {
		return err
	}
	if branch.Name == entity.MainBranchName {
		return domain.ErrValidation
	}
	return uc.branchRepo.Delete(ctx, branch.ID)
}

// branchInScope resuelve la sucursal y verifica que esté en el alcance del
// actor. Fuera de alcance responde igual que inexistente.
func (uc *BranchUseCase) branchInScope(ctx context.Context, actingUserID, branchID string) (*entity.Branch, error) {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if actor.IsOwner && actor.HasCompany() {
		if branch.CompanyID != *actor.CompanyID {
			return nil, domain.ErrNotFound
		}
		return branch, nil
	}
	assigned, err := uc.userRepo.GetAssignedBranchIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range assigned {
		if id == branch.ID {
			return branch, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (uc *BranchUseCase) scopedBranches(ctx context.Context, actor *entity.User) ([]*entity.Branch, error) {
	if actor.IsOwner && actor.HasCompany() {
		return uc.branchRepo.ListByCompany(ctx, *actor.CompanyID)
	}
	ids, err := uc.userRepo.GetAssignedBranchIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return uc.branchRepo.ListByIDs(ctx, ids)
}

func (uc *BranchUseCase) toResponse(ctx context.Context, b *entity.Branch) (*dto.BranchResponse, error) {
	contacts, err := uc.contactRepo.ListByBranch(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Name:      b.Name,
		Location:  b.Location,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	for _, c := range contacts {
		resp.Contacts = append(resp.Contacts, dto.ContactResponse{ID: c.ID, Email: c.Email, PhoneNumber: c.PhoneNumber})
	}
	return resp, nil
}
