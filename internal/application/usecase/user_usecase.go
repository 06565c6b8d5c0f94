package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/application/auth"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/domain/layout"
	"github.com/tamayuz/platform-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase administración de usuarios del equipo: listado por alcance,
// alta/edición con grants por sucursal y derivación de layout.
type UserUseCase struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	tx         onboarding.TxRunner
}

// NewUserUseCase construye el caso de uso de administración de usuarios.
func NewUserUseCase(userRepo repository.UserRepository, branchRepo repository.BranchRepository, tx onboarding.TxRunner) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, branchRepo: branchRepo, tx: tx}
}

// List devuelve los usuarios visibles para el actor: los asignados a alguna
// sucursal de su alcance, excluyéndose a sí mismo.
func (uc *UserUseCase) List(ctx context.Context, actingUserID string) ([]dto.UserResponse, error) {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	scope, err := uc.scopeBranchIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []dto.UserResponse{}, nil
	}
	users, err := uc.userRepo.ListByBranches(ctx, scope, actor.Email)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// Get obtiene un usuario del alcance del actor.
func (uc *UserUseCase) Get(ctx context.Context, actingUserID, targetID string) (*dto.UserResponse, error) {
	actor, target, err := uc.loadPair(ctx, actingUserID, targetID)
	if err != nil {
		return nil, err
	}
	if err := sameCompany(actor, target); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(target), nil
}

// Create da de alta un usuario del equipo con sus grants por sucursal. El
// grant y el layout de cada sucursal se escriben en la misma transacción que
// el usuario: nunca se observa un usuario a medio aprovisionar.
func (uc *UserUseCase) Create(ctx context.Context, actingUserID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
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
	if !actor.HasCompany() {
		return nil, domain.ErrValidation
	}
	if in.IsAdmin && !actor.IsOwner && !actor.IsAdmin {
		return nil, domain.ErrPermission
	}

	scope, err := uc.scopeBranchIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := grantsInScope(in.Grants, scope); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		IsVerified:   true, // creado por un admin, no pasa por OTP de registro
		IsActive:     true,
		IsStaff:      true,
		IsAdmin:      in.IsAdmin,
		DateJoined:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(r onboarding.TxRepos) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return applyGrants(ctx, r, user.ID, in.Grants)
	})
	if err != nil {
		return nil, err
	}
	user.AssignedBranchIDs = grantBranchIDs(in.Grants)
	return auth.ToUserResponse(user), nil
}

// Update edita un usuario del equipo. Reglas: nadie se cambia sus propias
// sucursales o features, y solo dueños/admins tocan is_admin.
func (uc *UserUseCase) Update(ctx context.Context, actingUserID, targetID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	actor, target, err := uc.loadPair(ctx, actingUserID, targetID)
	if err != nil {
		return nil, err
	}
	if err := sameCompany(actor, target); err != nil {
		return nil, err
	}

	self := actor.ID == target.ID
	if self && in.Grants != nil {
		return nil, domain.ErrPermission
	}
	if !self && !actor.IsOwner && !actor.IsAdmin {
		return nil, domain.ErrPermission
	}
	if in.IsAdmin != nil && (!actor.IsOwner && !actor.IsAdmin || self) {
		return nil, domain.ErrPermission
	}

	if in.Name != "" {
		target.Name = in.Name
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
	}
	if in.IsAdmin != nil {
		target.IsAdmin = *in.IsAdmin
	}
	if in.IsActive != nil {
		target.IsActive = *in.IsActive
	}
	target.UpdatedAt = time.Now()

	if in.Grants != nil {
		scope, err := uc.scopeBranchIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		if err := grantsInScope(in.Grants, scope); err != nil {
			return nil, err
		}
	}

	err = uc.tx.Run(ctx, func(r onboarding.TxRepos) error {
		if err := r.Users.Update(ctx, target); err != nil {
			return err
		}
		if in.Grants == nil {
			return nil
		}
		return applyGrants(ctx, r, target.ID, in.Grants)
	})
	if err != nil {
		return nil, err
	}
	if in.Grants != nil {
		target.AssignedBranchIDs = grantBranchIDs(in.Grants)
	}
	return auth.ToUserResponse(target), nil
}

// Delete elimina un usuario del equipo junto con sus grants y layouts.
func (uc *UserUseCase) Delete(ctx context.Context, actingUserID, targetID string) error {
	actor, target, err := uc.loadPair(ctx, actingUserID, targetID)
	if err != nil {
		return err
	}
	if err := sameCompany(actor, target); err != nil {
		return err
	}
	if actor.ID == target.ID || (!actor.IsOwner && !actor.IsAdmin) || target.IsOwner {
		return domain.ErrPermission
	}
	return uc.tx.Run(ctx, func(r onboarding.TxRepos) error {
		if err := r.Grants.DeleteByUser(ctx, target.ID); err != nil {
			return err
		}
		if err := r.Layouts.DeleteByUser(ctx, target.ID); err != nil {
			return err
		}
		return r.Users.Delete(ctx, target.ID)
	})
}

func (uc *UserUseCase) loadPair(ctx context.Context, actingUserID, targetID string) (*entity.User, *entity.User, error) {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	target, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	return actor, target, nil
}

// scopeBranchIDs sucursales alcanzables por el actor: las de su compañía si
// es dueño, las asignadas si no.
func (uc *UserUseCase) scopeBranchIDs(ctx context.Context, actor *entity.User) ([]string, error) {
	if actor.IsOwner && actor.HasCompany() {
		branches, err := uc.branchRepo.ListByCompany(ctx, *actor.CompanyID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(branches))
		for _, b := range branches {
			ids = append(ids, b.ID)
		}
		return ids, nil
	}
	return uc.userRepo.GetAssignedBranchIDs(ctx, actor.ID)
}

// sameCompany el objetivo debe pertenecer a la compañía del actor. El error
// es genérico a propósito: no filtra si el usuario existe en otra compañía.
func sameCompany(actor, target *entity.User) error {
	if actor.CompanyID == nil || target.CompanyID == nil || *actor.CompanyID != *target.CompanyID {
		return domain.ErrPermission
	}
	return nil
}

func grantsInScope(grants []dto.BranchGrantInput, scope []string) error {
	inScope := make(map[string]bool, len(scope))
	for _, id := range scope {
		inScope[id] = true
	}
	for _, g := range grants {
		if !inScope[g.BranchID] {
			return domain.ErrPermission
		}
	}
	return nil
}

func grantBranchIDs(grants []dto.BranchGrantInput) []string {
	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.BranchID)
	}
	return ids
}

// applyGrants reemplaza por completo las asignaciones del usuario: sucursales,
// grant por sucursal y layout derivado de las features otorgadas.
func applyGrants(ctx context.Context, r onboarding.TxRepos, userID string, grants []dto.BranchGrantInput) error {
	if err := r.Users.SetAssignedBranches(ctx, userID, grantBranchIDs(grants)); err != nil {
		return err
	}
	catalog, err := r.Features.ListAll(ctx)
	if err != nil {
		return err
	}
	byTag := feature.IndexByTag(catalog)
	for _, g := range grants {
		if err := r.Grants.Upsert(ctx, userID, g.BranchID, g.FeatureIDs); err != nil {
			return err
		}
		granted, err := r.Features.ListByIDs(ctx, g.FeatureIDs)
		if err != nil {
			return err
		}
		entries := layout.Build(granted, nil, byTag)
		if err := r.Layouts.Upsert(ctx, &entity.UserBranchLayout{
			ID:       uuid.New().String(),
			UserID:   userID,
			BranchID: g.BranchID,
			Position: entries,
		}); err != nil {
			return err
		}
	}
	return nil
}
