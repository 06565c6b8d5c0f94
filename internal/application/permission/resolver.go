package permission

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// Resolver calcula los permisos efectivos por (usuario, sucursal). Lecturas
// puras: nunca muta estado. La regla del dueño (catálogo completo, ignorando
// grants guardados) vive solo acá para que sea auditable en un punto.
type Resolver struct {
	userRepo    repository.UserRepository
	branchRepo  repository.BranchRepository
	featureRepo repository.FeatureRepository
	grantRepo   repository.GrantRepository
}

// NewResolver construye el resolutor de permisos.
func NewResolver(
	userRepo repository.UserRepository,
	branchRepo repository.BranchRepository,
	featureRepo repository.FeatureRepository,
	grantRepo repository.GrantRepository,
) *Resolver {
	return &Resolver{userRepo: userRepo, branchRepo: branchRepo, featureRepo: featureRepo, grantRepo: grantRepo}
}

// SelfView devuelve el árbol de permisos del usuario por sucursal. El alcance
// es todas las sucursales de su compañía si es dueño, o las asignadas si no;
// branchFilter lo estrecha y los ids fuera de alcance se descartan en
// silencio. Una sucursal sin grant emite entrada con groups vacío.
func (rs *Resolver) SelfView(ctx context.Context, actingUserID string, branchFilter []string) ([]dto.BranchPermissions, error) {
	user, err := rs.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	branches, err := rs.scopedBranches(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(branchFilter) > 0 {
		wanted := make(map[string]bool, len(branchFilter))
		for _, id := range branchFilter {
			wanted[id] = true
		}
		kept := branches[:0]
		for _, b := range branches {
			if wanted[b.ID] {
				kept = append(kept, b)
			}
		}
		branches = kept
	}

	out := make([]dto.BranchPermissions, 0, len(branches))
	for _, b := range branches {
		var ids []string
		if user.IsOwner {
			// Dueño: catálogo completo, sin mirar el grant guardado.
			ids, err = rs.featureRepo.ListIDs(ctx)
		} else {
			ids, err = rs.grantRepo.GetFeatureIDs(ctx, user.ID, b.ID)
		}
		if err != nil {
			return nil, err
		}

		entry := dto.BranchPermissions{
			BranchID:   b.ID,
			BranchName: b.Name,
			Groups:     []dto.PermissionGroup{},
		}
		if len(ids) > 0 {
			feats, err := rs.featureRepo.ListByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			entry.Groups = groupOperations(feats)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Comparison devuelve la vista de negociación de capacidades que un admin usa
// al configurar los grants de otro usuario. Solo aparecen features a las que
// la sucursal tiene derecho y que alguna de las dos partes ya tiene; una
// capacidad que el objetivo tiene pero el actor no se marca allowed+disabled.
func (rs *Resolver) Comparison(ctx context.Context, actingUserID string, in dto.ComparisonRequest) ([]dto.BranchComparison, error) {
	// Un id que no es UUID se descarta antes de consultar: el codec uuid de
	// la base no puede codificarlo y el error tumbaría el lote completo.
	branchIDs := make([]string, 0, len(in.BranchIDs))
	for _, id := range in.BranchIDs {
		if _, err := uuid.Parse(id); err == nil {
			branchIDs = append(branchIDs, id)
		}
	}
	if len(branchIDs) == 0 {
		return nil, fmt.Errorf("%w: sin ids de sucursal válidos", domain.ErrValidation)
	}

	target, err := rs.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}

	out := make([]dto.BranchComparison, 0, len(branchIDs))
	for _, branchID := range branchIDs {
		branch, err := rs.branchRepo.GetByID(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			// Una sucursal inexistente marca su entrada sin abortar el lote.
			out = append(out, dto.BranchComparison{
				BranchID: branchID,
				Error:    "sucursal no encontrada",
				Groups:   []dto.ComparisonGroup{},
			})
			continue
		}

		targetIDs, err := rs.grantRepo.GetFeatureIDs(ctx, target.ID, branch.ID)
		if err != nil {
			return nil, err
		}
		actingIDs, err := rs.grantRepo.GetFeatureIDs(ctx, actingUserID, branch.ID)
		if err != nil {
			return nil, err
		}
		entitledIDs, err := rs.branchRepo.GetFeatureIDs(ctx, branch.ID)
		if err != nil {
			return nil, err
		}

		targetSet := toSet(targetIDs)
		actingSet := toSet(actingIDs)
		entitledSet := toSet(entitledIDs)

		merged := make([]string, 0, len(actingIDs)+len(targetIDs))
		seen := make(map[string]bool)
		for _, id := range append(append([]string{}, actingIDs...), targetIDs...) {
			if seen[id] || !entitledSet[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, id)
		}

		entry := dto.BranchComparison{
			BranchID:   branch.ID,
			BranchName: branch.Name,
			Groups:     []dto.ComparisonGroup{},
		}
		if len(merged) > 0 {
			feats, err := rs.featureRepo.ListByIDs(ctx, merged)
			if err != nil {
				return nil, err
			}
			entry.Groups = groupComparison(feats, targetSet, actingSet)
		}
		out = append(out, entry)
	}
	return out, nil
}

// scopedBranches devuelve el alcance base: todas las de la compañía para el
// dueño, las asignadas para el resto.
func (rs *Resolver) scopedBranches(ctx context.Context, user *entity.User) ([]*entity.Branch, error) {
	if user.IsOwner && user.HasCompany() {
		return rs.branchRepo.ListByCompany(ctx, *user.CompanyID)
	}
	ids, err := rs.userRepo.GetAssignedBranchIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return rs.branchRepo.ListByIDs(ctx, ids)
}

// groupOperations agrupa features (ya ordenadas por `order`) por su clave de
// grupo derivada, preservando el orden de primera aparición.
func groupOperations(feats []entity.AppFeature) []dto.PermissionGroup {
	groups := []dto.PermissionGroup{}
	index := make(map[string]int)
	for _, f := range feats {
		op := dto.PermissionOperation{ID: f.ID, Name: f.DisplayName()}
		// El tag solo acompaña a las features sueltas; en los demás grupos la
		// operación derivada ya identifica la capacidad.
		if f.Group == feature.GroupFeatures {
			op.Tag = f.Tag
		}
		if i, ok := index[f.Group]; ok {
			groups[i].Operations = append(groups[i].Operations, op)
			continue
		}
		index[f.Group] = len(groups)
		groups = append(groups, dto.PermissionGroup{Name: f.Group, Operations: []dto.PermissionOperation{op}})
	}
	return groups
}

func groupComparison(feats []entity.AppFeature, targetSet, actingSet map[string]bool) []dto.ComparisonGroup {
	groups := []dto.ComparisonGroup{}
	index := make(map[string]int)
	for _, f := range feats {
		allowed := targetSet[f.ID]
		item := dto.ComparisonItem{
			ID:       f.ID,
			Name:     strings.ToLower(f.DisplayName()),
			Allowed:  allowed,
			Disabled: allowed && !actingSet[f.ID],
		}
		if i, ok := index[f.Group]; ok {
			groups[i].Items = append(groups[i].Items, item)
			continue
		}
		index[f.Group] = len(groups)
		groups = append(groups, dto.ComparisonGroup{Name: f.Group, Items: []dto.ComparisonItem{item}})
	}
	return groups
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
