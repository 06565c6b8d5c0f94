package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/domain/layout"
)

// ProvisionUseCase materializa la compañía o sucursal que una suscripción
// verificada financia: entidad + contactos + entitlements + grant + layout +
// avance de paso, todo dentro de una sola transacción. Un fallo en cualquier
// punto (nombre duplicado, contacto duplicado, permiso ausente) revierte todo.
type ProvisionUseCase struct {
	tx TxRunner
}

// NewProvisionUseCase construye el caso de uso de provisión.
func NewProvisionUseCase(tx TxRunner) *ProvisionUseCase {
	return &ProvisionUseCase{tx: tx}
}

// CreateCompany crea la compañía y su sucursal principal, consume el permiso
// company_create y completa la suscripción contra la sucursal principal.
func (uc *ProvisionUseCase) CreateCompany(ctx context.Context, userID string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	var out *dto.CompanyResponse
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if !user.CompanyCreate {
			return domain.ErrPermission
		}

		hist, err := r.Histories.GetByIDAndUser(ctx, in.SubscriptionHistoryID, userID)
		if err != nil {
			return err
		}
		if hist == nil {
			return domain.ErrNotFound
		}
		if hist.RegistrationStep != entity.StepTokenVerified {
			return domain.ErrValidation
		}
		if hist.Bound() {
			return fmt.Errorf("%w: la suscripción ya está atada a una empresa", domain.ErrConflict)
		}

		if existing, err := r.Companies.GetByName(ctx, in.Name); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("%w: nombre de compañía ya registrado", domain.ErrValidation)
		}
		if existing, err := r.Companies.GetBySubdomain(ctx, in.Subdomain); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("%w: subdominio ya registrado", domain.ErrValidation)
		}

		now := time.Now()
		company := &entity.Company{
			ID:        uuid.New().String(),
			Name:      in.Name,
			Subdomain: in.Subdomain,
			Address:   in.Address,
			CreatedBy: &user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Companies.Create(ctx, company); err != nil {
			return err
		}

		branch := &entity.Branch{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			CreatedBy: &user.ID,
			Name:      entity.MainBranchName,
			Location:  in.Address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Branches.Create(ctx, branch); err != nil {
			return err
		}

		contacts, err := createContacts(ctx, r, company.ID, branch.ID, in.Contacts)
		if err != nil {
			return err
		}

		user.CompanyID = &company.ID
		user.IsOwner = true
		user.CompanyCreate = false
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		if err := r.Users.SetAssignedBranches(ctx, user.ID, []string{branch.ID}); err != nil {
			return err
		}

		if err := uc.completeSubscription(ctx, r, hist, user.ID, company.ID, branch.ID); err != nil {
			return err
		}

		out = &dto.CompanyResponse{
			ID:        company.ID,
			Name:      company.Name,
			Subdomain: company.Subdomain,
			Address:   company.Address,
			Contacts:  contacts,
			CreatedAt: company.CreatedAt,
			UpdatedAt: company.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBranch crea una sucursal adicional para la compañía del usuario,
// consume el permiso branch_create y completa la suscripción contra ella.
func (uc *ProvisionUseCase) CreateBranch(ctx context.Context, userID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	var out *dto.BranchResponse
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if !user.HasCompany() {
			return domain.ErrValidation
		}
		if !user.BranchCreate {
			return domain.ErrPermission
		}

		hist, err := r.Histories.GetByIDAndUser(ctx, in.SubscriptionHistoryID, userID)
		if err != nil {
			return err
		}
		if hist == nil {
			return domain.ErrNotFound
		}
		if hist.RegistrationStep != entity.StepTokenVerified {
			return domain.ErrValidation
		}
		if hist.Bound() {
			return fmt.Errorf("%w: la suscripción ya está atada a una empresa", domain.ErrConflict)
		}

		companyID := *user.CompanyID
		if existing, err := r.Branches.GetByCompanyAndName(ctx, companyID, in.Name); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("%w: nombre de sucursal ya registrado", domain.ErrValidation)
		}

		now := time.Now()
		branch := &entity.Branch{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			CreatedBy: &user.ID,
			Name:      in.Name,
			Location:  in.Location,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Branches.Create(ctx, branch); err != nil {
			return err
		}

		contacts, err := createContacts(ctx, r, companyID, branch.ID, in.Contacts)
		if err != nil {
			return err
		}

		assigned, err := r.Users.GetAssignedBranchIDs(ctx, user.ID)
		if err != nil {
			return err
		}
		if err := r.Users.SetAssignedBranches(ctx, user.ID, append(assigned, branch.ID)); err != nil {
			return err
		}

		user.BranchCreate = false
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}

		if err := uc.completeSubscription(ctx, r, hist, user.ID, companyID, branch.ID); err != nil {
			return err
		}

		out = &dto.BranchResponse{
			ID:        branch.ID,
			CompanyID: branch.CompanyID,
			Name:      branch.Name,
			Location:  branch.Location,
			Contacts:  contacts,
			CreatedAt: branch.CreatedAt,
			UpdatedAt: branch.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// completeSubscription ata la suscripción a la entidad recién creada, fija
// las fechas de vigencia, materializa entitlements, grant y layout del dueño
// y marca el paso terminal.
func (uc *ProvisionUseCase) completeSubscription(ctx context.Context, r TxRepos, hist *entity.SubscriptionHistory, userID, companyID, branchID string) error {
	now := time.Now()
	end := now.AddDate(0, hist.PackageDuration, 0)
	hist.CompanyID = &companyID
	hist.BranchID = &branchID
	hist.StartDate = now
	hist.EndDate = &end
	hist.RegistrationStep = entity.StepCompanyCreated
	if err := r.Histories.Update(ctx, hist); err != nil {
		return err
	}

	selectedIDs, err := r.Histories.GetFeatureIDs(ctx, hist.ID)
	if err != nil {
		return err
	}
	if err := r.Branches.SetFeatures(ctx, branchID, selectedIDs); err != nil {
		return err
	}

	catalog, err := r.Features.ListAll(ctx)
	if err != nil {
		return err
	}
	selected, err := r.Features.ListByIDs(ctx, selectedIDs)
	if err != nil {
		return err
	}
	expanded := feature.Expand(selected, catalog)
	if err := r.Grants.Upsert(ctx, userID, branchID, feature.IDs(expanded)); err != nil {
		return err
	}

	// El layout del dueño se arma con las features seleccionadas; la celda
	// camera_live se inyecta sola cuando hace falta.
	entries := layout.Build(selected, nil, feature.IndexByTag(catalog))
	if err := r.Layouts.Upsert(ctx, &entity.UserBranchLayout{
		ID:       uuid.New().String(),
		UserID:   userID,
		BranchID: branchID,
		Position: entries,
	}); err != nil {
		return err
	}

	hist.RegistrationStep = entity.StepCompleted
	return r.Histories.Update(ctx, hist)
}

func createContacts(ctx context.Context, r TxRepos, companyID, branchID string, inputs []dto.ContactInput) ([]dto.ContactResponse, error) {
	out := make([]dto.ContactResponse, 0, len(inputs))
	for _, c := range inputs {
		if c.Email == "" && c.PhoneNumber == "" {
			continue
		}
		contact := &entity.Contact{
			ID:          uuid.New().String(),
			CompanyID:   &companyID,
			BranchID:    &branchID,
			Email:       c.Email,
			PhoneNumber: c.PhoneNumber,
		}
		if err := r.Contacts.Create(ctx, contact); err != nil {
			return nil, err
		}
		out = append(out, dto.ContactResponse{ID: contact.ID, Email: contact.Email, PhoneNumber: contact.PhoneNumber})
	}
	return out, nil
}
