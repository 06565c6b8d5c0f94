package usecase

import (
	"context"
	"time"

	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// CompanyUseCase lectura y edición de la compañía del actor. El alta siempre
// pasa por el onboarding.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
}

// NewCompanyUseCase construye el caso de uso de compañía.
func NewCompanyUseCase(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, userRepo: userRepo}
}

// Get obtiene la compañía a la que pertenece el actor.
func (uc *CompanyUseCase) Get(ctx context.Context, actingUserID string) (*dto.CompanyResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.HasCompany() {
		return nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, *user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Subdomain: company.Subdomain,
		Address:   company.Address,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}, nil
}

// Update edita la compañía. Solo el dueño.
func (uc *CompanyUseCase) Update(ctx context.Context, actingUserID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsOwner || !user.HasCompany() {
		return nil, domain.ErrPermission
	}
	company, err := uc.companyRepo.GetByID(ctx, *user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" && in.Name != company.Name {
		if dup, err := uc.companyRepo.GetByName(ctx, in.Name); err != nil {
			return nil, err
		} else if dup != nil {
			return nil, domain.ErrConflict
		}
		company.Name = in.Name
	}
	if in.Address != "" {
		company.Address = in.Address
	}
	company.UpdatedBy = &user.ID
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return &dto.CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Subdomain: company.Subdomain,
		Address:   company.Address,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}, nil
}
