package usecase

import (
	"context"

	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

// SubscriptionUseCase lecturas de paquetes y del historial del usuario.
type SubscriptionUseCase struct {
	subRepo     repository.SubscriptionRepository
	histRepo    repository.SubscriptionHistoryRepository
	featureRepo repository.FeatureRepository
}

// NewSubscriptionUseCase construye el caso de uso de suscripciones.
func NewSubscriptionUseCase(subRepo repository.SubscriptionRepository, histRepo repository.SubscriptionHistoryRepository, featureRepo repository.FeatureRepository) *SubscriptionUseCase {
	return &SubscriptionUseCase{subRepo: subRepo, histRepo: histRepo, featureRepo: featureRepo}
}

// ListPackages lista los paquetes disponibles con sus features.
func (uc *SubscriptionUseCase) ListPackages(ctx context.Context) ([]dto.SubscriptionResponse, error) {
	subs, err := uc.subRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		featureIDs, err := uc.subRepo.GetFeatureIDs(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		feats, err := uc.featureRepo.ListByIDs(ctx, featureIDs)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.SubscriptionResponse{
			ID:           s.ID,
			PackageName:  s.PackageName,
			PackagePrice: s.PackagePrice,
			Features:     toFeatureResponses(feats),
		})
	}
	return out, nil
}

// GetPackage obtiene un paquete por id.
func (uc *SubscriptionUseCase) GetPackage(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	s, err := uc.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	featureIDs, err := uc.subRepo.GetFeatureIDs(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	feats, err := uc.featureRepo.ListByIDs(ctx, featureIDs)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionResponse{
		ID:           s.ID,
		PackageName:  s.PackageName,
		PackagePrice: s.PackagePrice,
		Features:     toFeatureResponses(feats),
	}, nil
}

// ListHistory lista los eventos de suscripción del usuario.
func (uc *SubscriptionUseCase) ListHistory(ctx context.Context, userID string) ([]dto.SubscriptionHistoryResponse, error) {
	hists, err := uc.histRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubscriptionHistoryResponse, 0, len(hists))
	for _, h := range hists {
		out = append(out, *toHistoryResponse(h))
	}
	return out, nil
}

// GetHistory obtiene un evento del historial del usuario.
func (uc *SubscriptionUseCase) GetHistory(ctx context.Context, userID, id string) (*dto.SubscriptionHistoryResponse, error) {
	h, err := uc.histRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	featureIDs, err := uc.histRepo.GetFeatureIDs(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	h.FeatureIDs = featureIDs
	return toHistoryResponse(h), nil
}

func toHistoryResponse(h *entity.SubscriptionHistory) *dto.SubscriptionHistoryResponse {
	if h == nil {
		return nil
	}
	resp := &dto.SubscriptionHistoryResponse{
		ID:              h.ID,
		UID:             h.UID,
		StartDate:       h.StartDate,
		EndDate:         h.EndDate,
		PackageDuration: h.PackageDuration,
		FeatureIDs:      h.FeatureIDs,
		Paid:            h.Paid,
		Payment:         h.Payment,
		IsActive:        h.IsActive,
		Step:            h.RegistrationStep,
	}
	if h.CompanyID != nil {
		resp.CompanyID = *h.CompanyID
	}
	if h.BranchID != nil {
		resp.BranchID = *h.BranchID
	}
	if h.SubscriptionID != nil {
		resp.SubscriptionID = *h.SubscriptionID
	}
	return resp
}
