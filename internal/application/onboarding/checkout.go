package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/ports"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/pkg/token"
)

// CheckoutUseCase maneja la compra de paquetes/features y la verificación del
// token de activación. Cada operación corre dentro de una transacción: el
// registro de suscripción y el correo asociado existen juntos o no existen.
type CheckoutUseCase struct {
	tx     TxRunner
	mailer ports.Mailer
}

// NewCheckoutUseCase construye el caso de uso de checkout.
func NewCheckoutUseCase(tx TxRunner, mailer ports.Mailer) *CheckoutUseCase {
	return &CheckoutUseCase{tx: tx, mailer: mailer}
}

// Checkout crea un SubscriptionHistory en features_selected. El pago es la
// suma de los precios seleccionados, o el precio del paquete si se eligió un
// paquete completo. Si el correo subscription_info falla, no queda fila.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, userID string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if (in.SubscriptionID == "") == (len(in.FeatureIDs) == 0) {
		return nil, domain.ErrValidation // paquete o features a la carta, exclusivos
	}

	var out *dto.CheckoutResponse
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		var (
			featureIDs     []string
			payment        decimal.Decimal
			subscriptionID *string
			packageName    string
		)
		if in.SubscriptionID != "" {
			sub, err := r.Subscriptions.GetByID(ctx, in.SubscriptionID)
			if err != nil {
				return err
			}
			if sub == nil {
				return domain.ErrNotFound
			}
			featureIDs, err = r.Subscriptions.GetFeatureIDs(ctx, sub.ID)
			if err != nil {
				return err
			}
			payment = sub.PackagePrice
			subscriptionID = &sub.ID
			packageName = sub.PackageName
		} else {
			features, err := r.Features.ListByIDs(ctx, in.FeatureIDs)
			if err != nil {
				return err
			}
			if len(features) == 0 {
				return domain.ErrValidation
			}
			payment = decimal.Zero
			for _, f := range features {
				featureIDs = append(featureIDs, f.ID)
				payment = payment.Add(f.Price)
			}
			packageName = "custom"
		}

		now := time.Now()
		hist := &entity.SubscriptionHistory{
			ID:               uuid.New().String(),
			UserID:           userID,
			SubscriptionID:   subscriptionID,
			StartDate:        now,
			PackageDuration:  in.PackageDuration,
			FeatureIDs:       featureIDs,
			Payment:          payment,
			RegistrationStep: entity.StepFeaturesSelected,
		}
		hist.UID = token.ShortUID(hist.ID)

		if err := r.Histories.Create(ctx, hist); err != nil {
			return err
		}
		if err := r.Histories.SetFeatures(ctx, hist.ID, featureIDs); err != nil {
			return err
		}
		if err := uc.mailer.Send(ctx, user.Email, ports.MailSubscriptionInfo, map[string]string{
			"name":    user.Name,
			"uid":     hist.UID,
			"package": packageName,
			"payment": payment.StringFixed(2),
		}); err != nil {
			return err
		}

		out = &dto.CheckoutResponse{
			ID:      hist.ID,
			UID:     hist.UID,
			Payment: payment,
			Step:    hist.RegistrationStep,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Activate marca la suscripción como pagada, persiste el CompanyOTP y envía
// el token de activación por correo, todo en una transacción. Solo el staff
// de la plataforma activa suscripciones.
func (uc *CheckoutUseCase) Activate(ctx context.Context, actorID, historyID string) error {
	return uc.tx.Run(ctx, func(r TxRepos) error {
		actor, err := r.Users.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor == nil || !actor.IsSuperuser {
			return domain.ErrPermission
		}

		hist, err := r.Histories.GetByID(ctx, historyID)
		if err != nil {
			return err
		}
		if hist == nil {
			return domain.ErrNotFound
		}
		if hist.Paid {
			return domain.ErrConflict
		}
		owner, err := r.Users.GetByID(ctx, hist.UserID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.ErrUserNotFound
		}

		hist.Paid = true
		hist.IsActive = true
		hist.ActivateBy = &actor.ID
		if err := r.Histories.Update(ctx, hist); err != nil {
			return err
		}

		code, err := token.Random(12)
		if err != nil {
			return err
		}
		otp := &entity.CompanyOTP{
			ID:    uuid.New().String(),
			Token: code,
		}
		if err := r.OTPs.Create(ctx, otp); err != nil {
			return err
		}
		return uc.mailer.Send(ctx, owner.Email, ports.MailSubscriptionToken, map[string]string{
			"name":  owner.Name,
			"token": otp.Token,
			"uid":   hist.UID,
		})
	})
}

// VerifyToken consume el CompanyOTP (un solo uso) y otorga exactamente un
// permiso de creación: company_create si el usuario aún no tiene compañía,
// branch_create en caso contrario. Avanza el paso a token_verified. Presentar
// un token ya usado falla con ErrNotFound sin mutar nada.
func (uc *CheckoutUseCase) VerifyToken(ctx context.Context, userID string, in dto.VerifyTokenRequest) (*dto.SubscriptionHistoryResponse, error) {
	var out *dto.SubscriptionHistoryResponse
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		hist, err := r.Histories.GetByIDAndUser(ctx, in.SubscriptionHistoryID, userID)
		if err != nil {
			return err
		}
		if hist == nil {
			return domain.ErrNotFound
		}
		if hist.Completed() || !hist.Paid {
			return domain.ErrValidation
		}

		if err := r.OTPs.Consume(ctx, in.Token); err != nil {
			return err
		}

		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if user.HasCompany() {
			user.BranchCreate = true
		} else {
			user.CompanyCreate = true
		}
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}

		hist.RegistrationStep = entity.StepTokenVerified
		if err := r.Histories.Update(ctx, hist); err != nil {
			return err
		}
		out = toHistoryResponse(hist)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
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
