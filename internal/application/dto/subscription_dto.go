package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeatureResponse salida de una entrada del catálogo.
type FeatureResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tag         string          `json:"tag"`
	Group       string          `json:"group"`
	Operation   string          `json:"operation,omitempty"`
	Order       int             `json:"order"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	FeatureType string          `json:"feature_type"`
	Required    string          `json:"required,omitempty"`
}

// CreateFeatureRequest alta de una entrada del catálogo.
type CreateFeatureRequest struct {
	Name        string          `json:"name" validate:"required"`
	Tag         string          `json:"tag" validate:"required"`
	Order       int             `json:"order"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	FeatureType string          `json:"feature_type" validate:"required,oneof=free paid"`
	Required    string          `json:"required"`
	H           int             `json:"h"`
	W           int             `json:"w"`
}

// SubscriptionResponse salida de un paquete.
type SubscriptionResponse struct {
	ID           string            `json:"id"`
	PackageName  string            `json:"package_name"`
	PackagePrice decimal.Decimal   `json:"package_price"`
	Features     []FeatureResponse `json:"features,omitempty"`
}

// CheckoutRequest entrada del checkout: un paquete o una lista de features a
// la carta, exclusivos entre sí.
type CheckoutRequest struct {
	SubscriptionID  string   `json:"subscription_id" validate:"omitempty,uuid"`
	FeatureIDs      []string `json:"feature_ids" validate:"omitempty,dive,uuid"`
	PackageDuration int      `json:"package_duration" validate:"required,min=1,max=36"`
}

// CheckoutResponse salida del checkout.
type CheckoutResponse struct {
	ID      string          `json:"id"`
	UID     string          `json:"uid"`
	Payment decimal.Decimal `json:"payment"`
	Step    string          `json:"registration_step"`
}

// VerifyTokenRequest entrada para canjear el token de activación.
type VerifyTokenRequest struct {
	SubscriptionHistoryID string `json:"subscription_history_id" validate:"required,uuid"`
	Token                 string `json:"token" validate:"required"`
}

// SubscriptionHistoryResponse salida de un evento de suscripción.
type SubscriptionHistoryResponse struct {
	ID              string          `json:"id"`
	UID             string          `json:"uid"`
	CompanyID       string          `json:"company_id,omitempty"`
	BranchID        string          `json:"branch_id,omitempty"`
	SubscriptionID  string          `json:"subscription_id,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	PackageDuration int             `json:"package_duration"`
	FeatureIDs      []string        `json:"feature_ids,omitempty"`
	Paid            bool            `json:"paid"`
	Payment         decimal.Decimal `json:"payment"`
	IsActive        bool            `json:"is_active"`
	Step            string          `json:"registration_step"`
}
