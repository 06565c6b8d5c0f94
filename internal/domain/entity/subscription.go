package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription es un paquete comercial: nombre único, precio cerrado y un
// conjunto fijo de features.
type Subscription struct {
	ID           string
	PackageName  string
	PackagePrice decimal.Decimal
	// FeatureIDs se carga desde la tabla de asociación subscription_features.
	FeatureIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Pasos del onboarding de una SubscriptionHistory (registration_step).
// El avance es estrictamente hacia adelante; "completed" es terminal.
const (
	StepFeaturesSelected = "features_selected"
	StepTokenVerified    = "token_verified"
	StepCompanyCreated   = "company_created"
	StepCompleted        = "completed"
)

// SubscriptionHistory es un evento de compra/selección de un usuario y la
// máquina de estados de su onboarding: selección de features → token validado
// → empresa/branch creado → aprovisionamiento completo.
type SubscriptionHistory struct {
	ID  string
	UID string // referencia corta legible (pkg/token.ShortUID); no es única ni llave

	UserID         string
	CompanyID      *string // se vincula al crear la empresa/branch
	BranchID       *string
	SubscriptionID *string // nil para selección à la carte

	StartDate       time.Time
	EndDate         *time.Time // StartDate + PackageDuration meses
	PackageDuration int        // meses

	// FeatureIDs se carga desde la tabla de asociación subscription_history_features.
	FeatureIDs []string

	Paid       bool
	Payment    decimal.Decimal // suma de precios à la carte, o precio del paquete
	IsActive   bool
	ActivateBy *string

	RegistrationStep string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completed informa si el onboarding de esta suscripción ya es terminal.
func (h *SubscriptionHistory) Completed() bool {
	return h.RegistrationStep == StepCompleted
}

// Bound informa si la suscripción ya quedó atada a una empresa.
func (h *SubscriptionHistory) Bound() bool {
	return h.CompanyID != nil && *h.CompanyID != ""
}

// CompanyOTP es un token de un solo uso que habilita la transición de
// token_verified a "puede crear empresa/branch". Used pasa de false a true con
// compare-and-set: un token consumido jamás vuelve a validar.
type CompanyOTP struct {
	ID    string
	Token string // único
	Used  bool
}
