package dto

import "time"

// CreateBranchRequest entrada para crear sucursal dentro del onboarding.
type CreateBranchRequest struct {
	SubscriptionHistoryID string         `json:"subscription_history_id" validate:"required,uuid"`
	Name                  string         `json:"name" validate:"required,min=1,max=200"`
	Location              string         `json:"location" validate:"omitempty,max=300"`
	Contacts              []ContactInput `json:"contacts" validate:"omitempty,dive"`
}

// UpdateBranchRequest entrada para actualizar sucursal.
type UpdateBranchRequest struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=200"`
	Location string `json:"location" validate:"omitempty,max=300"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID        string            `json:"id"`
	CompanyID string            `json:"company_id"`
	Name      string            `json:"name"`
	Location  string            `json:"location,omitempty"`
	Contacts  []ContactResponse `json:"contacts,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
