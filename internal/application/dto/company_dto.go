package dto

import "time"

// ContactInput contacto de compañía o sucursal.
type ContactInput struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// CreateCompanyRequest entrada para crear compañía dentro del onboarding.
// La sucursal principal se crea implícitamente con los mismos contactos.
type CreateCompanyRequest struct {
	SubscriptionHistoryID string         `json:"subscription_history_id" validate:"required,uuid"`
	Name                  string         `json:"name" validate:"required,min=1,max=200"`
	Subdomain             string         `json:"subdomain" validate:"required,min=1,max=63,lowercase"`
	Address               string         `json:"address" validate:"omitempty,max=300"`
	Contacts              []ContactInput `json:"contacts" validate:"omitempty,dive"`
}

// CompanyResponse salida de una compañía.
type CompanyResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Subdomain string            `json:"subdomain"`
	Address   string            `json:"address,omitempty"`
	Contacts  []ContactResponse `json:"contacts,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// UpdateCompanyRequest entrada para actualizar compañía.
type UpdateCompanyRequest struct {
	Name    string `json:"name" validate:"omitempty,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=300"`
}
