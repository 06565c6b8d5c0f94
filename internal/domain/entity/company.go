package entity

import "time"

// Company representa una organización/tenant del sistema. El nombre y el
// subdominio son únicos a nivel global.
type Company struct {
	ID        string
	Name      string
	Subdomain string
	Address   string
	CreatedBy *string // referencia débil: nil si el usuario fue eliminado
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch pertenece a exactamente una Company (borrado en cascada).
// (company_id, name) es único. FeatureIDs es el entitlement del branch:
// el conjunto de features que la suscripción le habilitó.
type Branch struct {
	ID        string
	CompanyID string
	CreatedBy *string
	Name      string
	Location  string
	// FeatureIDs se carga desde la tabla de asociación branch_features.
	FeatureIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MainBranchName es el branch implícito creado junto con cada empresa.
const MainBranchName = "main_branch"

// Contact es un contacto de empresa/branch. Email y teléfono son únicos;
// las referencias a Company y Branch son débiles (SET NULL al borrar).
type Contact struct {
	ID          string
	CompanyID   *string
	BranchID    *string
	Email       string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
