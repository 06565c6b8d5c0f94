package dto

import "time"

// BranchGrantInput features por sucursal para un usuario administrado.
type BranchGrantInput struct {
	BranchID   string   `json:"branch_id" validate:"required,uuid"`
	FeatureIDs []string `json:"feature_ids" validate:"required,dive,uuid"`
}

// CreateUserRequest entrada para crear un usuario del equipo (password en
// texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string             `json:"email" validate:"required,email"`
	Password string             `json:"password" validate:"required,min=8"`
	Name     string             `json:"name" validate:"required,min=1,max=200"`
	IsAdmin  bool               `json:"is_admin"`
	Grants   []BranchGrantInput `json:"grants" validate:"required,min=1,dive"`
}

// UpdateUserRequest entrada para actualizar un usuario del equipo. Grants nil
// significa "no tocar los permisos"; vacío los reemplaza por nada.
type UpdateUserRequest struct {
	Name     string             `json:"name" validate:"omitempty,min=1,max=200"`
	Password string             `json:"password" validate:"omitempty,min=8"`
	IsAdmin  *bool              `json:"is_admin"`
	IsActive *bool              `json:"is_active"`
	Grants   []BranchGrantInput `json:"grants" validate:"omitempty,dive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"company_id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	IsOwner   bool       `json:"is_owner"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  bool       `json:"is_active"`
	Verified  bool       `json:"is_verified"`
	Branches  []string   `json:"branches,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
