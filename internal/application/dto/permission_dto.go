package dto

// PermissionOperation una operación dentro de un grupo de permisos.
type PermissionOperation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

// PermissionGroup grupo de operaciones bajo una misma clave.
type PermissionGroup struct {
	Name       string                `json:"name"`
	Operations []PermissionOperation `json:"operations"`
}

// BranchPermissions árbol de permisos efectivos de una sucursal (vista propia).
type BranchPermissions struct {
	BranchID   string            `json:"branch_id"`
	BranchName string            `json:"branch_name"`
	Groups     []PermissionGroup `json:"groups"`
}

// ComparisonItem una feature en la vista de comparación admin→usuario.
type ComparisonItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Allowed  bool   `json:"allowed"`
	Disabled bool   `json:"disabled"`
}

// ComparisonGroup grupo de items de comparación.
type ComparisonGroup struct {
	Name  string           `json:"name"`
	Items []ComparisonItem `json:"items"`
}

// BranchComparison vista de comparación por sucursal. Error marca una
// sucursal inexistente sin abortar el lote.
type BranchComparison struct {
	BranchID   string            `json:"branch_id"`
	BranchName string            `json:"branch_name,omitempty"`
	Error      string            `json:"error,omitempty"`
	Groups     []ComparisonGroup `json:"groups"`
}

// ComparisonRequest entrada de la vista de comparación.
type ComparisonRequest struct {
	UserID    string   `json:"user_id" validate:"required,uuid"`
	BranchIDs []string `json:"branch_ids" validate:"required,min=1"`
}
