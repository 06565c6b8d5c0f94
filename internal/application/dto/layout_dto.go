package dto

import "github.com/tamayuz/platform-api/internal/domain/entity"

// LayoutEntryInput posición de una celda al guardar un layout.
type LayoutEntryInput struct {
	H *int `json:"h"`
	W *int `json:"w"`
	X *int `json:"x"`
	Y *int `json:"y"`
}

// SaveLayoutRequest entrada para reemplazar el layout de una sucursal.
// FeatureIDs define el orden; Positions se alinea por índice (opcional).
type SaveLayoutRequest struct {
	FeatureIDs []string           `json:"feature_ids" validate:"required,min=1,dive,uuid"`
	Positions  []LayoutEntryInput `json:"positions" validate:"omitempty,dive"`
}

// LayoutResponse salida del layout guardado de una sucursal.
type LayoutResponse struct {
	BranchID string               `json:"branch_id"`
	Position []entity.LayoutEntry `json:"position"`
}
