package entity

import "time"

// LayoutEntry es una celda del grid del dashboard tal cual se persiste y se
// entrega al frontend: {id, tag, h, w, x, y}. X/Y nulos significan "posición
// automática" (la feature no tiene posición por defecto).
type LayoutEntry struct {
	ID  string `json:"id"`
	Tag string `json:"tag"`
	H   int    `json:"h"`
	W   int    `json:"w"`
	X   *int   `json:"x"`
	Y   *int   `json:"y"`
}

// UserBranchLayout es el layout de UI de un usuario en un branch.
// Único por (user, branch); se reemplaza completo en cada re-asignación.
type UserBranchLayout struct {
	ID        string
	UserID    string
	BranchID  string
	Position  []LayoutEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserBranchGrant es el grant efectivo: el conjunto de features que un usuario
// puede usar en un branch. Único por (user, branch); se re-deriva completo en
// cada actualización de asignaciones, nunca se parchea feature a feature.
type UserBranchGrant struct {
	ID         string
	UserID     string
	BranchID   string
	FeatureIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
