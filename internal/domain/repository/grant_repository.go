package repository

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// GrantRepository define el puerto de los permisos por usuario y sucursal.
type GrantRepository interface {
	// Upsert reemplaza el conjunto de features del par (usuario, sucursal).
	// La implementación sincroniza por diferencia: agrega los nuevos y quita
	// los que ya no aparecen, sin recrear la fila.
	Upsert(ctx context.Context, userID, branchID string, featureIDs []string) error
	// GetFeatureIDs devuelve vacío (no error) cuando el par no tiene grant.
	GetFeatureIDs(ctx context.Context, userID, branchID string) ([]string, error)
	// MapByUser devuelve branchID → featureIDs para todas las sucursales del usuario.
	MapByUser(ctx context.Context, userID string) (map[string][]string, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// LayoutRepository define el puerto de los layouts de tablero por usuario y sucursal.
type LayoutRepository interface {
	Upsert(ctx context.Context, layout *entity.UserBranchLayout) error
	// Get devuelve (nil, nil) cuando el par no tiene layout guardado.
	Get(ctx context.Context, userID, branchID string) (*entity.UserBranchLayout, error)
	DeleteByUser(ctx context.Context, userID string) error
}
