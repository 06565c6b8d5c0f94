package repository

import (
	"context"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error

	// ListByBranches lista los usuarios asignados a cualquiera de los branches,
	// excluyendo el email dado (el propio solicitante), sin duplicados.
	ListByBranches(ctx context.Context, branchIDs []string, excludeEmail string) ([]*entity.User, error)

	// SetAssignedBranches reemplaza la asociación user_branches completa.
	SetAssignedBranches(ctx context.Context, userID string, branchIDs []string) error
	GetAssignedBranchIDs(ctx context.Context, userID string) ([]string, error)
}
