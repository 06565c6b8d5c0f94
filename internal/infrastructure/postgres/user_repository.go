package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL
// (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, company_id, email, password_hash, name, otp, otp_created_at, is_verified,
		is_active, is_owner, is_admin, is_staff, is_superuser, company_create, branch_create,
		date_joined, last_login, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.CompanyID, user.Email, user.PasswordHash, user.Name,
		user.OTP, user.OTPCreatedAt, user.IsVerified,
		user.IsActive, user.IsOwner, user.IsAdmin, user.IsStaff, user.IsSuperuser,
		user.CompanyCreate, user.BranchCreate,
		user.DateJoined, user.LastLogin, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByEmail obtiene un usuario por email (único global).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.Name,
		&u.OTP, &u.OTPCreatedAt, &u.IsVerified,
		&u.IsActive, &u.IsOwner, &u.IsAdmin, &u.IsStaff, &u.IsSuperuser,
		&u.CompanyCreate, &u.BranchCreate,
		&u.DateJoined, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET
			company_id = $2, email = $3, password_hash = $4, name = $5,
			otp = $6, otp_created_at = $7, is_verified = $8,
			is_active = $9, is_owner = $10, is_admin = $11, is_staff = $12, is_superuser = $13,
			company_create = $14, branch_create = $15, last_login = $16, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.CompanyID, user.Email, user.PasswordHash, user.Name,
		user.OTP, user.OTPCreatedAt, user.IsVerified,
		user.IsActive, user.IsOwner, user.IsAdmin, user.IsStaff, user.IsSuperuser,
		user.CompanyCreate, user.BranchCreate, user.LastLogin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete elimina un usuario. La asociación user_branches cae en cascada.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListByBranches lista los usuarios asignados a cualquiera de los branches,
// excluyendo el email dado (el propio solicitante), sin duplicados.
func (r *UserRepo) ListByBranches(ctx context.Context, branchIDs []string, excludeEmail string) ([]*entity.User, error) {
	query := `
		SELECT DISTINCT ` + userColumns + `
		FROM users u
		JOIN user_branches ub ON ub.user_id = u.id
		WHERE ub.branch_id = ANY($1) AND u.email != $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, branchIDs, excludeEmail)
	if err != nil {
		return nil, fmt.Errorf("list users by branches: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.Name,
			&u.OTP, &u.OTPCreatedAt, &u.IsVerified,
			&u.IsActive, &u.IsOwner, &u.IsAdmin, &u.IsStaff, &u.IsSuperuser,
			&u.CompanyCreate, &u.BranchCreate,
			&u.DateJoined, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// SetAssignedBranches reemplaza la asociación user_branches sincronizando por
// diferencia.
func (r *UserRepo) SetAssignedBranches(ctx context.Context, userID string, branchIDs []string) error {
	prune := `DELETE FROM user_branches WHERE user_id = $1 AND branch_id != ALL($2)`
	if _, err := r.q.Exec(ctx, prune, userID, branchIDs); err != nil {
		return fmt.Errorf("prune user branches: %w", err)
	}
	insert := `
		INSERT INTO user_branches (user_id, branch_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (user_id, branch_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, userID, branchIDs); err != nil {
		return fmt.Errorf("set user branches: %w", err)
	}
	return nil
}

// GetAssignedBranchIDs devuelve las sucursales asignadas al usuario.
func (r *UserRepo) GetAssignedBranchIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT branch_id FROM user_branches WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("get user branches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user branch: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
