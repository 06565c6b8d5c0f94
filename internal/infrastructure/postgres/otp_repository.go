package postgres

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

// OTPRepo implementación del puerto OTPRepository sobre PostgreSQL
// (usable con pool o tx).
type OTPRepo struct {
	q Querier
}

// NewOTPRepository construye el adaptador de tokens de un solo uso. Pasar pool o tx (Querier).
func NewOTPRepository(q Querier) *OTPRepo {
	return &OTPRepo{q: q}
}

// Create persiste un token sin usar.
func (r *OTPRepo) Create(ctx context.Context, otp *entity.CompanyOTP) error {
	query := `INSERT INTO company_otps (id, token, used, created_at) VALUES ($1, $2, false, now())`
	if _, err := r.q.Exec(ctx, query, otp.ID, otp.Token); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// Consume marca el token como usado con un UPDATE condicional (compare-and-set
// used=false→true). Dos requests concurrentes con el mismo token: solo uno ve
// RowsAffected=1; el otro recibe ErrNotFound, igual que un token inexistente.
func (r *OTPRepo) Consume(ctx context.Context, token string) error {
	query := `UPDATE company_otps SET used = true WHERE token = $1 AND used = false`
	cmd, err := r.q.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
