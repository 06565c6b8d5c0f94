package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
	"github.com/tamayuz/platform-api/internal/application/ports"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/repository"
	"github.com/tamayuz/platform-api/pkg/jwt"
	"github.com/tamayuz/platform-api/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro con OTP por correo,
// login, cambio y recuperación de password.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tx       onboarding.TxRunner
	mailer   ports.Mailer
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tx onboarding.TxRunner, mailer ports.Mailer, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tx: tx, mailer: mailer, jwtCfg: jwtCfg}
}

// Register crea un usuario sin verificar y envía el OTP de 6 dígitos por
// correo. Usuario y correo son una sola unidad: si el envío falla, el usuario
// no queda persistido.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	otp, err := token.OTPDigits(6)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		OTP:          otp,
		OTPCreatedAt: &now,
		IsActive:     true,
		DateJoined:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(r onboarding.TxRepos) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return uc.mailer.Send(ctx, user.Email, ports.MailSignupOTP, map[string]string{
			"name": user.Name,
			"otp":  otp,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{ID: user.ID, Email: user.Email}, nil
}

// Login verifica email/password, exige cuenta verificada y activa, registra
// el last_login y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsVerified || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}

	user.LastLogin = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	tok, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:      user.ID,
		CompanyID:   companyID,
		IsOwner:     user.IsOwner,
		IsAdmin:     user.IsAdmin,
		IsSuperuser: user.IsSuperuser,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: tok, User: *ToUserResponse(user)}, nil
}

// VerifyOTP confirma el código de registro. Vencido el TTL solo queda pedir
// reenvío.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.IsVerified {
		return nil
	}
	if user.OTP == "" || user.OTP != in.OTP || user.OTPExpired(time.Now()) {
		return domain.ErrValidation
	}
	user.IsVerified = true
	user.OTP = ""
	user.OTPCreatedAt = nil
	return uc.userRepo.Update(ctx, user)
}

// ResendOTP genera un código nuevo y lo envía al correo registrado.
func (uc *AuthUseCase) ResendOTP(ctx context.Context, in dto.ResendOTPRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.IsVerified {
		return domain.ErrValidation
	}
	otp, err := token.OTPDigits(6)
	if err != nil {
		return err
	}
	now := time.Now()
	user.OTP = otp
	user.OTPCreatedAt = &now
	return uc.tx.Run(ctx, func(r onboarding.TxRepos) error {
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return uc.mailer.Send(ctx, user.Email, ports.MailSignupOTP, map[string]string{
			"name": user.Name,
			"otp":  otp,
		})
	})
}

// ChangePassword cambia el password de un usuario autenticado verificando el
// actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return uc.userRepo.Update(ctx, user)
}

// ForgotPassword deja un código de recuperación y lo envía por correo. El
// código reutiliza el campo OTP del usuario con el mismo TTL de 10 minutos.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	otp, err := token.OTPDigits(6)
	if err != nil {
		return err
	}
	now := time.Now()
	user.OTP = otp
	user.OTPCreatedAt = &now
	return uc.tx.Run(ctx, func(r onboarding.TxRepos) error {
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return uc.mailer.Send(ctx, user.Email, ports.MailResetPassword, map[string]string{
			"name": user.Name,
			"otp":  otp,
		})
	})
}

// ResetPassword confirma la recuperación con el código enviado.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.OTP == "" || user.OTP != in.OTP || user.OTPExpired(time.Now()) {
		return domain.ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.OTP = ""
	user.OTPCreatedAt = nil
	return uc.userRepo.Update(ctx, user)
}

// ToUserResponse mapea la entidad a su DTO de salida (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsOwner:   u.IsOwner,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		Verified:  u.IsVerified,
		Branches:  u.AssignedBranchIDs,
		CreatedAt: u.CreatedAt,
	}
	if u.CompanyID != nil {
		resp.CompanyID = *u.CompanyID
	}
	if !u.LastLogin.IsZero() {
		last := u.LastLogin
		resp.LastLogin = &last
	}
	return resp
}
