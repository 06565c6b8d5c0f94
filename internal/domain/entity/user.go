package entity

import "time"

// User representa un usuario del sistema. Pertenece a lo sumo a una Company
// (referencia débil) y tiene un conjunto de branches asignados.
type User struct {
	ID           string
	CompanyID    *string
	Email        string
	PasswordHash string // bcrypt, nunca en texto plano después de persistir
	Name         string

	// OTP de verificación de cuenta (6 dígitos, expira a los 10 minutos).
	OTP          string
	OTPCreatedAt *time.Time
	IsVerified   bool

	IsActive    bool
	IsOwner     bool
	IsAdmin     bool
	IsStaff     bool
	IsSuperuser bool

	// Permisos de creación de un solo uso. Los concede VerifyToken (uno y solo
	// uno según el usuario tenga o no empresa) y los consume la transacción de
	// aprovisionamiento. Nunca deben estar ambos en true.
	TokenValid    bool
	CompanyCreate bool
	BranchCreate  bool

	// AssignedBranchIDs se carga desde la tabla de asociación user_branches.
	AssignedBranchIDs []string

	DateJoined time.Time
	LastLogin  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OTPTTL tiempo de vida del código de verificación por correo.
const OTPTTL = 10 * time.Minute

// OTPExpired informa si el OTP de login/verificación ya venció.
func (u *User) OTPExpired(now time.Time) bool {
	if u.OTPCreatedAt == nil {
		return true
	}
	return now.After(u.OTPCreatedAt.Add(OTPTTL))
}

// HasCompany informa si el usuario ya está vinculado a una empresa.
func (u *User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID != ""
}
