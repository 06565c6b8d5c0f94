package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Se añaden los flags de capacidad (owner/admin/superuser) para que los middlewares
// puedan tomar decisiones sin consultar la DB en cada request.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	CompanyID   string `json:"company_id,omitempty"` // vacío si el usuario aún no tiene empresa
	IsOwner     bool   `json:"is_owner"`
	IsAdmin     bool   `json:"is_admin"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Identity es el resultado de parsear un token válido.
type Identity struct {
	UserID      string
	CompanyID   string
	IsOwner     bool
	IsAdmin     bool
	IsSuperuser bool
}

// Generate genera un token JWT firmado con la identidad del usuario.
func Generate(secret string, id Identity, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:      id.UserID,
		CompanyID:   id.CompanyID,
		IsOwner:     id.IsOwner,
		IsAdmin:     id.IsAdmin,
		IsSuperuser: id.IsSuperuser,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	return Identity{
		UserID:      claims.UserID,
		CompanyID:   claims.CompanyID,
		IsOwner:     claims.IsOwner,
		IsAdmin:     claims.IsAdmin,
		IsSuperuser: claims.IsSuperuser,
	}, nil
}
