package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/pkg/jwt"
)

// LocalIdentity key de la identidad del token en Fiber Locals.
const LocalIdentity = "identity"

// AuthMiddleware valida el Bearer Token JWT y deja la identidad en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) jwt.Identity {
	v := c.Locals(LocalIdentity)
	if v == nil {
		return jwt.Identity{}
	}
	id, _ := v.(jwt.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	return GetIdentity(c).UserID
}

// RequireAdmin exige dueño o admin. La respuesta es genérica: no revela qué
// flag faltó.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if !id.IsOwner && !id.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no autorizado"})
		}
		return c.Next()
	}
}

// RequireSuperuser exige staff de la plataforma (activación de suscripciones,
// catálogo).
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetIdentity(c).IsSuperuser {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no autorizado"})
		}
		return c.Next()
	}
}
