package domain

import "errors"

// Errores de dominio (sin dependencias externas). La capa HTTP los traduce a
// códigos de estado; los casos de uso los envuelven con contexto vía %w.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnauthorized       = errors.New("no autorizado")
	// ErrPermission se expone siempre con mensaje genérico: no debe filtrar
	// qué branches o features existen fuera del alcance del usuario.
	ErrPermission = errors.New("acceso denegado")
)
