package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los casos de uso agregan detalle con fmt.Errorf("%w: ...") y el handler HTTP los mapea con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidFile       = errors.New("archivo inválido")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("error de almacenamiento")
)

// ErrFileTooLarge es un ErrInvalidFile; el handler lo distingue para responder 413.
var ErrFileTooLarge = fmt.Errorf("%w: el archivo supera el tamaño máximo", ErrInvalidFile)
