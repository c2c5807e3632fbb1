package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrExtraction: la llamada al LLM falló o su respuesta no es JSON parseable.
	// Nunca se resuelve con defaults; se propaga como fallo de generación.
	ErrExtraction = errors.New("extracción LLM fallida")

	// ErrRender: el generador de PDF no pudo producir el documento.
	ErrRender = errors.New("generación de PDF fallida")
)
