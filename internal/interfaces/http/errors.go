package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/VozDocs-api/internal/application/dto"
	"github.com/jhoicas/VozDocs-api/internal/domain"
)

// domainError mapea errores de dominio a respuestas HTTP. Los use cases
// envuelven los sentinelas con %w, por eso se compara con errors.Is.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el documento pertenece a otro usuario"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrExtraction):
		// El LLM falló o devolvió algo no parseable. Mensaje genérico: el
		// caller conserva su transcript y puede reintentar.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXTRACTION_FAILED", Message: "no se pudo generar el documento; intenta de nuevo"})
	case errors.Is(err, domain.ErrRender):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "RENDER_FAILED", Message: "no se pudo generar el PDF"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
