package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/VozDocs-api/internal/application/dto"
	"github.com/jhoicas/VozDocs-api/internal/application/usecase"
)

// UserHandler maneja el contexto de negocio del usuario: perfil del emisor,
// clientes frecuentes y servicios habituales.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuario.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// GetBusinessContext godoc
// @Summary      Obtener contexto de negocio
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessContextResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-context [get]
func (h *UserHandler) GetBusinessContext(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	biz, err := h.uc.GetBusinessContext(userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.BusinessContextResponse{BusinessContext: *biz})
}

// UpdateBusinessContext godoc
// @Summary      Actualizar perfil del emisor
// @Description  Actualiza los datos fijos que enriquecen los prompts de
//               generación: empresa, contacto, moneda y términos de pago.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateBusinessContextRequest  true  "campos del perfil"
// @Success      200   {object}  dto.BusinessContextResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/business-context [put]
func (h *UserHandler) UpdateBusinessContext(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateBusinessContextRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	biz, err := h.uc.UpdateBusinessContext(userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.BusinessContextResponse{BusinessContext: *biz})
}

// AddFrequentClient godoc
// @Summary      Registrar cliente frecuente
// @Description  Deduplica por nombre (case-insensitive) y conserva como mucho
//               los 10 clientes usados más recientemente.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FrequentClientRequest  true  "name (obligatorio), company, email"
// @Success      200   {object}  dto.BusinessContextResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/business-context/frequent-clients [post]
func (h *UserHandler) AddFrequentClient(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.FrequentClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	biz, err := h.uc.AddFrequentClient(userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.BusinessContextResponse{BusinessContext: *biz})
}

// RemoveFrequentClient godoc
// @Summary      Eliminar cliente frecuente por nombre
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "nombre del cliente"
// @Success      200   {object}  dto.BusinessContextResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/business-context/frequent-clients/{name} [delete]
func (h *UserHandler) RemoveFrequentClient(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	biz, err := h.uc.RemoveFrequentClient(userID, pathParam(c, "name"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.BusinessContextResponse{BusinessContext: *biz})
}

// AddCommonService godoc
// @Summary      Registrar servicio habitual
// @Description  Deduplica por descripción (case-insensitive) y conserva como
//               mucho los 15 servicios usados más recientemente.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommonServiceRequest  true  "description (obligatorio) y rate"
// @Success      200   {object}  dto.BusinessContextResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/business-context/common-services [post]
func (h *UserHandler) AddCommonService(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CommonServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	biz, err := h.uc.AddCommonService(userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.BusinessContextResponse{BusinessContext: *biz})
}

// RemoveCommonService godoc
// @Summary      Eliminar servicio habitual por descripción
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        description  path  string  true  "descripción del servicio"
// @Success      200  {object}  dto.BusinessContextResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-context/common-services/{description} [delete]
func (h *UserHandler) RemoveCommonService(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	biz, err := h.uc.RemoveCommonService(userID, pathParam(c, "description"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.BusinessContextResponse{BusinessContext: *biz})
}

// pathParam decodifica un parámetro de ruta (llega URL-escaped, p. ej. espacios).
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
