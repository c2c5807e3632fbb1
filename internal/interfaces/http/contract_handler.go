package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/VozDocs-api/internal/application/docgen"
	"github.com/jhoicas/VozDocs-api/internal/application/dto"
)

// ContractHandler maneja generación y CRUD de contratos.
type ContractHandler struct {
	uc  *docgen.ContractUseCase
	pdf *docgen.PDFUseCase
}

// NewContractHandler construye el handler de contratos.
func NewContractHandler(uc *docgen.ContractUseCase, pdf *docgen.PDFUseCase) *ContractHandler {
	return &ContractHandler{uc: uc, pdf: pdf}
}

// Generate godoc
// @Summary      Generar contrato desde un transcript
// @Description  Extrae título, partes y secciones con el LLM. Si las partes
//               tuvieron que completarse por heurística o quedaron marcas de
//               clarificación, la respuesta incluye needsReview=true.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateDocumentRequest  true  "transcript en texto plano"
// @Success      201   {object}  dto.GenerateContractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/contracts/generate [post]
func (h *ContractHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.GenerateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	contract, needsReview, err := h.uc.Generate(c.Context(), userID, in.Transcript)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.GenerateContractResponse{ContractID: contract.ID, ContractData: contract, NeedsReview: needsReview})
}

// List godoc
// @Summary      Listar contratos del usuario
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo por página (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ContractListResponse
// @Router       /api/contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	items, err := h.uc.ListByUser(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ContractListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener contrato por ID
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ContractResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	contract, err := h.uc.GetByID(c.Context(), userID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ContractResponse{Contract: contract})
}

// Update godoc
// @Summary      Editar contrato
// @Description  Recibe el contrato editado como JSON crudo y lo vuelve a pasar
//               por el normalizador conservando identidad y transcript.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "ID del contrato"
// @Param        body  body  map[string]any  true  "contrato editado"
// @Success      200   {object}  dto.ContractResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [put]
func (h *ContractHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	contract, err := h.uc.Update(c.Context(), userID, c.Params("id"), raw)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ContractResponse{Contract: contract})
}

// Regenerate godoc
// @Summary      Regenerar contrato con un transcript nuevo
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del contrato"
// @Param        body  body  dto.GenerateDocumentRequest  true  "transcript nuevo"
// @Success      200   {object}  dto.ContractResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/regenerate [put]
func (h *ContractHandler) Regenerate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.GenerateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	contract, needsReview, err := h.uc.Regenerate(c.Context(), userID, c.Params("id"), in.Transcript)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ContractResponse{Contract: contract, NeedsReview: needsReview})
}

// Delete godoc
// @Summary      Eliminar contrato
// @Tags         contracts
// @Security     Bearer
// @Param        id  path  string  true  "ID del contrato"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [delete]
func (h *ContractHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Descargar el contrato como PDF
// @Tags         contracts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del contrato"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/download [get]
func (h *ContractHandler) DownloadPDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, filename, err := h.pdf.DownloadContractPDF(c.Context(), userID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
