package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/VozDocs-api/internal/application/dto"
	"github.com/jhoicas/VozDocs-api/internal/application/ports"
)

// Tamaño máximo del audio aceptado (25 MB, el límite de Whisper).
const maxAudioBytes = 25 * 1024 * 1024

// TranscribeHandler convierte audio subido en texto vía el servicio de
// transcripción configurado.
type TranscribeHandler struct {
	svc ports.TranscriptionService
}

// NewTranscribeHandler construye el handler de transcripción.
func NewTranscribeHandler(svc ports.TranscriptionService) *TranscribeHandler {
	return &TranscribeHandler{svc: svc}
}

// Transcribe godoc
// @Summary      Transcribir un archivo de audio
// @Description  Recibe el audio como multipart (campo "audio") y devuelve el
//               transcript en texto plano, listo para /generate.
// @Tags         transcribe
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio  formData  file  true  "archivo de audio (máx. 25 MB)"
// @Success      200    {object}  dto.TranscribeResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/transcribe-audio [post]
func (h *TranscribeHandler) Transcribe(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if h.svc == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "el proveedor de IA configurado no soporta transcripción"})
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere el campo multipart 'audio'"})
	}
	if fileHeader.Size > maxAudioBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el audio supera el límite de 25 MB"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo de audio"})
	}
	defer f.Close()

	transcript, err := h.svc.Transcribe(c.Context(), fileHeader.Filename, f)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "TRANSCRIPTION_FAILED", Message: "la transcripción falló; intenta de nuevo"})
	}
	return c.JSON(dto.TranscribeResponse{Transcription: transcript})
}
