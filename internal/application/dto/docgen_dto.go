package dto

import "github.com/jhoicas/VozDocs-api/internal/domain/entity"

// GenerateDocumentRequest body para POST /api/invoices/generate y
// POST /api/contracts/generate: el transcript en texto plano y, solo para
// facturas, un contexto de negocio opcional que pisa al perfil guardado.
type GenerateDocumentRequest struct {
	Transcript      string                  `json:"transcript" validate:"required,min=1"`
	BusinessContext *entity.BusinessContext `json:"business_context,omitempty"`
}

// TranscribeResponse salida de POST /api/transcribe-audio.
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

// GenerateInvoiceResponse respuesta de la generación de facturas: el ID
// persistido y el documento normalizado, por separado.
type GenerateInvoiceResponse struct {
	InvoiceID   string          `json:"invoiceId"`
	InvoiceData *entity.Invoice `json:"invoiceData"`
}

// GenerateContractResponse respuesta de la generación de contratos.
type GenerateContractResponse struct {
	ContractID   string           `json:"contractId"`
	ContractData *entity.Contract `json:"contractData"`
	NeedsReview  bool             `json:"needsReview,omitempty"`
}

// InvoiceResponse factura generada/almacenada. La cabecera de entidad ya
// lleva los json tags del formato de documento (invoiceNumber, dueDate...),
// así que la respuesta embebe la entidad directamente.
type InvoiceResponse struct {
	*entity.Invoice
}

// ContractResponse contrato generado/almacenado.
type ContractResponse struct {
	*entity.Contract
	// NeedsReview indica que alguna parte se completó por heurística o
	// quedó con marcas de clarificación y el usuario debería revisarla.
	NeedsReview bool `json:"needsReview,omitempty"`
}

// InvoiceListResponse listado paginado de facturas del usuario.
type InvoiceListResponse struct {
	Items []*entity.Invoice `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ContractListResponse listado paginado de contratos del usuario.
type ContractListResponse struct {
	Items []*entity.Contract `json:"items"`
	Page  PageResponse       `json:"page"`
}
