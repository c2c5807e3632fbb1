package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/VozDocs-api/internal/application/ports"
	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/extraction"
	"github.com/jhoicas/VozDocs-api/internal/domain/repository"
)

// llmTimeout tope por llamada al LLM. Las extracciones largas (contratos con
// muchas secciones) pueden tardar decenas de segundos.
const llmTimeout = 60 * time.Second

// InvoiceUseCase orquesta el pipeline transcript → LLM → normalización →
// persistencia para facturas, más el CRUD con chequeo de propiedad.
type InvoiceUseCase struct {
	llm      ports.LLMService
	repo     repository.InvoiceRepository
	userRepo repository.UserRepository
}

// NewInvoiceUseCase construye el caso de uso inyectando sus puertos.
func NewInvoiceUseCase(
	llm ports.LLMService,
	repo repository.InvoiceRepository,
	userRepo repository.UserRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{llm: llm, repo: repo, userRepo: userRepo}
}

// Generate ejecuta el pipeline completo y persiste la factura resultante.
// El businessContext enriquece el prompt con hechos conocidos del emisor:
// si el caller no manda uno (override nil) se usa el perfil guardado del
// usuario; su ausencia no es error.
func (uc *InvoiceUseCase) Generate(ctx context.Context, userID, transcript string, override *entity.BusinessContext) (*entity.Invoice, error) {
	if transcript == "" {
		return nil, fmt.Errorf("%w: transcript vacío", domain.ErrInvalidInput)
	}

	biz := override
	if biz == nil {
		biz = uc.businessContext(userID)
	}
	now := time.Now().UTC()

	raw, err := uc.extract(ctx, SpecV1.BuildInvoicePrompt(transcript, now, biz))
	if err != nil {
		return nil, err
	}

	inv := extraction.NormalizeInvoice(raw, now)
	inv.ID = uuid.NewString()
	inv.UserID = userID
	inv.OriginalTranscript = transcript
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := uc.repo.Create(inv); err != nil {
		return nil, fmt.Errorf("guardar factura: %w", err)
	}
	return inv, nil
}

// Regenerate repite el pipeline sobre un transcript nuevo conservando la
// identidad del documento: mismo ID y CreatedAt, transcript reemplazado.
func (uc *InvoiceUseCase) Regenerate(ctx context.Context, userID, invoiceID, transcript string) (*entity.Invoice, error) {
	if transcript == "" {
		return nil, fmt.Errorf("%w: transcript vacío", domain.ErrInvalidInput)
	}
	existing, err := uc.owned(userID, invoiceID)
	if err != nil {
		return nil, err
	}

	biz := uc.businessContext(userID)
	now := time.Now().UTC()

	raw, err := uc.extract(ctx, SpecV1.BuildInvoicePrompt(transcript, now, biz))
	if err != nil {
		return nil, err
	}

	inv := extraction.NormalizeInvoice(raw, now)
	inv.ID = existing.ID
	inv.UserID = existing.UserID
	inv.OriginalTranscript = transcript
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = now

	if err := uc.repo.Update(inv); err != nil {
		return nil, fmt.Errorf("actualizar factura: %w", err)
	}
	return inv, nil
}

// GetByID devuelve la factura si pertenece al usuario.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, userID, invoiceID string) (*entity.Invoice, error) {
	return uc.owned(userID, invoiceID)
}

// ListByUser lista las facturas del usuario, más recientes primero.
func (uc *InvoiceUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Invoice, error) {
	invs, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	return invs, nil
}

// Update reemplaza los datos de la factura con la edición del usuario. El
// cuerpo editado pasa por la misma normalización que la extracción (es
// idempotente: datos ya normalizados quedan iguales).
func (uc *InvoiceUseCase) Update(ctx context.Context, userID, invoiceID string, raw map[string]any) (*entity.Invoice, error) {
	existing, err := uc.owned(userID, invoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := extraction.NormalizeInvoice(raw, now)
	inv.ID = existing.ID
	inv.UserID = existing.UserID
	inv.OriginalTranscript = existing.OriginalTranscript
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = now

	if err := uc.repo.Update(inv); err != nil {
		return nil, fmt.Errorf("actualizar factura: %w", err)
	}
	return inv, nil
}

// Delete elimina la factura si pertenece al usuario.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, invoiceID string) error {
	if _, err := uc.owned(userID, invoiceID); err != nil {
		return err
	}
	if err := uc.repo.Delete(invoiceID); err != nil {
		return fmt.Errorf("eliminar factura: %w", err)
	}
	return nil
}

// extract llama al LLM con timeout y decodifica el objeto JSON devuelto.
// Cualquier fallo del proveedor o JSON no-objeto se reporta como ErrExtraction.
func (uc *InvoiceUseCase) extract(ctx context.Context, prompt string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	body, err := uc.llm.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: respuesta no es un objeto JSON: %v", domain.ErrExtraction, err)
	}
	return raw, nil
}

// owned carga la factura y verifica propiedad.
func (uc *InvoiceUseCase) owned(userID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// businessContext carga el perfil de negocio del usuario; nil si no se puede.
func (uc *InvoiceUseCase) businessContext(userID string) *entity.BusinessContext {
	if uc.userRepo == nil {
		return nil
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return nil
	}
	return &user.BusinessContext
}
