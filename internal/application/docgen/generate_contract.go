package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/VozDocs-api/internal/application/ports"
	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/extraction"
	"github.com/jhoicas/VozDocs-api/internal/domain/repository"
)

// ContractUseCase orquesta el pipeline transcript → LLM → normalización →
// heurística de partes → persistencia para contratos, más el CRUD con
// chequeo de propiedad.
type ContractUseCase struct {
	llm  ports.LLMService
	repo repository.ContractRepository
}

// NewContractUseCase construye el caso de uso inyectando sus puertos.
func NewContractUseCase(llm ports.LLMService, repo repository.ContractRepository) *ContractUseCase {
	return &ContractUseCase{llm: llm, repo: repo}
}

// Generate ejecuta el pipeline completo y persiste el contrato. needsReview
// es true cuando alguna parte se completó por heurística o quedó alguna
// marca de clarificación en las secciones: el documento sale igual, pero el
// usuario debe revisarlo antes de firmar.
func (uc *ContractUseCase) Generate(ctx context.Context, userID, transcript string) (c *entity.Contract, needsReview bool, err error) {
	if transcript == "" {
		return nil, false, fmt.Errorf("%w: transcript vacío", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	raw, err := uc.extract(ctx, SpecV1.BuildContractPrompt(transcript, now))
	if err != nil {
		return nil, false, err
	}

	contract, gaps := extraction.NormalizeContract(raw, now)
	if gaps.Any() {
		fillPartyGaps(contract, gaps, transcript)
	}

	contract.ID = uuid.NewString()
	contract.UserID = userID
	contract.OriginalTranscript = transcript
	contract.CreatedAt = now
	contract.UpdatedAt = now

	if err := uc.repo.Create(contract); err != nil {
		return nil, false, fmt.Errorf("guardar contrato: %w", err)
	}
	return contract, gaps.Any() || hasClarifications(contract), nil
}

// Regenerate repite el pipeline sobre un transcript nuevo conservando la
// identidad del documento: mismo ID y CreatedAt, transcript reemplazado.
func (uc *ContractUseCase) Regenerate(ctx context.Context, userID, contractID, transcript string) (*entity.Contract, bool, error) {
	if transcript == "" {
		return nil, false, fmt.Errorf("%w: transcript vacío", domain.ErrInvalidInput)
	}
	existing, err := uc.owned(userID, contractID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	raw, err := uc.extract(ctx, SpecV1.BuildContractPrompt(transcript, now))
	if err != nil {
		return nil, false, err
	}

	contract, gaps := extraction.NormalizeContract(raw, now)
	if gaps.Any() {
		fillPartyGaps(contract, gaps, transcript)
	}

	contract.ID = existing.ID
	contract.UserID = existing.UserID
	contract.OriginalTranscript = transcript
	contract.CreatedAt = existing.CreatedAt
	contract.UpdatedAt = now

	if err := uc.repo.Update(contract); err != nil {
		return nil, false, fmt.Errorf("actualizar contrato: %w", err)
	}
	return contract, gaps.Any() || hasClarifications(contract), nil
}

// GetByID devuelve el contrato si pertenece al usuario.
func (uc *ContractUseCase) GetByID(ctx context.Context, userID, contractID string) (*entity.Contract, error) {
	return uc.owned(userID, contractID)
}

// ListByUser lista los contratos del usuario, más recientes primero.
func (uc *ContractUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Contract, error) {
	cs, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar contratos: %w", err)
	}
	return cs, nil
}

// Update reemplaza los datos del contrato con la edición del usuario,
// pasándola por la misma normalización idempotente que la extracción.
func (uc *ContractUseCase) Update(ctx context.Context, userID, contractID string, raw map[string]any) (*entity.Contract, error) {
	existing, err := uc.owned(userID, contractID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contract, _ := extraction.NormalizeContract(raw, now)
	contract.ID = existing.ID
	contract.UserID = existing.UserID
	contract.OriginalTranscript = existing.OriginalTranscript
	contract.CreatedAt = existing.CreatedAt
	contract.UpdatedAt = now

	if err := uc.repo.Update(contract); err != nil {
		return nil, fmt.Errorf("actualizar contrato: %w", err)
	}
	return contract, nil
}

// Delete elimina el contrato si pertenece al usuario.
func (uc *ContractUseCase) Delete(ctx context.Context, userID, contractID string) error {
	if _, err := uc.owned(userID, contractID); err != nil {
		return err
	}
	if err := uc.repo.Delete(contractID); err != nil {
		return fmt.Errorf("eliminar contrato: %w", err)
	}
	return nil
}

func (uc *ContractUseCase) extract(ctx context.Context, prompt string) (map[string]any, error) {
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

func (uc *ContractUseCase) owned(userID, contractID string) (*entity.Contract, error) {
	c, err := uc.repo.GetByID(contractID)
	if err != nil {
		return nil, fmt.Errorf("obtener contrato: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// fillPartyGaps completa con la heurística de regex las partes que el LLM no
// identificó. Busca sobre el transcript y el texto de las secciones, porque a
// veces el nombre quedó redactado en el cuerpo aunque no en parties.
func fillPartyGaps(c *entity.Contract, gaps extraction.PartyGaps, transcript string) {
	var sb strings.Builder
	sb.WriteString(transcript)
	for _, s := range c.Sections {
		sb.WriteString("\n")
		sb.WriteString(s.Content)
	}
	text := sb.String()

	if gaps.ServiceProvider {
		c.Parties.ServiceProvider = mergeParty(
			extraction.ExtractParty(text, extraction.RoleProvider),
			c.Parties.ServiceProvider,
		)
	}
	if gaps.Client {
		c.Parties.Client = mergeParty(
			extraction.ExtractParty(text, extraction.RoleClientParty),
			c.Parties.Client,
		)
	}
}

// mergeParty prefiere los campos de la heurística pero conserva los contactos
// que el LLM sí extrajo cuando la heurística solo tiene placeholders.
func mergeParty(heuristic, llm entity.ContractParty) entity.ContractParty {
	out := heuristic
	if out.Email == extraction.PlaceholderTBD && llm.Email != "" && !extraction.IsSentinel(llm.Email) {
		out.Email = llm.Email
	}
	if out.Phone == extraction.PlaceholderTBD && llm.Phone != "" && !extraction.IsSentinel(llm.Phone) {
		out.Phone = llm.Phone
	}
	if out.Address == extraction.PlaceholderTBD && llm.Address != "" && !extraction.IsSentinel(llm.Address) {
		out.Address = llm.Address
	}
	if out.SigningAuthority == "" {
		out.SigningAuthority = llm.SigningAuthority
	}
	return out
}

// hasClarifications detecta marcas de clarificación en título o secciones.
func hasClarifications(c *entity.Contract) bool {
	if extraction.NeedsClarification(c.ContractTitle) {
		return true
	}
	for _, s := range c.Sections {
		if extraction.NeedsClarification(s.Title) || extraction.NeedsClarification(s.Content) {
			return true
		}
	}
	return false
}
