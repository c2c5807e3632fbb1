package docgen_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/VozDocs-api/internal/application/docgen"
	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/extraction"
)

func decimalFrom(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// ─────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────

type fakeLLM struct {
	body   string
	err    error
	prompt string // último prompt recibido
}

func (f *fakeLLM) CompleteJSON(_ context.Context, prompt string) (json.RawMessage, error) {
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

type memInvoiceRepo struct {
	byID map[string]*entity.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{byID: make(map[string]*entity.Invoice)}
}

func (r *memInvoiceRepo) Create(inv *entity.Invoice) error { r.byID[inv.ID] = inv; return nil }
func (r *memInvoiceRepo) Update(inv *entity.Invoice) error { r.byID[inv.ID] = inv; return nil }
func (r *memInvoiceRepo) Delete(id string) error           { delete(r.byID, id); return nil }
func (r *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.byID[id], nil // nil, nil cuando no existe
}
func (r *memInvoiceRepo) ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type memContractRepo struct {
	byID map[string]*entity.Contract
}

func newMemContractRepo() *memContractRepo {
	return &memContractRepo{byID: make(map[string]*entity.Contract)}
}

func (r *memContractRepo) Create(c *entity.Contract) error { r.byID[c.ID] = c; return nil }
func (r *memContractRepo) Update(c *entity.Contract) error { r.byID[c.ID] = c; return nil }
func (r *memContractRepo) Delete(id string) error          { delete(r.byID, id); return nil }
func (r *memContractRepo) GetByID(id string) (*entity.Contract, error) {
	return r.byID[id], nil
}
func (r *memContractRepo) ListByUser(userID string, limit, offset int) ([]*entity.Contract, error) {
	var out []*entity.Contract
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memUserRepo struct {
	byID map[string]*entity.User
}

func (r *memUserRepo) Create(u *entity.User) error { r.byID[u.ID] = u; return nil }
func (r *memUserRepo) Update(u *entity.User) error { r.byID[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.byID[id], nil
}
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

const invoiceJSON = `{
  "invoice_number": "INV-7001",
  "date": "2025-03-10",
  "due_date": "2025-04-09",
  "from": {"name": "Vega Consulting"},
  "to": {"name": "Acme Corp"},
  "line_items": [
    {"description": "Consulting", "quantity": 3, "unit_price": 150, "line_total": 450}
  ],
  "subtotal": 450,
  "total": 450,
  "notes": "Net 30"
}`

// ─────────────────────────────────────────────
// Pipeline de factura
// ─────────────────────────────────────────────

func TestInvoiceGenerate_PipelineCompleto(t *testing.T) {
	llm := &fakeLLM{body: invoiceJSON}
	repo := newMemInvoiceRepo()
	uc := docgen.NewInvoiceUseCase(llm, repo, nil)

	transcript := "Bill Acme Corp 3 hours of consulting at 150 per hour"
	inv, err := uc.Generate(context.Background(), "user-1", transcript, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "user-1", inv.UserID)
	assert.Equal(t, "INV-7001", inv.InvoiceNumber)
	assert.Equal(t, transcript, inv.OriginalTranscript)
	assert.Contains(t, llm.prompt, transcript, "el transcript viaja literal en el prompt")

	stored, err := repo.GetByID(inv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "la factura debe quedar persistida")
}

func TestInvoiceGenerate_ContextoDeNegocioEnElPrompt(t *testing.T) {
	llm := &fakeLLM{body: invoiceJSON}
	users := &memUserRepo{byID: map[string]*entity.User{
		"user-1": {ID: "user-1", BusinessContext: entity.BusinessContext{CompanyName: "Vega Consulting"}},
	}}
	uc := docgen.NewInvoiceUseCase(llm, newMemInvoiceRepo(), users)

	_, err := uc.Generate(context.Background(), "user-1", "bill the usual client", nil)
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, "Vega Consulting")
}

// El contexto enviado en la petición pisa al perfil guardado.
func TestInvoiceGenerate_OverrideDeContexto(t *testing.T) {
	llm := &fakeLLM{body: invoiceJSON}
	users := &memUserRepo{byID: map[string]*entity.User{
		"user-1": {ID: "user-1", BusinessContext: entity.BusinessContext{CompanyName: "Vega Consulting"}},
	}}
	uc := docgen.NewInvoiceUseCase(llm, newMemInvoiceRepo(), users)

	override := &entity.BusinessContext{CompanyName: "Otra Firma SAS"}
	_, err := uc.Generate(context.Background(), "user-1", "bill the usual client", override)
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, "Otra Firma SAS")
	assert.NotContains(t, llm.prompt, "Vega Consulting")
}

func TestInvoiceGenerate_TranscriptVacio(t *testing.T) {
	uc := docgen.NewInvoiceUseCase(&fakeLLM{body: invoiceJSON}, newMemInvoiceRepo(), nil)

	_, err := uc.Generate(context.Background(), "user-1", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceGenerate_FalloDelLLM(t *testing.T) {
	uc := docgen.NewInvoiceUseCase(&fakeLLM{err: errors.New("boom")}, newMemInvoiceRepo(), nil)

	_, err := uc.Generate(context.Background(), "user-1", "bill someone", nil)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestInvoiceGenerate_RespuestaNoJSON(t *testing.T) {
	uc := docgen.NewInvoiceUseCase(&fakeLLM{body: "I cannot help with that"}, newMemInvoiceRepo(), nil)

	_, err := uc.Generate(context.Background(), "user-1", "bill someone", nil)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestInvoiceRegenerate_ConservaIdentidad(t *testing.T) {
	llm := &fakeLLM{body: invoiceJSON}
	repo := newMemInvoiceRepo()
	uc := docgen.NewInvoiceUseCase(llm, repo, nil)

	orig, err := uc.Generate(context.Background(), "user-1", "first transcript", nil)
	require.NoError(t, err)
	created := orig.CreatedAt

	time.Sleep(2 * time.Millisecond)
	regen, err := uc.Regenerate(context.Background(), "user-1", orig.ID, "second transcript")
	require.NoError(t, err)

	assert.Equal(t, orig.ID, regen.ID, "regenerar no cambia el ID")
	assert.Equal(t, created, regen.CreatedAt, "regenerar no cambia CreatedAt")
	assert.Equal(t, "second transcript", regen.OriginalTranscript)
	assert.True(t, regen.UpdatedAt.After(created) || regen.UpdatedAt.Equal(created))
}

func TestInvoiceCRUD_Propiedad(t *testing.T) {
	llm := &fakeLLM{body: invoiceJSON}
	repo := newMemInvoiceRepo()
	uc := docgen.NewInvoiceUseCase(llm, repo, nil)

	inv, err := uc.Generate(context.Background(), "user-1", "bill acme", nil)
	require.NoError(t, err)

	_, err = uc.GetByID(context.Background(), "user-2", inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "otro usuario no puede leerla")

	_, err = uc.GetByID(context.Background(), "user-1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(context.Background(), "user-2", inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(context.Background(), "user-1", inv.ID))
	_, err = uc.GetByID(context.Background(), "user-1", inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUpdate_NormalizaLaEdicion(t *testing.T) {
	llm := &fakeLLM{body: invoiceJSON}
	uc := docgen.NewInvoiceUseCase(llm, newMemInvoiceRepo(), nil)

	inv, err := uc.Generate(context.Background(), "user-1", "bill acme", nil)
	require.NoError(t, err)

	// Edición en formato crudo: claves snake_case y montos sin calcular.
	edited := map[string]any{
		"invoiceNumber": "INV-7001",
		"line_items": []any{
			map[string]any{"description": "Consulting", "quantity": 2.0, "unit_price": 200.0},
		},
	}
	updated, err := uc.Update(context.Background(), "user-1", inv.ID, edited)
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.True(t, updated.Items[0].Amount.Equal(decimalFrom(t, "400")))
	assert.True(t, updated.Total.Equal(decimalFrom(t, "400")))
	assert.Equal(t, inv.OriginalTranscript, updated.OriginalTranscript, "editar no toca el transcript")
}

// ─────────────────────────────────────────────
// Pipeline de contrato
// ─────────────────────────────────────────────

const contractJSON = `{
  "title": "Software Development Agreement",
  "effectiveDate": "2025-03-10",
  "parties": {
    "serviceProvider": {"name": "DataVault Technologies", "email": "ops@datavault.io"},
    "client": {"name": "Meridian Bank"}
  },
  "sections": [
    {"title": "1. AGREEMENT OVERVIEW", "content": "DataVault Technologies will provide services to Meridian Bank.", "order": 1},
    {"title": "2. PAYMENT TERMS", "content": "Total fee of 50000 payable in two installments.", "order": 2}
  ]
}`

func TestContractGenerate_PartesExtraidasPorElLLM(t *testing.T) {
	llm := &fakeLLM{body: contractJSON}
	repo := newMemContractRepo()
	uc := docgen.NewContractUseCase(llm, repo)

	c, needsReview, err := uc.Generate(context.Background(), "user-1", "agreement transcript")
	require.NoError(t, err)

	assert.Equal(t, "DataVault Technologies", c.Parties.ServiceProvider.Name)
	assert.Equal(t, "Meridian Bank", c.Parties.Client.Name)
	assert.False(t, needsReview, "partes completas y sin marcas: no requiere revisión")
}

func TestContractGenerate_HeuristicaCompletaPartes(t *testing.T) {
	// El LLM no identificó partes; la heurística debe sacarlas del transcript.
	body := `{
	  "title": "Consulting Agreement",
	  "parties": {
	    "serviceProvider": {"name": "To be determined", "email": "ops@datavault.io"},
	    "client": {"name": ""}
	  },
	  "sections": [{"title": "1. SCOPE", "content": "Consulting services.", "order": 1}]
	}`
	llm := &fakeLLM{body: body}
	uc := docgen.NewContractUseCase(llm, newMemContractRepo())

	transcript := "This contract is prepared by our team representing DataVault Technologies. " +
		"We had a meeting with Northwind Traders, who will engage our services."
	c, needsReview, err := uc.Generate(context.Background(), "user-1", transcript)
	require.NoError(t, err)

	assert.Equal(t, "DataVault Technologies", c.Parties.ServiceProvider.Name)
	assert.Equal(t, "Northwind Traders", c.Parties.Client.Name)
	assert.Equal(t, "ops@datavault.io", c.Parties.ServiceProvider.Email,
		"el contacto que el LLM sí extrajo se conserva")
	assert.True(t, needsReview, "partes por heurística: requiere revisión")
}

func TestContractGenerate_SinPartesEnNingunLado(t *testing.T) {
	body := `{"title": "Agreement", "parties": {}, "sections": []}`
	uc := docgen.NewContractUseCase(&fakeLLM{body: body}, newMemContractRepo())

	c, needsReview, err := uc.Generate(context.Background(), "user-1", "they agreed on stuff")
	require.NoError(t, err, "el pipeline nunca falla por partes ausentes")

	assert.Equal(t, extraction.PlaceholderProviderName, c.Parties.ServiceProvider.Name)
	assert.Equal(t, extraction.PlaceholderClientName, c.Parties.Client.Name)
	assert.True(t, needsReview)
}

func TestContractGenerate_MarcaDeClarificacion(t *testing.T) {
	body := `{
	  "title": "Agreement",
	  "parties": {
	    "serviceProvider": {"name": "DataVault Technologies"},
	    "client": {"name": "Meridian Bank"}
	  },
	  "sections": [
	    {"title": "1. PAYMENT TERMS", "content": "⚠️ CLARIFICATION NEEDED: total contract value was not mentioned.", "order": 1}
	  ]
	}`
	uc := docgen.NewContractUseCase(&fakeLLM{body: body}, newMemContractRepo())

	_, needsReview, err := uc.Generate(context.Background(), "user-1", "the deal")
	require.NoError(t, err)
	assert.True(t, needsReview, "una marca ⚠️ en secciones exige revisión")
}

func TestContractRegenerate_ConservaIdentidad(t *testing.T) {
	llm := &fakeLLM{body: contractJSON}
	uc := docgen.NewContractUseCase(llm, newMemContractRepo())

	orig, _, err := uc.Generate(context.Background(), "user-1", "first")
	require.NoError(t, err)

	regen, _, err := uc.Regenerate(context.Background(), "user-1", orig.ID, "second")
	require.NoError(t, err)

	assert.Equal(t, orig.ID, regen.ID)
	assert.Equal(t, orig.CreatedAt, regen.CreatedAt)
	assert.Equal(t, "second", regen.OriginalTranscript)
}

func TestContractGenerate_FalloDelLLM(t *testing.T) {
	uc := docgen.NewContractUseCase(&fakeLLM{err: errors.New("timeout")}, newMemContractRepo())

	_, _, err := uc.Generate(context.Background(), "user-1", "the deal")
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

// ─────────────────────────────────────────────
// PDF
// ─────────────────────────────────────────────

type fakeInvoicePDF struct{ err error }

func (f *fakeInvoicePDF) GenerateInvoicePDF(*entity.Invoice) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 invoice"), nil
}

type fakeContractPDF struct{ err error }

func (f *fakeContractPDF) GenerateContractPDF(*entity.Contract) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 contract"), nil
}

func TestDownloadInvoicePDF_NombreDeArchivo(t *testing.T) {
	repo := newMemInvoiceRepo()
	repo.byID["inv-1"] = &entity.Invoice{ID: "inv-1", UserID: "user-1", InvoiceNumber: "INV-7001"}
	uc := docgen.NewPDFUseCase(repo, newMemContractRepo(), &fakeInvoicePDF{}, &fakeContractPDF{})

	pdf, filename, err := uc.DownloadInvoicePDF(context.Background(), "user-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "invoice-INV-7001.pdf", filename)
	assert.NotEmpty(t, pdf)
}

func TestDownloadContractPDF_NombreDeArchivo(t *testing.T) {
	repo := newMemContractRepo()
	repo.byID["c-1"] = &entity.Contract{ID: "c-1", UserID: "user-1", ContractTitle: "Software Development Agreement"}
	uc := docgen.NewPDFUseCase(newMemInvoiceRepo(), repo, &fakeInvoicePDF{}, &fakeContractPDF{})

	_, filename, err := uc.DownloadContractPDF(context.Background(), "user-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Contract_Software_Development_Agreement.pdf", filename)
}

func TestDownloadPDF_Errores(t *testing.T) {
	invRepo := newMemInvoiceRepo()
	invRepo.byID["inv-1"] = &entity.Invoice{ID: "inv-1", UserID: "user-1", InvoiceNumber: "INV-1"}
	uc := docgen.NewPDFUseCase(invRepo, newMemContractRepo(), &fakeInvoicePDF{err: errors.New("font missing")}, &fakeContractPDF{})

	_, _, err := uc.DownloadInvoicePDF(context.Background(), "user-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrRender)

	_, _, err = uc.DownloadInvoicePDF(context.Background(), "user-2", "inv-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.DownloadInvoicePDF(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
