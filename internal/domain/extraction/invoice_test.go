package extraction_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/extraction"
)

// Fecha fija para que los defaults (hoy / hoy+30d) sean deterministas.
var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

// decEq compara decimales por valor (450 y 450.00 son iguales).
func decEq(t *testing.T, expected string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	require.NoError(t, err)
	assert.Truef(t, want.Equal(got), "esperado %s, obtenido %s (%v)", expected, got, msgAndArgs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: "Invoice ABC Corp for 3 hours of consulting at
// $150/hr, due in 30 days" con la salida típica del modelo (line_items con
// unit_price/line_total).
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeInvoice_EscenarioConsultoria(t *testing.T) {
	raw := map[string]any{
		"invoice_number": "INV-1001",
		"to":             map[string]any{"name": "ABC Corp"},
		"line_items": []any{
			map[string]any{
				"description": "consulting",
				"quantity":    float64(3),
				"unit":        "hour",
				"unit_price":  float64(150),
				"line_total":  float64(450),
			},
		},
	}

	inv := extraction.NormalizeInvoice(raw, testNow)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "consulting", inv.Items[0].Description)
	decEq(t, "3", inv.Items[0].Quantity)
	decEq(t, "150", inv.Items[0].Rate)
	decEq(t, "450", inv.Items[0].Amount)

	decEq(t, "450", inv.Subtotal, "subtotal = suma de amounts")
	decEq(t, "0", inv.Tax, "sin impuestos automáticos")
	decEq(t, "450", inv.Total, "total = subtotal + tax")

	assert.Equal(t, "INV-1001", inv.InvoiceNumber)
	assert.Equal(t, "ABC Corp", inv.To.Name)
	assert.Equal(t, "2025-03-10", inv.Date)
	assert.Equal(t, "2025-04-09", inv.DueDate, "vencimiento hoy+30d")
}

// Aplicar el normalizador sobre el JSON de una factura ya normalizada debe
// producir exactamente el mismo documento: sin doble renombrado de campos ni
// doble defaulting.
func TestNormalizeInvoice_Idempotente(t *testing.T) {
	raw := map[string]any{
		"line_items": []any{
			map[string]any{"description": "diseño web", "quantity": float64(2), "unit_price": float64(300)},
			map[string]any{"description": "hosting anual", "quantity": float64(1), "unit_price": float64(120)},
		},
		"tax":   float64(50),
		"notes": "Net 30",
	}

	first := extraction.NormalizeInvoice(raw, testNow)

	// Round-trip JSON: lo que guardaríamos y volveríamos a leer.
	blob, err := json.Marshal(first)
	require.NoError(t, err)
	var again map[string]any
	require.NoError(t, json.Unmarshal(blob, &again))

	second := extraction.NormalizeInvoice(again, testNow)

	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, first.Date, second.Date)
	assert.Equal(t, first.DueDate, second.DueDate)
	assert.Equal(t, first.From, second.From)
	assert.Equal(t, first.To, second.To)
	assert.Equal(t, first.Notes, second.Notes)
	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Description, second.Items[i].Description)
		assert.True(t, first.Items[i].Quantity.Equal(second.Items[i].Quantity))
		assert.True(t, first.Items[i].Rate.Equal(second.Items[i].Rate))
		assert.True(t, first.Items[i].Amount.Equal(second.Items[i].Amount))
	}
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
}

// Invariante numérico: amount == round(quantity*rate, 2) cuando la fuente no
// entregó un total de línea explícito.
func TestNormalizeInvoice_AmountRecalculado(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"description": "soporte", "quantity": float64(3), "rate": 33.333},
		},
	}
	inv := extraction.NormalizeInvoice(raw, testNow)
	require.Len(t, inv.Items, 1)
	decEq(t, "100", inv.Items[0].Amount, "3 * 33.333 redondeado a 2 decimales")
}

// El total explícito del LLM manda sobre el recálculo.
func TestNormalizeInvoice_AmountExplicitoSeRespeta(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"description": "paquete", "quantity": float64(3), "rate": float64(150), "amount": float64(500)},
		},
	}
	inv := extraction.NormalizeInvoice(raw, testNow)
	decEq(t, "500", inv.Items[0].Amount, "la fuente entregó un total distinto y se respeta")
	decEq(t, "500", inv.Subtotal)
}

// from/to nunca quedan sin forma aunque el modelo los omita por completo.
func TestNormalizeInvoice_FromToSiempreCompletos(t *testing.T) {
	inv := extraction.NormalizeInvoice(map[string]any{}, testNow)

	blob, err := json.Marshal(inv)
	require.NoError(t, err)
	for _, key := range []string{`"from"`, `"to"`, `"name"`, `"address"`, `"phone"`, `"email"`} {
		assert.Contains(t, string(blob), key)
	}
	assert.Equal(t, entity.Party{}, inv.From)
	assert.Equal(t, entity.Party{}, inv.To)
}

// Parse numérico tolerante: strings con símbolo de moneda y comas.
func TestNormalizeInvoice_NumerosTolerantes(t *testing.T) {
	raw := map[string]any{
		"line_items": []any{
			map[string]any{"description": "auditoría", "quantity": "2", "unit_price": "$1,500.00"},
		},
	}
	inv := extraction.NormalizeInvoice(raw, testNow)
	require.Len(t, inv.Items, 1)
	decEq(t, "2", inv.Items[0].Quantity)
	decEq(t, "1500", inv.Items[0].Rate)
	decEq(t, "3000", inv.Items[0].Amount)
}

// Cantidad ilegible o no positiva default a 1; rate ilegible a 0.
func TestNormalizeInvoice_DefaultsDeItem(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"quantity": "n/a", "rate": "gratis"},
		},
	}
	inv := extraction.NormalizeInvoice(raw, testNow)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Service", inv.Items[0].Description)
	decEq(t, "1", inv.Items[0].Quantity)
	decEq(t, "0", inv.Items[0].Rate)
	decEq(t, "0", inv.Items[0].Amount)
}

// Fechas ausentes o con el placeholder del schema caen a hoy / hoy+30d.
func TestNormalizeInvoice_DefaultsDeFechas(t *testing.T) {
	raw := map[string]any{"date": "YYYY-MM-DD", "due_date": ""}
	inv := extraction.NormalizeInvoice(raw, testNow)
	assert.Equal(t, "2025-03-10", inv.Date)
	assert.Equal(t, "2025-04-09", inv.DueDate)
}

// Sin invoice_number, se genera uno con el patrón INV-*.
func TestNormalizeInvoice_NumeroGenerado(t *testing.T) {
	inv := extraction.NormalizeInvoice(map[string]any{}, testNow)
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"),
		"número generado debe seguir el patrón INV-*: %s", inv.InvoiceNumber)
}

// Tax explícito se suma al total cuando el total no vino del modelo.
func TestNormalizeInvoice_TaxExplicito(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"description": "licencia", "quantity": float64(1), "rate": float64(1000)},
		},
		"tax": float64(190),
	}
	inv := extraction.NormalizeInvoice(raw, testNow)
	decEq(t, "1000", inv.Subtotal)
	decEq(t, "190", inv.Tax)
	decEq(t, "1190", inv.Total)
}

// El subtotal y total explícitos del modelo se respetan aunque difieran de la suma.
func TestNormalizeInvoice_TotalesExplicitosSeRespetan(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"description": "fase 1", "quantity": float64(1), "rate": float64(800)},
		},
		"subtotal": float64(800),
		"total":    float64(900), // el modelo mencionó un fee adicional
	}
	inv := extraction.NormalizeInvoice(raw, testNow)
	decEq(t, "800", inv.Subtotal)
	decEq(t, "900", inv.Total)
}
