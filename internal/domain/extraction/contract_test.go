package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/VozDocs-api/internal/domain/extraction"
)

// Invariante de clarificación: sin partes estructuradas, los nombres quedan en
// el placeholder del rol (nunca "" ni un nombre inventado) y ambos roles se
// marcan para recuperación heurística.
func TestNormalizeContract_SinPartes(t *testing.T) {
	c, gaps := extraction.NormalizeContract(map[string]any{
		"title": "Data Compliance Services Agreement",
	}, testNow)

	assert.True(t, gaps.ServiceProvider, "proveedor sin nombre debe requerir heurística")
	assert.True(t, gaps.Client, "cliente sin nombre debe requerir heurística")
	assert.True(t, gaps.Any())

	assert.Equal(t, extraction.PlaceholderProviderName, c.Parties.ServiceProvider.Name)
	assert.Equal(t, extraction.PlaceholderClientName, c.Parties.Client.Name)
	assert.NotEmpty(t, c.Parties.Client.Name, "el nombre jamás queda vacío")
}

// Un nombre que ya es sentinel ("to be determined", marca ⚠️) no cuenta como
// nombre legal: se reemplaza por el placeholder y se marca el gap.
func TestNormalizeContract_NombreSentinelNoAceptado(t *testing.T) {
	raw := map[string]any{
		"parties": map[string]any{
			"serviceProvider": map[string]any{"name": "To be determined"},
			"client":          map[string]any{"name": "⚠️ CLARIFICATION NEEDED: client legal name"},
		},
	}
	c, gaps := extraction.NormalizeContract(raw, testNow)

	assert.True(t, gaps.ServiceProvider)
	assert.True(t, gaps.Client)
	assert.Equal(t, extraction.PlaceholderProviderName, c.Parties.ServiceProvider.Name)
	assert.Equal(t, extraction.PlaceholderClientName, c.Parties.Client.Name)
}

// Con nombres legales reales no hay gaps y los contactos ausentes quedan en
// "To be determined" (forma completa de cuatro claves).
func TestNormalizeContract_FormaDeParties(t *testing.T) {
	raw := map[string]any{
		"parties": map[string]any{
			"serviceProvider": map[string]any{
				"name":  "DataVault Technologies Inc.",
				"email": "legal@datavault.io",
			},
			"client": map[string]any{
				"name":             "Meridian Bank",
				"signingAuthority": "Sarah Chen, CTO",
			},
		},
	}
	c, gaps := extraction.NormalizeContract(raw, testNow)

	assert.False(t, gaps.Any())
	sp := c.Parties.ServiceProvider
	assert.Equal(t, "DataVault Technologies Inc.", sp.Name)
	assert.Equal(t, "legal@datavault.io", sp.Email)
	assert.Equal(t, extraction.PlaceholderTBD, sp.Address)
	assert.Equal(t, extraction.PlaceholderTBD, sp.Phone)

	cl := c.Parties.Client
	assert.Equal(t, "Meridian Bank", cl.Name)
	assert.Equal(t, "Sarah Chen, CTO", cl.SigningAuthority)
	assert.Equal(t, extraction.PlaceholderTBD, cl.Email)
}

// Order siempre queda 1-based y contiguo, venga como venga del modelo: la
// paginación del PDF depende de esa contigüidad.
func TestNormalizeContract_OrdenContiguo(t *testing.T) {
	raw := map[string]any{
		"sections": []any{
			map[string]any{"title": "1. AGREEMENT OVERVIEW", "content": "a", "order": float64(4)},
			map[string]any{"title": "2. SCOPE OF WORK", "content": "b"},
			map[string]any{"title": "", "content": ""}, // sección vacía se descarta
			map[string]any{"title": "3. PAYMENT TERMS", "content": "c", "order": float64(99)},
		},
	}
	c, _ := extraction.NormalizeContract(raw, testNow)

	require.Len(t, c.Sections, 3)
	for i, s := range c.Sections {
		assert.Equal(t, i+1, s.Order, "sección %q", s.Title)
	}
	assert.Equal(t, "1. AGREEMENT OVERVIEW", c.Sections[0].Title)
	assert.Equal(t, "3. PAYMENT TERMS", c.Sections[2].Title)
}

// effectiveDate y título default cuando faltan.
func TestNormalizeContract_Defaults(t *testing.T) {
	c, _ := extraction.NormalizeContract(map[string]any{}, testNow)
	assert.Equal(t, "2025-03-10", c.EffectiveDate)
	assert.Equal(t, "Professional Services Contract", c.ContractTitle)
	assert.NotNil(t, c.Sections)
}

// El título puede llegar como "title" (schema del prompt) o "contractTitle"
// (documento ya normalizado): ambos se aceptan sin doble mapeo.
func TestNormalizeContract_TituloAmbasClaves(t *testing.T) {
	c1, _ := extraction.NormalizeContract(map[string]any{"title": "SaaS Agreement"}, testNow)
	c2, _ := extraction.NormalizeContract(map[string]any{"contractTitle": "SaaS Agreement"}, testNow)
	assert.Equal(t, c1.ContractTitle, c2.ContractTitle)
}
