package extraction

import (
	"time"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

// PartyGaps indica qué partes quedaron sin nombre utilizable tras la
// extracción estructurada. Es el resultado explícito de dos variantes del
// pipeline (extraído | requiere heurística): el caso de uso solo invoca el
// extractor por regex para los roles marcados aquí, nunca por null-checks
// dispersos.
type PartyGaps struct {
	ServiceProvider bool
	Client          bool
}

// Any reporta si alguna parte requiere recuperación heurística.
func (g PartyGaps) Any() bool { return g.ServiceProvider || g.Client }

// NormalizeContract convierte el JSON crudo del LLM en un contrato canónico.
// Garantiza effectiveDate, la forma completa de ambas partes (con
// PlaceholderTBD en contactos ausentes) y secciones con Order 1-based y
// contiguo. Devuelve además los PartyGaps: las partes cuyo nombre falta o es
// un sentinel y deben recuperarse con ExtractParty.
//
// Igual que en facturas, la ausencia de campos nunca es error: se resuelve
// con defaults o se marca para clarificación.
func NormalizeContract(raw map[string]any, now time.Time) (*entity.Contract, PartyGaps) {
	if raw == nil {
		raw = map[string]any{}
	}
	c := &entity.Contract{
		ContractTitle: firstString(raw, "contractTitle", "title"),
		EffectiveDate: asString(raw["effectiveDate"]),
		Sections:      normalizeSections(raw["sections"]),
	}
	if c.ContractTitle == "" {
		c.ContractTitle = "Professional Services Contract"
	}
	if c.EffectiveDate == "" || c.EffectiveDate == datePlaceholder {
		c.EffectiveDate = now.Format("2006-01-02")
	}

	parties := asMap(raw["parties"])
	var gaps PartyGaps
	c.Parties.ServiceProvider, gaps.ServiceProvider = normalizeContractParty(
		asMap(parties["serviceProvider"]), PlaceholderProviderName)
	c.Parties.Client, gaps.Client = normalizeContractParty(
		asMap(parties["client"]), PlaceholderClientName)
	return c, gaps
}

// normalizeContractParty fuerza la forma de cuatro claves y reporta si el
// nombre necesita recuperación heurística. Un nombre vacío, con marca de
// clarificación o con "to be determined" NO se acepta como nombre legal.
func normalizeContractParty(m map[string]any, placeholder string) (entity.ContractParty, bool) {
	p := entity.ContractParty{
		Name:             asString(m["name"]),
		Address:          asString(m["address"]),
		Email:            asString(m["email"]),
		Phone:            asString(m["phone"]),
		SigningAuthority: asString(m["signingAuthority"]),
	}
	needsHeuristic := p.Name == "" || IsSentinel(p.Name)
	if needsHeuristic {
		p.Name = placeholder
	}
	if p.Address == "" {
		p.Address = PlaceholderTBD
	}
	if p.Email == "" {
		p.Email = PlaceholderTBD
	}
	if p.Phone == "" {
		p.Phone = PlaceholderTBD
	}
	return p, needsHeuristic
}

// normalizeSections coacciona el arreglo de secciones y renumera Order de
// forma contigua desde 1 (la paginación del PDF depende de esa contigüidad).
// El orden de llegada se respeta; el campo order del LLM solo se usa si ya
// venía contiguo.
func normalizeSections(v any) []entity.ContractSection {
	rawSections := asSlice(v)
	sections := make([]entity.ContractSection, 0, len(rawSections))
	for _, s := range rawSections {
		m := asMap(s)
		if m == nil {
			continue
		}
		title := asString(m["title"])
		content := asString(m["content"])
		if title == "" && content == "" {
			continue
		}
		sections = append(sections, entity.ContractSection{
			Title:   title,
			Content: content,
		})
	}
	for i := range sections {
		sections[i].Order = i + 1
	}
	return sections
}
