package docgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

// PromptSpec es la especificación versionada de extracción: las reglas de
// política y el schema de salida que antes vivían duplicados en cada prompt.
// Los builders son funciones puras de (transcript, today, businessContext):
// mismo input, mismo prompt.
//
// Las reglas de negocio que NO pueden perderse en ninguna versión:
//   - el modelo jamás inventa datos ni copia de ejemplos ilustrativos,
//   - jamás añade cláusulas no mencionadas (moras, intereses, fees),
//   - lo no crítico ausente vale "To be determined",
//   - lo crítico ausente se marca con "⚠️ CLARIFICATION NEEDED:",
//   - facturas: solo se cobra el período de facturación ACTUAL.
type PromptSpec struct {
	Version string

	// PolicyRules políticas comunes a ambos tipos de documento.
	PolicyRules []string
	// InvoiceRules desambiguación temporal y estructura de líneas.
	InvoiceRules []string
	// ContractCriticalFields campos que exigen marca de clarificación si faltan.
	ContractCriticalFields []string
}

// SpecV1 versión canónica vigente. Consolidada de las ~8 generaciones de
// prompts históricas; la política de totales es la de las últimas revisiones
// (sin impuestos automáticos).
var SpecV1 = PromptSpec{
	Version: "v1",
	PolicyRules: []string{
		"Use ONLY facts explicitly present in the transcription. NEVER create, guess or fabricate information.",
		"NEVER copy names, amounts, dates or services from any illustrative example in these instructions.",
		"NEVER add clauses about topics not discussed: no late payment penalties, interest or fees unless explicitly mentioned.",
		`Use "To be determined" for missing NON-critical fields (contact info, addresses, net terms).`,
		`Flag missing CRITICAL fields explicitly with "⚠️ CLARIFICATION NEEDED: <what is unclear>".`,
		"Amounts must be numbers only: no currency symbols, no thousands separators.",
	},
	InvoiceRules: []string{
		"Understand WHEN the pricing applies: ONLY include pricing for the CURRENT billing period.",
		`Temporal indicators for NOW: "now", "today", "this month", "upfront", "deposit". For LATER: "monthly", "ongoing", "per month", "future" — exclude those.`,
		"Do NOT include recurring/monthly fees unless this invoice represents that billing period.",
		"Only break a package into sub-line items if the transcription EXPLICITLY prices each deliverable; never distribute a total across deliverables.",
		"ALWAYS extract complete addresses when mentioned (street, city, state, zip).",
	},
	ContractCriticalFields: []string{
		"payment amounts and total contract value",
		"payment calculation method when fees are variable or performance-based",
		"contract duration, start and end dates",
		"core deliverables and their quantities",
		"key project deadlines",
		"performance metrics tied to payment or termination",
		"termination penalties or early exit fees",
	},
}

const isoDate = "2006-01-02"

// BuildInvoicePrompt arma la instrucción de extracción de factura. El
// businessContext (perfil del emisor, clientes frecuentes, tarifas
// habituales) se añade como hechos conocidos; es opcional.
func (s PromptSpec) BuildInvoicePrompt(transcript string, today time.Time, biz *entity.BusinessContext) string {
	todayStr := today.Format(isoDate)
	dueStr := today.AddDate(0, 0, 30).Format(isoDate)

	var b strings.Builder
	b.WriteString("You are a STRICT extractor that creates invoices from transcriptions.\n\nRULES:\n")
	for _, r := range s.PolicyRules {
		b.WriteString("- " + r + "\n")
	}
	b.WriteString("\nBILLING CONTEXT:\n")
	for _, r := range s.InvoiceRules {
		b.WriteString("- " + r + "\n")
	}
	if ctx := businessFacts(biz); ctx != "" {
		b.WriteString("\nKNOWN FACTS ABOUT THE SENDER (use only when the transcription refers to them):\n")
		b.WriteString(ctx)
	}
	b.WriteString("\nTRANSCRIPTION:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nReturn ONLY a valid JSON object with this structure:\n")
	fmt.Fprintf(&b, invoiceSchema, todayStr, dueStr)
	return b.String()
}

// BuildContractPrompt arma la instrucción de extracción de contrato.
func (s PromptSpec) BuildContractPrompt(transcript string, today time.Time) string {
	todayStr := today.Format(isoDate)

	var b strings.Builder
	b.WriteString("You are a professional contract generator that maps transcribed conversations into a structured services contract.\n\nRULES:\n")
	for _, r := range s.PolicyRules {
		b.WriteString("- " + r + "\n")
	}
	b.WriteString("\nCRITICAL information that REQUIRES the clarification flag when missing or ambiguous:\n")
	for _, f := range s.ContractCriticalFields {
		b.WriteString("- " + f + "\n")
	}
	b.WriteString(contractGuidance)
	b.WriteString("\nTRANSCRIPTION TO EXTRACT FROM:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nReturn ONLY a valid JSON object (no markdown, no code blocks) with this structure:\n")
	fmt.Fprintf(&b, contractSchema, todayStr)
	return b.String()
}

// businessFacts serializa el contexto de negocio como hechos conocidos.
// Devuelve "" si no hay nada que aportar.
func businessFacts(biz *entity.BusinessContext) string {
	if biz == nil {
		return ""
	}
	var b strings.Builder
	if biz.CompanyName != "" {
		fmt.Fprintf(&b, "- Sender company: %s", biz.CompanyName)
		if biz.Address != "" {
			fmt.Fprintf(&b, ", %s", biz.Address)
		}
		if biz.Email != "" {
			fmt.Fprintf(&b, ", %s", biz.Email)
		}
		if biz.Phone != "" {
			fmt.Fprintf(&b, ", %s", biz.Phone)
		}
		b.WriteString("\n")
	}
	if biz.DefaultPaymentTerms != "" {
		fmt.Fprintf(&b, "- Usual payment terms: %s\n", biz.DefaultPaymentTerms)
	}
	for _, c := range biz.FrequentClients {
		fmt.Fprintf(&b, "- Frequent client: %s", c.Name)
		if c.Email != "" {
			fmt.Fprintf(&b, " (%s)", c.Email)
		}
		b.WriteString("\n")
	}
	for _, svc := range biz.CommonServices {
		fmt.Fprintf(&b, "- Usual service: %s at %s\n", svc.Description, svc.Rate.String())
	}
	return b.String()
}

// Schemas de salida. Los placeholders %s reciben hoy y hoy+30d; el resto de
// corchetes son instrucciones para el modelo, no ejemplos copiables.
const invoiceSchema = `{
  "invoice_number": "INV-[generate unique number]",
  "date": "%s",
  "due_date": "%s",
  "from": {
    "name": "[Sender company from transcript or known facts, else '']",
    "address": "[Sender address or '']",
    "phone": "[Sender phone or '']",
    "email": "[Sender email or '']"
  },
  "to": {
    "name": "[Client name from transcript]",
    "address": "[Complete client address if mentioned, else '']",
    "phone": "[Client phone or '']",
    "email": "[Client email or '']"
  },
  "line_items": [
    {
      "description": "[Service or deliverable]",
      "quantity": [number],
      "unit": "[unit type]",
      "unit_price": [price per unit],
      "line_total": [quantity * unit_price]
    }
  ],
  "subtotal": [sum of all line_totals],
  "total": [subtotal plus fees/taxes ONLY if mentioned],
  "notes": "[Payment terms or notes from transcript]"
}
`

const contractGuidance = `
EXTRACTION METHOD: identify the service provider and client (exact legal names,
with entity type when stated), the effective date, every deliverable with its
quantities and deadlines, the complete payment structure (amounts, schedules,
volume tiers, performance guarantees with their specific remedies), both
parties' responsibilities, and any special terms (IP, confidentiality,
termination, governing law). Preserve every specific figure mentioned — counts,
percentages, per-unit costs, week-by-week milestones; contracts need precision,
do not summarize specifics away. Organize everything into numbered sections;
add sections beyond the listed ones when the conversation covers topics that do
not fit. Write in complete sentences with professional legal phrasing.
`

const contractSchema = `{
  "title": "[Descriptive title based on the services discussed]",
  "effectiveDate": "%s",
  "parties": {
    "serviceProvider": {"name": "", "address": "", "email": "", "phone": ""},
    "client": {"name": "", "address": "", "email": "", "phone": "", "signingAuthority": ""}
  },
  "sections": [
    {"title": "1. AGREEMENT OVERVIEW", "content": "[Parties, effective date, duration, purpose]", "order": 1},
    {"title": "2. SCOPE OF WORK", "content": "[ALL services, deliverables, timelines, volumes, exclusions]", "order": 2},
    {"title": "3. PAYMENT TERMS", "content": "[ALL financial details: amounts, schedules, tiers, guarantees and remedies]", "order": 3},
    {"title": "4. RESPONSIBILITIES", "content": "[Obligations of each party, training, support]", "order": 4},
    {"title": "5. INTELLECTUAL PROPERTY & USAGE RIGHTS", "content": "[As discussed, else standard SaaS language]", "order": 5},
    {"title": "6. CONFIDENTIALITY & DATA PROCESSING", "content": "[As discussed, else standard mutual confidentiality]", "order": 6},
    {"title": "7. TERM & TERMINATION", "content": "[Duration, termination rights, cure periods, refunds]", "order": 7},
    {"title": "8. GOVERNING LAW & DISPUTES", "content": "[As mentioned, else to be determined by mutual agreement]", "order": 8},
    {"title": "9. SIGNATURES", "content": "[Signature block with extracted names and titles]", "order": 9}
  ]
}
`
