package extraction

import (
	"regexp"
	"strings"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

// PartyRole selecciona la familia de patrones del extractor heurístico.
// Las menciones del proveedor favorecen frases tipo "I'm X from Y" /
// "representing Y"; las del cliente, "meeting with Y" / "Client: Y".
type PartyRole int

const (
	RoleProvider PartyRole = iota
	RoleClientParty
)

var (
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`)

	// Ruido típico en nombres extraídos: aclaraciones entre paréntesis o corchetes.
	noiseRe = regexp.MustCompile(`\(.*?\)|\[.*?\]`)

	// Patrones de nombre por rol, en orden de confianza. Primer match no
	// trivial gana (first-match-wins, no best-match).
	providerNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:I'm|I am|this is)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+from\s+([A-Z][A-Za-z0-9\s&.,'-]+?)(?:\s+speaking|,|\.|$)`),
		regexp.MustCompile(`(?i)(?:from|representing)\s+([A-Z][A-Za-z0-9\s&.,'-]+?(?:Inc\.|LLC|Corp\.|Corporation|Ltd\.|Limited|Solutions|Technologies|Consulting|Group))`),
		regexp.MustCompile(`(?i)(?:service\s*provider|provider)[:\s-]+"?([A-Z][A-Za-z0-9\s&.,'-]+?)"?(?:\s+\(|\s+and|,|\.|$)`),
		regexp.MustCompile(`(?i)(?:between|by)\s+([A-Z][A-Za-z0-9\s&.,'-]+?(?:Inc\.|LLC|Corp\.|Corporation|Ltd\.|Limited|Solutions|Technologies))`),
	}
	clientNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:speaking with|meeting with|call with)\s+([A-Z][A-Za-z0-9\s&.,'-]+?)(?:,|\s+regarding|\s+about)`),
		regexp.MustCompile(`(?i)(?:and|with)\s+([A-Z][A-Za-z0-9\s&.,'-]+?(?:Bank|Corp\.|Corporation|Inc\.|LLC|Ltd\.|Limited|Enterprises|Industries))(?:\s+regarding|,|\.|$)`),
		regexp.MustCompile(`(?i)(?:client|customer)[:\s-]+"?([A-Z][A-Za-z0-9\s&.,'-]+?)"?(?:\s+\(|\s+and|,|\.|$)`),
	}
)

// ExtractParty recupera por regex la mejor aproximación de una parte a partir
// del texto completo (transcripción + secciones generadas). Es el fallback del
// pipeline: solo se invoca para roles marcados en PartyGaps.
//
// Nunca falla: si ningún patrón produce un candidato válido, el nombre queda
// en el placeholder del rol y los contactos en PlaceholderTBD. Determinista
// para el mismo texto.
func ExtractParty(text string, role PartyRole) entity.ContractParty {
	name := extractName(text, role)
	email := PlaceholderTBD
	if m := emailRe.FindAllString(text, -1); len(m) > 0 {
		email = pickForRole(m, role)
	}
	phone := PlaceholderTBD
	if m := phoneRe.FindAllString(text, -1); len(m) > 0 {
		phone = pickForRole(m, role)
	}
	return entity.ContractParty{
		Name:    name,
		Address: PlaceholderTBD, // no hay heurística fiable de dirección
		Email:   email,
		Phone:   phone,
	}
}

func extractName(text string, role PartyRole) string {
	patterns := providerNameRes
	placeholder := PlaceholderProviderName
	if role == RoleClientParty {
		patterns = clientNameRes
		placeholder = PlaceholderClientName
	}
	for _, re := range patterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		candidate := cleanCandidate(match[len(match)-1])
		if !validName(candidate, role) {
			continue
		}
		return candidate
	}
	return placeholder
}

// cleanCandidate quita ruido entre paréntesis/corchetes y espacios sobrantes.
func cleanCandidate(s string) string {
	return strings.TrimSpace(noiseRe.ReplaceAllString(s, ""))
}

// validName descarta candidatos triviales o que contienen texto sentinel.
// Para el rol cliente se descartan además términos que delatan que el match
// capturó al proveedor.
func validName(s string, role PartyRole) bool {
	if len(s) <= 2 || len(s) >= 100 {
		return false
	}
	if IsSentinel(s) {
		return false
	}
	if role == RoleClientParty {
		low := strings.ToLower(s)
		if strings.Contains(low, "provider") || strings.Contains(low, "solutions") {
			return false
		}
	}
	return true
}

// pickForRole: el primer email/teléfono del texto suele ser del proveedor (se
// presenta primero); el segundo, del cliente.
func pickForRole(matches []string, role PartyRole) string {
	if role == RoleClientParty && len(matches) > 1 {
		return matches[1]
	}
	return matches[0]
}
