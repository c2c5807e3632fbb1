// Package extraction contiene el núcleo puro del pipeline de generación:
// la normalización de la salida JSON del LLM al esquema canónico (factura o
// contrato) y la extracción heurística de partes cuando el LLM no las entregó.
//
// Todo el paquete es determinista y sin efectos: recibe el JSON crudo ya
// parseado más la fecha actual, y produce entidades del dominio. La regla
// central es que callar un dato crítico ausente es peor que marcarlo: los
// campos críticos que faltan llevan un sentinel explícito, nunca un valor
// inventado ni un string vacío.
package extraction

import "strings"

// Sentinels del pipeline. PlaceholderTBD marca datos no críticos ausentes;
// ClarificationPrefix marca datos críticos ausentes que requieren revisión
// humana antes de firmar/enviar el documento.
const (
	PlaceholderTBD      = "To be determined"
	ClarificationPrefix = "⚠️ CLARIFICATION NEEDED:"

	// Placeholders de nombre por rol cuando ni el LLM ni las heurísticas
	// determinaron un nombre legal.
	PlaceholderProviderName = "Service Provider"
	PlaceholderClientName   = "Client"
)

// IsSentinel reporta si un valor es un placeholder o marca de clarificación
// (y por tanto no debe tratarse como dato real).
func IsSentinel(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return false
	}
	return strings.Contains(t, strings.ToLower(PlaceholderTBD)) ||
		strings.Contains(s, "⚠️")
}

// NeedsClarification reporta si un texto contiene la marca de clarificación.
func NeedsClarification(s string) bool {
	return strings.Contains(s, ClarificationPrefix) || strings.Contains(s, "⚠️")
}
