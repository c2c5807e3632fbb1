package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coerciones tolerantes sobre el JSON crudo del LLM. Los modelos devuelven
// montos como número, como string con símbolo de moneda ("$1,500.00") o
// directamente no los devuelven; aquí todo converge a decimal/string sin
// fallar jamás: un campo ilegible vale su default, no un error.

// asMap devuelve v como objeto JSON, o nil si no lo es.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asSlice devuelve v como arreglo JSON, o nil si no lo es.
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asString devuelve v como string recortado; cualquier otro tipo vale "".
func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// toDecimal convierte v a decimal con parse tolerante. Acepta float64 (el tipo
// de encoding/json), enteros y strings con "$"/","; lo demás devuelve (0, false).
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		cleaned := strings.TrimSpace(n)
		cleaned = strings.ReplaceAll(cleaned, "$", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		if cleaned == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// toDecimalOr convierte v a decimal o devuelve def si no es convertible.
func toDecimalOr(v any, def decimal.Decimal) decimal.Decimal {
	if d, ok := toDecimal(v); ok {
		return d
	}
	return def
}

// firstDecimal devuelve el primer valor convertible y positivo-o-cero entre
// las claves dadas del objeto; (0, false) si ninguna aplica.
func firstDecimal(m map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if v, exists := m[k]; exists {
			if d, ok := toDecimal(v); ok {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

// firstString devuelve el primer string no vacío entre las claves dadas.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}
