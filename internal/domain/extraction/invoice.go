package extraction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

// datePlaceholder aparece cuando el modelo copia el formato del schema en vez
// de una fecha real; se trata igual que una fecha ausente.
const datePlaceholder = "YYYY-MM-DD"

// dueDateDays plazo de pago por defecto.
const dueDateDays = 30

// NormalizeInvoice convierte el JSON crudo del LLM en una factura canónica.
// Es una función pura de (raw, now) e idempotente: aplicada sobre el JSON de
// una factura ya normalizada no renombra ni recalcula nada.
//
// Reglas (en orden):
//  1. line_items → items, con unit_price → rate y line_total → amount; si el
//     modelo ya usó items se aplican las mismas coerciones sin renombrar.
//  2. amount se recalcula como round(quantity*rate, 2) SOLO si la fuente no
//     entregó un total de línea explícito (el total del LLM se respeta).
//  3. invoice_number → invoiceNumber, due_date → dueDate.
//  4. from/to siempre existen con sus cuatro claves (strings vacíos permitidos).
//  5. date/dueDate default a hoy / hoy+30d si faltan o traen el placeholder.
//  6. subtotal = Σ amounts solo si el LLM no lo entregó; tax = 0 salvo valor
//     explícito; total = subtotal+tax solo si falta (sin impuestos automáticos).
//
// Jamás falla: todo campo ausente se resuelve con defaults. El JSON ilegible
// se rechaza antes de llegar aquí (domain.ErrExtraction).
func NormalizeInvoice(raw map[string]any, now time.Time) *entity.Invoice {
	if raw == nil {
		raw = map[string]any{}
	}
	today := now.Format("2006-01-02")
	due := now.AddDate(0, 0, dueDateDays).Format("2006-01-02")

	inv := &entity.Invoice{
		InvoiceNumber: firstString(raw, "invoiceNumber", "invoice_number"),
		Date:          asString(raw["date"]),
		DueDate:       firstString(raw, "dueDate", "due_date"),
		From:          normalizeParty(raw["from"]),
		To:            normalizeParty(raw["to"]),
		Items:         normalizeItems(raw),
		Notes:         asString(raw["notes"]),
	}

	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = fmt.Sprintf("INV-%d", now.Unix())
	}
	if inv.Date == "" || inv.Date == datePlaceholder {
		inv.Date = today
	}
	if inv.DueDate == "" || inv.DueDate == datePlaceholder {
		inv.DueDate = due
	}

	// Totales: el valor del LLM manda si existe; si no, se calcula.
	if subtotal, ok := firstDecimal(raw, "subtotal"); ok && !subtotal.IsZero() {
		inv.Subtotal = subtotal
	} else {
		sum := decimal.Zero
		for _, item := range inv.Items {
			sum = sum.Add(item.Amount)
		}
		inv.Subtotal = sum
	}
	inv.Tax = toDecimalOr(raw["tax"], decimal.Zero)
	if total, ok := firstDecimal(raw, "total"); ok && !total.IsZero() {
		inv.Total = total
	} else {
		inv.Total = inv.Subtotal.Add(inv.Tax)
	}
	return inv
}

// normalizeItems resuelve la variante de nombre que haya usado el modelo
// (line_items o items) y coacciona cada línea.
func normalizeItems(raw map[string]any) []entity.InvoiceItem {
	lines := asSlice(raw["line_items"])
	if lines == nil {
		lines = asSlice(raw["items"])
	}
	items := make([]entity.InvoiceItem, 0, len(lines))
	for _, l := range lines {
		m := asMap(l)
		if m == nil {
			continue
		}
		items = append(items, normalizeItem(m))
	}
	return items
}

func normalizeItem(m map[string]any) entity.InvoiceItem {
	desc := asString(m["description"])
	if desc == "" {
		desc = "Service"
	}
	qty := toDecimalOr(m["quantity"], decimal.Zero)
	if !qty.IsPositive() {
		qty = decimal.NewFromInt(1)
	}
	rate, ok := firstDecimal(m, "rate", "unit_price")
	if !ok {
		rate = decimal.Zero
	}
	amount, ok := firstDecimal(m, "amount", "line_total")
	if !ok || amount.IsZero() {
		amount = qty.Mul(rate).Round(2)
	}
	return entity.InvoiceItem{
		Description: desc,
		Quantity:    qty,
		Rate:        rate,
		Amount:      amount,
	}
}

// normalizeParty garantiza un objeto Party con las cuatro claves, exista o no
// en el JSON de origen.
func normalizeParty(v any) entity.Party {
	m := asMap(v)
	if m == nil {
		return entity.Party{}
	}
	return entity.Party{
		Name:    asString(m["name"]),
		Address: asString(m["address"]),
		Phone:   asString(m["phone"]),
		Email:   asString(m["email"]),
	}
}
