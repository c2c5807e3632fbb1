package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party datos de contacto del emisor (from) o del receptor (to) de una factura.
// Siempre viaja con las cuatro claves presentes; los strings vacíos son válidos.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// InvoiceItem línea de la factura.
// Invariante: Amount == round(Quantity*Rate, 2) salvo que la fuente haya
// entregado un total explícito distinto (el total del LLM se respeta si existe).
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice factura generada a partir de una transcripción de voz o texto.
// Date y DueDate se guardan como strings ISO (YYYY-MM-DD) tal como los produce
// el pipeline de extracción.
type Invoice struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"` // dueño exclusivo, sin compartición
	InvoiceNumber      string          `json:"invoiceNumber"`
	Date               string          `json:"date"`
	DueDate            string          `json:"dueDate"`
	From               Party           `json:"from"`
	To                 Party           `json:"to"`
	Items              []InvoiceItem   `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Tax                decimal.Decimal `json:"tax"` // 0 salvo mención explícita
	Total              decimal.Decimal `json:"total"`
	Notes              string          `json:"notes"`
	OriginalTranscript string          `json:"originalTranscript"` // verbatim, para regenerar/auditar
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
