// Package pdf implementa la representación gráfica de facturas y contratos
// con Maroto v2.
//
// Layout de la factura (página A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: INVOICE  │  N° + Fecha + Vencimiento               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FROM: emisor          TO: cliente                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | Tarifa | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto (solo si > 0) / TOTAL         │
//	│  NOTAS                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/VozDocs-api/internal/application/docgen"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Verificar en tiempo de compilación que implementa el puerto.
var _ docgen.InvoicePDFGenerator = (*MarotoInvoiceGenerator)(nil)

// MarotoInvoiceGenerator implementa docgen.InvoicePDFGenerator usando Maroto v2.
type MarotoInvoiceGenerator struct{}

// NewMarotoInvoiceGenerator construye el generador.
func NewMarotoInvoiceGenerator() *MarotoInvoiceGenerator { return &MarotoInvoiceGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoInvoiceGenerator) GenerateInvoicePDF(inv *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(invoiceHeaderRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for _, r := range itemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(invoiceTotalsRow(inv))

	if inv.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(notesRow(inv.Notes))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// invoiceHeaderRow: título INVOICE (izq) y número + fechas (der).
func invoiceHeaderRow(inv *entity.Invoice) core.Row {
	return row.New(20).Add(
		col.New(6).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Date: "+inv.Date, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Due: "+inv.DueDate, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: bloques From y Bill To lado a lado. Las líneas de contacto
// vacías se omiten.
func partiesRow(inv *entity.Invoice) core.Row {
	return row.New(26).Add(
		partyCol("FROM", inv.From),
		partyCol("BILL TO", inv.To),
	)
}

func partyCol(label string, p entity.Party) core.Col {
	comps := []core.Component{
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(nonEmpty(p.Name, "—"), props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 6,
		}),
	}
	top := 11.0
	for _, line := range []string{p.Address, p.Phone, p.Email} {
		if line == "" {
			continue
		}
		comps = append(comps, text.New(line, props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 4.5
	}
	return col.New(6).Add(comps...)
}

// itemsHeaderRow: cabecera de la tabla de líneas.
func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Rate", 2, align.Right),
		h("Amount", 3, align.Right),
	)
}

// itemRows: una fila por línea de la factura.
func itemRows(items []entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(it.Rate),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(it.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// invoiceTotalsRow: bloque de totales alineado a la derecha. La línea de
// impuesto solo aparece cuando el valor es mayor que cero.
func invoiceTotalsRow(inv *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	labels := []core.Component{label("Subtotal:", 1)}
	values := []core.Component{value("$"+formatMoney(inv.Subtotal), 1)}
	top := 6.0
	if inv.Tax.IsPositive() {
		labels = append(labels, label("Tax:", top))
		values = append(values, value("$"+formatMoney(inv.Tax), top))
		top += 5
	}
	labels = append(labels, text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right,
		Color: colorPrimary, Right: 2, Top: top,
	}))
	values = append(values, text.New("$"+formatMoney(inv.Total), props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right,
		Color: colorPrimary, Right: 1, Top: top,
	}))

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// notesRow: notas y términos de pago al pie.
func notesRow(notes string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("NOTES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea un decimal con dos decimales y comas de miles.
// Ej: 1500 → "1,500.00"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	n := len(intPart)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i := 0; i < n; i++ {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, intPart[i])
		}
		intPart = string(buf)
	}
	if neg {
		intPart = "-" + intPart
	}
	return intPart + "." + fracPart
}
