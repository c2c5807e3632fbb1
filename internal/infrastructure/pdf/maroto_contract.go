package pdf

import (
	"fmt"
	"sort"

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

	"github.com/jhoicas/VozDocs-api/internal/application/docgen"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/extraction"
)

// Verificar en tiempo de compilación que implementa el puerto.
var _ docgen.ContractPDFGenerator = (*MarotoContractGenerator)(nil)

// MarotoContractGenerator implementa docgen.ContractPDFGenerator usando Maroto v2.
type MarotoContractGenerator struct{}

// NewMarotoContractGenerator construye el generador.
func NewMarotoContractGenerator() *MarotoContractGenerator { return &MarotoContractGenerator{} }

// GenerateContractPDF genera el PDF del contrato y devuelve sus bytes.
// Las secciones se renderizan en su orden; las líneas de contacto que quedaron
// en "To be determined" se omiten del bloque de partes.
func (g *MarotoContractGenerator) GenerateContractPDF(c *entity.Contract) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(c.ContractTitle, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(contractTitleRows(c)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(contractPartiesRow(c.Parties))
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))

	sections := make([]entity.ContractSection, len(c.Sections))
	copy(sections, c.Sections)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	for _, s := range sections {
		m.AddRows(sectionRows(s)...)
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(signatureRow(c.Parties))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// contractTitleRows: título centrado + fecha de vigencia.
func contractTitleRows(c *entity.Contract) []core.Row {
	return []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New(c.ContractTitle, props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center,
				Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New("Effective Date: "+c.EffectiveDate, props.Text{
				Size: 9, Align: align.Center, Color: colorGray,
			}),
		)),
	}
}

// contractPartiesRow: proveedor y cliente lado a lado.
func contractPartiesRow(p entity.ContractParties) core.Row {
	return row.New(30).Add(
		contractPartyCol("SERVICE PROVIDER", p.ServiceProvider),
		contractPartyCol("CLIENT", p.Client),
	)
}

func contractPartyCol(label string, p entity.ContractParty) core.Col {
	comps := []core.Component{
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
	}
	top := 11.0
	for _, detail := range []string{p.Address, p.Email, p.Phone, p.SigningAuthority} {
		if detail == "" || extraction.IsSentinel(detail) {
			continue
		}
		comps = append(comps, text.New(detail, props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 4.5
	}
	return col.New(6).Add(comps...)
}

// sectionRows: título de sección en negrita + contenido corrido.
func sectionRows(s entity.ContractSection) []core.Row {
	// Altura proporcional al largo del contenido: ~95 caracteres por línea
	// a 9 pt en A4 con estos márgenes.
	lines := len(s.Content)/95 + 1
	contentHeight := float64(lines)*4.2 + 4

	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(s.Title, props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
			}),
		)),
		row.New(contentHeight).Add(col.New(12).Add(
			text.New(s.Content, props.Text{Size: 9, Top: 1}),
		)),
	}
}

// signatureRow: bloque de firmas con los nombres extraídos.
func signatureRow(p entity.ContractParties) core.Row {
	sigCol := func(name string) core.Col {
		return col.New(6).Add(
			text.New("_____________________________", props.Text{Size: 9, Top: 6}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 12}),
			text.New("Signature / Date", props.Text{Size: 7, Top: 17, Color: colorGray}),
		)
	}
	return row.New(24).Add(
		sigCol(p.ServiceProvider.Name),
		sigCol(p.Client.Name),
	)
}
