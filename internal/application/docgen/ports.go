package docgen

import "github.com/jhoicas/VozDocs-api/internal/domain/entity"

// InvoicePDFGenerator puerto de salida para la representación gráfica de facturas.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(inv *entity.Invoice) ([]byte, error)
}

// ContractPDFGenerator puerto de salida para la representación gráfica de contratos.
type ContractPDFGenerator interface {
	GenerateContractPDF(c *entity.Contract) ([]byte, error)
}
