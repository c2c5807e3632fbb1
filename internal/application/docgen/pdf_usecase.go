package docgen

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de facturas y contratos.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	contractRepo repository.ContractRepository
	invoiceGen   InvoicePDFGenerator
	contractGen  ContractPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	contractRepo repository.ContractRepository,
	invoiceGen InvoicePDFGenerator,
	contractGen ContractPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		contractRepo: contractRepo,
		invoiceGen:   invoiceGen,
		contractGen:  contractGen,
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// DownloadInvoicePDF carga la factura, verifica propiedad y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece al usuario.
//   - domain.ErrRender           si el generador falla.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, userID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, "", domain.ErrForbidden
	}

	pdfBytes, err = uc.invoiceGen.GenerateInvoicePDF(inv)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	return pdfBytes, fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber), nil
}

// DownloadContractPDF carga el contrato, verifica propiedad y genera el PDF.
// El filename deriva del título con los espacios colapsados a guiones bajos.
func (uc *PDFUseCase) DownloadContractPDF(ctx context.Context, userID, contractID string) (pdfBytes []byte, filename string, err error) {
	c, err := uc.contractRepo.GetByID(contractID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener contrato: %w", err)
	}
	if c == nil {
		return nil, "", domain.ErrNotFound
	}
	if c.UserID != userID {
		return nil, "", domain.ErrForbidden
	}

	pdfBytes, err = uc.contractGen.GenerateContractPDF(c)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	name := whitespaceRe.ReplaceAllString(c.ContractTitle, "_")
	return pdfBytes, fmt.Sprintf("Contract_%s.pdf", name), nil
}
