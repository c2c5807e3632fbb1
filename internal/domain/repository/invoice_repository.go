package repository

import "github.com/jhoicas/VozDocs-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus
// líneas (DIP). Los métodos de lectura filtran por usuario: una factura
// solo es visible para su dueño.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// Update reemplaza cabecera y líneas completas de la factura.
	Update(invoice *entity.Invoice) error
	ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error)
	Delete(id string) error
}
