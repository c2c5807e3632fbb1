package repository

import "github.com/jhoicas/VozDocs-api/internal/domain/entity"

// ContractRepository define el puerto de persistencia para Contract y sus
// secciones ordenadas (DIP).
type ContractRepository interface {
	Create(contract *entity.Contract) error
	GetByID(id string) (*entity.Contract, error)
	// Update reemplaza cabecera, partes y secciones completas del contrato.
	Update(contract *entity.Contract) error
	ListByUser(userID string, limit, offset int) ([]*entity.Contract, error)
	Delete(id string) error
}
