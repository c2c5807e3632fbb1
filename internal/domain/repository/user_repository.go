package repository

import "github.com/jhoicas/VozDocs-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// Update persiste perfil y businessContext completos.
	Update(user *entity.User) error
}
