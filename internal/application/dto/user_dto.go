package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

// RegisterRequest entrada para registro (password en texto, se hashea en use case).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SessionResponse salida de GET /api/auth/me.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          UserResponse `json:"user"`
}

// UpdateBusinessContextRequest body para PUT /api/business-context.
// Solo actualiza los campos del perfil; las listas de clientes y servicios
// tienen sus propios endpoints.
type UpdateBusinessContextRequest struct {
	CompanyName         string `json:"companyName" validate:"omitempty,max=200"`
	Address             string `json:"address" validate:"omitempty,max=500"`
	Phone               string `json:"phone" validate:"omitempty,max=50"`
	Email               string `json:"email" validate:"omitempty,email"`
	DefaultCurrency     string `json:"defaultCurrency" validate:"omitempty,len=3"`
	DefaultPaymentTerms string `json:"defaultPaymentTerms" validate:"omitempty,max=100"`
}

// FrequentClientRequest body para POST /api/business-context/frequent-clients.
type FrequentClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Company string `json:"company" validate:"omitempty,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CommonServiceRequest body para POST /api/business-context/common-services.
type CommonServiceRequest struct {
	Description string          `json:"description" validate:"required,max=300"`
	Rate        decimal.Decimal `json:"rate"`
}

// BusinessContextResponse contexto de negocio completo del usuario.
type BusinessContextResponse struct {
	entity.BusinessContext
}
