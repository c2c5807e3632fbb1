package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FrequentClient cliente frecuente guardado para autocompletar y enriquecer prompts.
type FrequentClient struct {
	Name     string    `json:"name"`
	Company  string    `json:"company,omitempty"`
	Email    string    `json:"email,omitempty"`
	LastUsed time.Time `json:"lastUsed"`
}

// CommonService servicio/tarifa habitual del usuario.
type CommonService struct {
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	LastUsed    time.Time       `json:"lastUsed"`
}

// BusinessContext perfil de negocio del usuario. El pipeline de generación lo
// trata como entrada opaca: solo sirve para añadir hechos conocidos al prompt.
type BusinessContext struct {
	CompanyName         string           `json:"companyName,omitempty"`
	Address             string           `json:"address,omitempty"`
	Phone               string           `json:"phone,omitempty"`
	Email               string           `json:"email,omitempty"`
	DefaultCurrency     string           `json:"defaultCurrency,omitempty"` // "USD" por defecto
	DefaultPaymentTerms string           `json:"defaultPaymentTerms,omitempty"`
	FrequentClients     []FrequentClient `json:"frequentClients"`
	CommonServices      []CommonService  `json:"commonServices"`
}

// Límites de retención del contexto de negocio (los más recientes primero).
const (
	MaxFrequentClients = 10
	MaxCommonServices  = 15
)

// User usuario del sistema, dueño exclusivo de sus facturas y contratos.
type User struct {
	ID              string
	Email           string
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	Name            string
	Status          string // active, inactive
	BusinessContext BusinessContext
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
