package entity

import "time"

// Roles de las partes de un contrato.
const (
	RoleServiceProvider = "serviceProvider"
	RoleClient          = "client"
)

// ContractParty una de las dos partes del contrato.
// Invariante anti-alucinación: si la extracción no pudo determinar el nombre
// legal, Name lleva el placeholder del rol ("Service Provider" / "Client"),
// nunca un string vacío ni un nombre inventado. Los demás campos de contacto
// usan "To be determined" cuando faltan.
type ContractParty struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	SigningAuthority string `json:"signingAuthority,omitempty"` // solo client
}

// ContractParties las dos partes del acuerdo.
type ContractParties struct {
	ServiceProvider ContractParty `json:"serviceProvider"`
	Client          ContractParty `json:"client"`
}

// ContractSection sección numerada del contrato.
// Order es 1-based y contiguo (el normalizador renumera); Content puede llevar
// saltos de línea literales como separadores de sub-cláusulas.
type ContractSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// Contract contrato de servicios generado a partir de una transcripción.
type Contract struct {
	ID                 string            `json:"id"`
	UserID             string            `json:"user_id"`
	ContractTitle      string            `json:"contractTitle"`
	EffectiveDate      string            `json:"effectiveDate"` // ISO YYYY-MM-DD
	Parties            ContractParties   `json:"parties"`
	Sections           []ContractSection `json:"sections"`
	OriginalTranscript string            `json:"originalTranscript"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}
