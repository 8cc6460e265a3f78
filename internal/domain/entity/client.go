package entity

import "time"

// Client is a customer of the company. Brazilian clients carry either a
// CNPJ (companies) or a CPF (individuals); both are unique when present.
type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj,omitempty"`
	CPF     string `json:"cpf,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
