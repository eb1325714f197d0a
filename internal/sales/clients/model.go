package clients

import "time"

// Client is a per-company client registry entry. Code comes from the
// row-locked "clientes" sequence.
type Client struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Code      int64     `json:"code"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
