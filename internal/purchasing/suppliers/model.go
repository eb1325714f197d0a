package suppliers

import "time"

// Supplier is a per-company supplier registry entry. Code comes from the
// row-locked "proveedores" sequence, so codes are consecutive and unique
// within a company even under concurrent creation.
type Supplier struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Code      int64     `json:"code"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
