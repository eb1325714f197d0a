package companies

import "time"

// Company is a tenant. Every ledger row hangs off a company id; onboarding
// leaves the tenant ready to post (chart cloned, sequences seeded).
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OnboardInput carries a new tenant request.
type OnboardInput struct {
	Name    string
	TaxID   string
	Address string
	ActorID int64
}

// Owner is the first user of a new tenant, created inside the onboarding
// transaction with the admin role. The password arrives already hashed.
type Owner struct {
	Email        string
	Name         string
	PasswordHash string
}
