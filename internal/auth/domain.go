package auth

import "time"

// User is an authenticated principal scoped to one company.
type User struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	RoleID       int64     `json:"role_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterInput carries a tenant signup: a new company plus its first user.
// Registration never accepts an existing company id; joining a tenant goes
// through AddUser, invoked by an authenticated admin of that tenant.
type RegisterInput struct {
	CompanyName    string
	CompanyTaxID   string
	CompanyAddress string
	Email          string
	Name           string
	Password       string
}

// AddUserInput carries a new user for the caller's own company.
type AddUserInput struct {
	Email    string
	Name     string
	Password string
	RoleID   int64
}

// TokenPair is the login response payload.
type TokenPair struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
