package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/folio-erp/folio-erp/internal/companies"
	"github.com/folio-erp/folio-erp/internal/shared"
)

// AuditPort records auth events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// TenantOnboarder provisions a new tenant with its first user in one
// transaction. Implemented by the companies service.
type TenantOnboarder interface {
	OnboardWithOwner(ctx context.Context, in companies.OnboardInput, owner companies.Owner) (companies.Company, int64, error)
}

type Service struct {
	repo    Repository
	tenants TenantOnboarder
	tokens  *TokenIssuer
	audit   AuditPort
}

func NewService(repo Repository, tenants TenantOnboarder, tokens *TokenIssuer, audit AuditPort) *Service {
	return &Service{repo: repo, tenants: tenants, tokens: tokens, audit: audit}
}

// Register signs up a new tenant: the company is provisioned and the caller
// becomes its admin, atomically. The company is always created fresh, so an
// unauthenticated caller can never attach a user to an existing tenant.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, TokenPair, error) {
	if in.CompanyName == "" || in.CompanyTaxID == "" {
		return User{}, TokenPair{}, shared.Validation("auth: company name and tax id are required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return User{}, TokenPair{}, shared.Validation("auth: valid email is required")
	}
	if len(in.Password) < 8 {
		return User{}, TokenPair{}, shared.Validation("auth: password must be at least 8 characters")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	email := strings.ToLower(in.Email)
	company, ownerID, err := s.tenants.OnboardWithOwner(ctx,
		companies.OnboardInput{Name: in.CompanyName, TaxID: in.CompanyTaxID, Address: in.CompanyAddress},
		companies.Owner{Email: email, Name: in.Name, PasswordHash: hash})
	if err != nil {
		return User{}, TokenPair{}, err
	}
	user := User{
		ID:        ownerID,
		CompanyID: company.ID,
		RoleID:    shared.RoleAdmin,
		Email:     email,
		Name:      in.Name,
		IsActive:  true,
	}
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   user.ID,
			CompanyID: user.CompanyID,
			Action:    "auth.register",
			Entity:    "user",
			EntityID:  fmt.Sprintf("%d", user.ID),
			At:        time.Now(),
		})
	}
	return user, pair, nil
}

// AddUser creates a user inside the caller's own company. Only admins may
// call it; the company is taken from the verified identity, never from the
// request.
func (s *Service) AddUser(ctx context.Context, actor shared.Identity, in AddUserInput) (User, error) {
	if !actor.IsAdmin() {
		return User{}, shared.Forbidden("auth: only admins can add users")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return User{}, shared.Validation("auth: valid email is required")
	}
	if len(in.Password) < 8 {
		return User{}, shared.Validation("auth: password must be at least 8 characters")
	}
	role := in.RoleID
	if role == 0 {
		role = shared.RoleMember
	}
	if role != shared.RoleAdmin && role != shared.RoleMember {
		return User{}, shared.Validation("auth: unknown role")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Create(ctx, User{
		CompanyID:    actor.CompanyID,
		RoleID:       role,
		Email:        strings.ToLower(in.Email),
		Name:         in.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return User{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   actor.UserID,
			CompanyID: actor.CompanyID,
			Action:    "auth.user_add",
			Entity:    "user",
			EntityID:  fmt.Sprintf("%d", user.ID),
			Meta:      map[string]any{"role_id": role},
			At:        time.Now(),
		})
	}
	return user, nil
}

// Login verifies credentials and issues an access token. Inactive users and
// unknown emails fail identically, so the response leaks nothing.
func (s *Service) Login(ctx context.Context, email, password string) (User, TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return User{}, TokenPair{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive || !VerifyPassword(password, user.PasswordHash) {
		return User{}, TokenPair{}, shared.ErrInvalidCredentials
	}
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	return user, pair, nil
}
