package companies

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-erp/folio-erp/internal/shared"
)

// AuditPort records onboarding events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo  Repository
	audit AuditPort
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Company, error) {
	if id <= 0 {
		return Company{}, shared.Validation("companies: invalid company id")
	}
	return s.repo.Get(ctx, id)
}

// Onboard provisions a ready-to-post tenant.
func (s *Service) Onboard(ctx context.Context, in OnboardInput) (Company, error) {
	if in.Name == "" {
		return Company{}, shared.Validation("companies: name is required")
	}
	if in.TaxID == "" {
		return Company{}, shared.Validation("companies: tax id is required")
	}
	company, err := s.repo.Onboard(ctx, Company{Name: in.Name, TaxID: in.TaxID, Address: in.Address})
	if err != nil {
		return Company{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   in.ActorID,
			CompanyID: company.ID,
			Action:    "company.onboard",
			Entity:    "company",
			EntityID:  fmt.Sprintf("%d", company.ID),
			At:        time.Now(),
		})
	}
	return company, nil
}

// OnboardWithOwner provisions a tenant together with its first (admin) user
// in one transaction. This is the signup path: the caller names a new
// company, never an existing one.
func (s *Service) OnboardWithOwner(ctx context.Context, in OnboardInput, owner Owner) (Company, int64, error) {
	if in.Name == "" {
		return Company{}, 0, shared.Validation("companies: name is required")
	}
	if in.TaxID == "" {
		return Company{}, 0, shared.Validation("companies: tax id is required")
	}
	if owner.Email == "" || owner.PasswordHash == "" {
		return Company{}, 0, shared.Validation("companies: owner email and password are required")
	}
	company, ownerID, err := s.repo.OnboardWithOwner(ctx, Company{Name: in.Name, TaxID: in.TaxID, Address: in.Address}, owner)
	if err != nil {
		return Company{}, 0, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   ownerID,
			CompanyID: company.ID,
			Action:    "company.onboard",
			Entity:    "company",
			EntityID:  fmt.Sprintf("%d", company.ID),
			Meta:      map[string]any{"owner_id": ownerID},
			At:        time.Now(),
		})
	}
	return company, ownerID, nil
}
