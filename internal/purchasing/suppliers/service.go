package suppliers

import (
	"context"

	"github.com/folio-erp/folio-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, companyID int64, filters ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, companyID, filters)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, shared.Validation("suppliers: invalid supplier id")
	}
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, companyID, id int64, supplier Supplier) error {
	if id <= 0 {
		return shared.Validation("suppliers: invalid supplier id")
	}
	if err := validate(supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, companyID, id, supplier)
}

func validate(supplier Supplier) error {
	if supplier.Name == "" {
		return shared.Validation("suppliers: name is required")
	}
	if supplier.TaxID == "" {
		return shared.Validation("suppliers: tax id is required")
	}
	return nil
}
