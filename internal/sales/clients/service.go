package clients

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

func (s *Service) List(ctx context.Context, companyID int64, filters ListFilters) ([]Client, int, error) {
	return s.repo.List(ctx, companyID, filters)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Client, error) {
	if id <= 0 {
		return Client{}, shared.Validation("clients: invalid client id")
	}
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, client Client) (Client, error) {
	if err := validate(client); err != nil {
		return Client{}, err
	}
	return s.repo.Create(ctx, client)
}

func (s *Service) Update(ctx context.Context, companyID, id int64, client Client) error {
	if id <= 0 {
		return shared.Validation("clients: invalid client id")
	}
	if err := validate(client); err != nil {
		return err
	}
	return s.repo.Update(ctx, companyID, id, client)
}

func validate(client Client) error {
	if client.Name == "" {
		return shared.Validation("clients: name is required")
	}
	if client.TaxID == "" {
		return shared.Validation("clients: tax id is required")
	}
	return nil
}
