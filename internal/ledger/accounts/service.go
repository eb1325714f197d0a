package accounts

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

func (s *Service) List(ctx context.Context, companyID int64) ([]Account, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) GetByCode(ctx context.Context, companyID int64, code string) (Account, error) {
	if code == "" {
		return Account{}, shared.Validation("accounts: code is required")
	}
	return s.repo.GetByCode(ctx, companyID, code)
}

func (s *Service) Create(ctx context.Context, account Account) (Account, error) {
	if account.Code == "" || account.Name == "" {
		return Account{}, shared.Validation("accounts: code and name are required")
	}
	if !ValidType(account.Type) {
		return Account{}, shared.Validation("accounts: unknown account type")
	}
	if account.Level < 1 {
		account.Level = 1
	}
	return s.repo.Create(ctx, account)
}
