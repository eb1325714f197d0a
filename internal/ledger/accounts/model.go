package accounts

import "time"

// AccountType enumerates chart-of-accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeEquity    AccountType = "EQUITY"
)

// ValidType reports whether t is one of the five account categories.
func ValidType(t AccountType) bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeExpense, AccountTypeIncome, AccountTypeEquity:
		return true
	}
	return false
}

// Account models a chart-of-accounts node, scoped to one company. Only
// postable leaf accounts may receive journal lines; the rest exist for
// grouping and reporting.
type Account struct {
	ID        int64       `json:"id"`
	CompanyID int64       `json:"company_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Level     int         `json:"level"`
	Postable  bool        `json:"postable"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
