package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// BalanceSide tells which side an account's net balance falls on.
type BalanceSide string

const (
	SideDebtor   BalanceSide = "DEBTOR"
	SideCreditor BalanceSide = "CREDITOR"
)

// LineAggregate is one account's summed activity over a period, as read
// from journal lines of non-voided documents.
type LineAggregate struct {
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// AccountBalance is a general-ledger row for the period view.
type AccountBalance struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	NetBalance  decimal.Decimal `json:"net_balance"`
	BalanceSide BalanceSide     `json:"balance_side"`
}

// BuildBalances computes net balances and sides from period aggregates.
// Net is debit minus credit; zero counts as a debtor balance.
func BuildBalances(rows []LineAggregate) []AccountBalance {
	out := make([]AccountBalance, 0, len(rows))
	for _, row := range rows {
		net := row.Debit.Sub(row.Credit)
		side := SideDebtor
		if net.IsNegative() {
			side = SideCreditor
		}
		out = append(out, AccountBalance{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			TotalDebit:  row.Debit,
			TotalCredit: row.Credit,
			NetBalance:  net,
			BalanceSide: side,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out
}

// LedgerGroup aggregates balances under a code prefix for presentation.
type LedgerGroup struct {
	Key         string           `json:"key"`
	Accounts    []AccountBalance `json:"accounts"`
	TotalDebit  decimal.Decimal  `json:"total_debit"`
	TotalCredit decimal.Decimal  `json:"total_credit"`
}

// GroupedLedger is the grouped general-ledger view rendered by the UI.
type GroupedLedger struct {
	Groups      []LedgerGroup   `json:"groups"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

func groupKey(code string) string {
	if idx := strings.Index(code, "."); idx > 0 {
		return code[:idx]
	}
	if len(code) >= 2 {
		return code[:2]
	}
	return code
}

// BuildGroupedLedger arranges balances into prefix groups with totals.
func BuildGroupedLedger(balances []AccountBalance) GroupedLedger {
	groups := make(map[string]*LedgerGroup)
	keys := make([]string, 0)
	for _, bal := range balances {
		key := groupKey(bal.AccountCode)
		grp, ok := groups[key]
		if !ok {
			grp = &LedgerGroup{Key: key, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
			groups[key] = grp
			keys = append(keys, key)
		}
		grp.Accounts = append(grp.Accounts, bal)
		grp.TotalDebit = grp.TotalDebit.Add(bal.TotalDebit)
		grp.TotalCredit = grp.TotalCredit.Add(bal.TotalCredit)
	}

	sort.Strings(keys)
	result := GroupedLedger{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Accounts, func(i, j int) bool {
			return grp.Accounts[i].AccountCode < grp.Accounts[j].AccountCode
		})
		result.Groups = append(result.Groups, *grp)
		result.TotalDebit = result.TotalDebit.Add(grp.TotalDebit)
		result.TotalCredit = result.TotalCredit.Add(grp.TotalCredit)
	}
	return result
}
