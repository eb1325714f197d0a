package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleAggregates() []LineAggregate {
	return []LineAggregate{
		{AccountCode: "41.01", AccountName: "Gastos generales", Debit: dec(100000), Credit: decimal.Zero},
		{AccountCode: "11.05", AccountName: "IVA credito fiscal", Debit: dec(19000), Credit: decimal.Zero},
		{AccountCode: "21.01", AccountName: "Proveedores", Debit: decimal.Zero, Credit: dec(119000)},
	}
}

func TestBuildBalancesSidesAndOrder(t *testing.T) {
	balances := BuildBalances(sampleAggregates())
	require.Len(t, balances, 3)

	require.Equal(t, "11.05", balances[0].AccountCode)
	require.Equal(t, "21.01", balances[1].AccountCode)
	require.Equal(t, "41.01", balances[2].AccountCode)

	require.Equal(t, SideDebtor, balances[0].BalanceSide)
	require.True(t, balances[0].NetBalance.Equal(dec(19000)))

	require.Equal(t, SideCreditor, balances[1].BalanceSide)
	require.True(t, balances[1].NetBalance.Equal(dec(-119000)))

	require.Equal(t, SideDebtor, balances[2].BalanceSide)
}

func TestBuildBalancesZeroNetIsDebtor(t *testing.T) {
	balances := BuildBalances([]LineAggregate{
		{AccountCode: "21.01", Debit: dec(500), Credit: dec(500)},
	})
	require.Len(t, balances, 1)
	require.True(t, balances[0].NetBalance.IsZero())
	require.Equal(t, SideDebtor, balances[0].BalanceSide)
}

func TestBuildBalancesEmpty(t *testing.T) {
	balances := BuildBalances(nil)
	require.NotNil(t, balances)
	require.Empty(t, balances)
}

func TestBuildGroupedLedgerTotalsBalance(t *testing.T) {
	ledger := BuildGroupedLedger(BuildBalances(sampleAggregates()))

	require.Len(t, ledger.Groups, 3)
	require.Equal(t, "11", ledger.Groups[0].Key)
	require.Equal(t, "21", ledger.Groups[1].Key)
	require.Equal(t, "41", ledger.Groups[2].Key)

	require.True(t, ledger.TotalDebit.Equal(dec(119000)))
	require.True(t, ledger.TotalCredit.Equal(dec(119000)))
	require.True(t, ledger.TotalDebit.Equal(ledger.TotalCredit), "a ledger built from balanced entries must total equal on both sides")
}

func TestBuildGroupedLedgerGroupsByPrefix(t *testing.T) {
	balances := BuildBalances([]LineAggregate{
		{AccountCode: "21.01", AccountName: "Proveedores", Credit: dec(200)},
		{AccountCode: "21.02", AccountName: "Documentos por pagar", Credit: dec(300)},
		{AccountCode: "41.01", AccountName: "Gastos", Debit: dec(500)},
	})
	ledger := BuildGroupedLedger(balances)

	require.Len(t, ledger.Groups, 2)
	liabilities := ledger.Groups[0]
	require.Equal(t, "21", liabilities.Key)
	require.Len(t, liabilities.Accounts, 2)
	require.Equal(t, "21.01", liabilities.Accounts[0].AccountCode)
	require.True(t, liabilities.TotalCredit.Equal(dec(500)))
}

func TestGroupKey(t *testing.T) {
	require.Equal(t, "21", groupKey("21.01"))
	require.Equal(t, "41", groupKey("41.01.02"))
	require.Equal(t, "21", groupKey("21"))
	require.Equal(t, "5", groupKey("5"))
}
