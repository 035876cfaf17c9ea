package debt

import (
	"github.com/shopspring/decimal"

	"github.com/roamly/tripsplit/internal/expense"
)

// ComputeNetBalances folds every split in the group into one net position
// per user. Paying raises a balance, owing a share lowers it, so a positive
// balance means the group owes that user money. Users whose position nets
// to exactly zero are dropped. Amounts are combined across currencies
// without conversion.
func ComputeNetBalances(entries []*expense.LedgerEntry) map[int64]decimal.Decimal {
	net := make(map[int64]decimal.Decimal)

	for _, e := range entries {
		net[e.PayerID] = net[e.PayerID].Add(e.SplitAmount)
		net[e.SplitUserID] = net[e.SplitUserID].Sub(e.SplitAmount)
	}

	for userID, balance := range net {
		if balance.IsZero() {
			delete(net, userID)
		}
	}

	return net
}

// LedgerCurrency picks the currency for the simplified debts: the currency
// of the most recently dated expense, falling back to USD for an empty
// ledger. Entries arrive ordered newest expense first.
func LedgerCurrency(entries []*expense.LedgerEntry) string {
	if len(entries) == 0 {
		return "USD"
	}
	return entries[0].Currency
}
