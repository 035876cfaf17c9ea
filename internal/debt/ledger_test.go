package debt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roamly/tripsplit/internal/expense"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(payerID, splitUserID int64, splitAmount string) *expense.LedgerEntry {
	return &expense.LedgerEntry{
		PayerID:     payerID,
		SplitUserID: splitUserID,
		SplitAmount: dec(splitAmount),
		Currency:    "USD",
		Date:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestComputeNetBalances(t *testing.T) {
	tests := []struct {
		name    string
		entries []*expense.LedgerEntry
		want    map[int64]string
	}{
		{
			name:    "empty ledger",
			entries: nil,
			want:    map[int64]string{},
		},
		{
			name: "single expense split across three",
			// User 1 paid 90, each of 1, 2, 3 owes 30.
			entries: []*expense.LedgerEntry{
				entry(1, 1, "30.00"),
				entry(1, 2, "30.00"),
				entry(1, 3, "30.00"),
			},
			want: map[int64]string{
				1: "60.00",
				2: "-30.00",
				3: "-30.00",
			},
		},
		{
			name: "offsetting expenses cancel out",
			entries: []*expense.LedgerEntry{
				entry(1, 2, "25.00"),
				entry(2, 1, "25.00"),
			},
			want: map[int64]string{},
		},
		{
			name: "payer not in splits",
			entries: []*expense.LedgerEntry{
				entry(1, 2, "10.00"),
				entry(1, 3, "10.00"),
			},
			want: map[int64]string{
				1: "20.00",
				2: "-10.00",
				3: "-10.00",
			},
		},
		{
			name: "cent-level amounts survive",
			entries: []*expense.LedgerEntry{
				entry(1, 2, "33.34"),
				entry(1, 3, "33.33"),
			},
			want: map[int64]string{
				1: "66.67",
				2: "-33.34",
				3: "-33.33",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNetBalances(tt.entries)

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d balances, got %d: %v", len(tt.want), len(got), got)
			}
			for userID, want := range tt.want {
				if !got[userID].Equal(dec(want)) {
					t.Errorf("user %d: expected balance %s, got %s", userID, want, got[userID])
				}
			}
		})
	}
}

func TestComputeNetBalancesConservation(t *testing.T) {
	// Any ledger built from real splits nets to zero in aggregate.
	entries := []*expense.LedgerEntry{
		entry(1, 1, "12.51"),
		entry(1, 2, "12.50"),
		entry(1, 3, "12.50"),
		entry(2, 1, "40.00"),
		entry(2, 2, "40.00"),
		entry(3, 2, "7.25"),
		entry(3, 4, "7.25"),
	}

	sum := decimal.Zero
	for _, balance := range ComputeNetBalances(entries) {
		sum = sum.Add(balance)
	}

	if !sum.IsZero() {
		t.Errorf("expected balances to sum to zero, got %s", sum)
	}
}

func TestLedgerCurrency(t *testing.T) {
	if got := LedgerCurrency(nil); got != "USD" {
		t.Errorf("expected USD fallback for empty ledger, got %s", got)
	}

	newest := entry(1, 2, "10.00")
	newest.Currency = "EUR"
	entries := []*expense.LedgerEntry{newest, entry(1, 3, "10.00")}

	if got := LedgerCurrency(entries); got != "EUR" {
		t.Errorf("expected currency of newest expense EUR, got %s", got)
	}
}
