package debt

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func balances(pairs map[int64]string) map[int64]decimal.Decimal {
	net := make(map[int64]decimal.Decimal, len(pairs))
	for id, s := range pairs {
		net[id] = dec(s)
	}
	return net
}

func applyTransfers(net map[int64]decimal.Decimal, transfers []Transfer) map[int64]decimal.Decimal {
	result := make(map[int64]decimal.Decimal, len(net))
	for id, b := range net {
		result[id] = b
	}
	for _, t := range transfers {
		result[t.FromUserID] = result[t.FromUserID].Add(t.Amount)
		result[t.ToUserID] = result[t.ToUserID].Sub(t.Amount)
	}
	return result
}

func TestBuildTransfers(t *testing.T) {
	tests := []struct {
		name string
		net  map[int64]string
		want []Transfer
	}{
		{
			name: "empty",
			net:  map[int64]string{},
			want: nil,
		},
		{
			name: "one creditor two debtors",
			// A paid a 90 dinner split three ways.
			net: map[int64]string{
				1: "60.00",
				2: "-30.00",
				3: "-30.00",
			},
			want: []Transfer{
				{FromUserID: 2, ToUserID: 1, Amount: dec("30.00")},
				{FromUserID: 3, ToUserID: 1, Amount: dec("30.00")},
			},
		},
		{
			name: "single pair",
			net: map[int64]string{
				1: "12.34",
				2: "-12.34",
			},
			want: []Transfer{
				{FromUserID: 2, ToUserID: 1, Amount: dec("12.34")},
			},
		},
		{
			name: "largest matched first",
			net: map[int64]string{
				1: "100.00",
				2: "50.00",
				3: "-120.00",
				4: "-30.00",
			},
			want: []Transfer{
				{FromUserID: 3, ToUserID: 1, Amount: dec("100.00")},
				{FromUserID: 4, ToUserID: 2, Amount: dec("30.00")},
				{FromUserID: 3, ToUserID: 2, Amount: dec("20.00")},
			},
		},
		{
			name: "ties break toward lower user ID",
			net: map[int64]string{
				5: "10.00",
				2: "10.00",
				7: "-10.00",
				3: "-10.00",
			},
			want: []Transfer{
				{FromUserID: 3, ToUserID: 2, Amount: dec("10.00")},
				{FromUserID: 7, ToUserID: 5, Amount: dec("10.00")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, leftover := BuildTransfers(balances(tt.net))

			if !leftover.IsZero() {
				t.Errorf("expected zero leftover, got %s", leftover)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d transfers, got %d: %v", len(tt.want), len(got), got)
			}
			for i, want := range tt.want {
				if got[i].FromUserID != want.FromUserID || got[i].ToUserID != want.ToUserID || !got[i].Amount.Equal(want.Amount) {
					t.Errorf("transfer %d: expected %d->%d %s, got %d->%d %s",
						i, want.FromUserID, want.ToUserID, want.Amount,
						got[i].FromUserID, got[i].ToUserID, got[i].Amount)
				}
			}
		})
	}
}

func TestBuildTransfersSettlesAllBalances(t *testing.T) {
	net := balances(map[int64]string{
		1: "70.01",
		2: "-20.00",
		3: "-15.67",
		4: "-34.34",
	})

	transfers, leftover := BuildTransfers(net)

	if !leftover.IsZero() {
		t.Fatalf("expected zero leftover, got %s", leftover)
	}

	after := applyTransfers(net, transfers)
	for id, balance := range after {
		if !balance.IsZero() {
			t.Errorf("user %d still has balance %s after transfers", id, balance)
		}
	}
}

func TestBuildTransfersCountBound(t *testing.T) {
	// n non-zero balances need at most n-1 transfers.
	for _, n := range []int{2, 5, 10, 25} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(n)))
			net := make(map[int64]decimal.Decimal, n)

			total := decimal.Zero
			for i := 1; i < n; i++ {
				amount := decimal.NewFromInt(int64(rng.Intn(10000) + 1)).Div(decimal.NewFromInt(100))
				if rng.Intn(2) == 0 {
					amount = amount.Neg()
				}
				net[int64(i)] = amount
				total = total.Add(amount)
			}
			// Last user absorbs the remainder so the ledger balances.
			net[int64(n)] = total.Neg()
			if net[int64(n)].IsZero() {
				net[int64(n)] = dec("1.00")
				net[1] = net[1].Sub(dec("1.00"))
				if net[1].IsZero() {
					delete(net, 1)
				}
			}

			transfers, leftover := BuildTransfers(net)

			if !leftover.IsZero() {
				t.Fatalf("expected zero leftover, got %s", leftover)
			}
			if len(transfers) > len(net)-1 {
				t.Errorf("expected at most %d transfers for %d balances, got %d", len(net)-1, len(net), len(transfers))
			}

			after := applyTransfers(net, transfers)
			for id, balance := range after {
				if !balance.IsZero() {
					t.Errorf("user %d still has balance %s after transfers", id, balance)
				}
			}
		})
	}
}

func TestBuildTransfersDeterministic(t *testing.T) {
	net := map[int64]string{
		1: "25.00",
		2: "25.00",
		3: "-25.00",
		4: "-25.00",
	}

	first, _ := BuildTransfers(balances(net))
	for i := 0; i < 10; i++ {
		again, _ := BuildTransfers(balances(net))
		if len(again) != len(first) {
			t.Fatalf("run %d produced %d transfers, first run produced %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].FromUserID != first[j].FromUserID ||
				again[j].ToUserID != first[j].ToUserID ||
				!again[j].Amount.Equal(first[j].Amount) {
				t.Fatalf("run %d transfer %d differs: %v vs %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestBuildTransfersLeftover(t *testing.T) {
	// Unbalanced input cannot be fully matched; the excess is reported, not
	// silently dropped.
	transfers, leftover := BuildTransfers(balances(map[int64]string{
		1: "50.00",
		2: "-30.00",
	}))

	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
	if !transfers[0].Amount.Equal(dec("30.00")) {
		t.Errorf("expected transfer of 30.00, got %s", transfers[0].Amount)
	}
	if !leftover.Equal(dec("20.00")) {
		t.Errorf("expected leftover 20.00, got %s", leftover)
	}
}

func TestBuildTransfersAllSameSign(t *testing.T) {
	transfers, leftover := BuildTransfers(balances(map[int64]string{
		1: "10.00",
		2: "5.00",
	}))

	if len(transfers) != 0 {
		t.Errorf("expected no transfers with only creditors, got %d", len(transfers))
	}
	if !leftover.Equal(dec("15.00")) {
		t.Errorf("expected leftover 15.00, got %s", leftover)
	}
}
