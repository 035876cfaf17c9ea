package debt

import (
	"container/heap"
	"sort"

	"github.com/shopspring/decimal"
)

// party is one user's position while the matcher runs. Creditor heaps hold
// positive balances, debtor heaps hold amounts owed (also positive).
type party struct {
	userID  int64
	balance decimal.Decimal
}

// partyHeap is a max-heap of parties. Ties on balance break toward the
// lower user ID so runs over the same ledger produce identical transfers.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }

func (h partyHeap) Less(i, j int) bool {
	if !h[i].balance.Equal(h[j].balance) {
		return h[i].balance.GreaterThan(h[j].balance)
	}
	return h[i].userID < h[j].userID
}

func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x interface{}) {
	*h = append(*h, x.(party))
}

func (h *partyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// BuildTransfers greedily matches the largest creditor with the largest
// debtor until one side runs out, settling the smaller of the two amounts
// each round. The result has at most one transfer fewer than the number of
// non-zero balances. The second return value is whatever could not be
// matched when one heap drained first; it is zero whenever the balances
// sum to zero.
func BuildTransfers(net map[int64]decimal.Decimal) ([]Transfer, decimal.Decimal) {
	creditors := make(partyHeap, 0, len(net))
	debtors := make(partyHeap, 0, len(net))

	// Map iteration order is random; build the heaps from sorted IDs so
	// heap layout, and therefore tie-breaking, is reproducible.
	ids := make([]int64, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		balance := net[id]
		switch {
		case balance.IsPositive():
			creditors = append(creditors, party{userID: id, balance: balance})
		case balance.IsNegative():
			debtors = append(debtors, party{userID: id, balance: balance.Neg()})
		}
	}

	heap.Init(&creditors)
	heap.Init(&debtors)

	var transfers []Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(&creditors).(party)
		debtor := heap.Pop(&debtors).(party)

		settled := decimal.Min(creditor.balance, debtor.balance)
		transfers = append(transfers, Transfer{
			FromUserID: debtor.userID,
			ToUserID:   creditor.userID,
			Amount:     settled,
		})

		if remaining := creditor.balance.Sub(settled); remaining.IsPositive() {
			heap.Push(&creditors, party{userID: creditor.userID, balance: remaining})
		}
		if remaining := debtor.balance.Sub(settled); remaining.IsPositive() {
			heap.Push(&debtors, party{userID: debtor.userID, balance: remaining})
		}
	}

	leftover := decimal.Zero
	for creditors.Len() > 0 {
		leftover = leftover.Add(heap.Pop(&creditors).(party).balance)
	}
	for debtors.Len() > 0 {
		leftover = leftover.Add(heap.Pop(&debtors).(party).balance)
	}

	return transfers, leftover
}
