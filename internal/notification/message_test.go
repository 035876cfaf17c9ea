package notification

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMessageTemplates(t *testing.T) {
	amount := decimal.RequireFromString("30")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "group invite",
			got:  groupInviteMessage("Bali Trip"),
			want: "You have been added to group: Bali Trip",
		},
		{
			name: "expense added names the payer",
			got:  expenseAddedMessage("alice", amount, "USD"),
			want: "alice added an expense of USD 30.00 that includes you",
		},
		{
			name: "debt assigned names the creditor",
			got:  debtAssignedMessage("bob", amount, "USD"),
			want: "You owe bob USD 30.00 after simplification",
		},
		{
			name: "debt settled names the debtor",
			got:  debtSettledMessage("carol", amount, "EUR"),
			want: "carol settled EUR 30.00 with you",
		},
		{
			name: "route alert",
			got:  routeAlertMessage("dave"),
			want: "dave reported a route deviation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
			// A template rendered with an empty name would leave a double
			// space; none of these should.
			if strings.Contains(tt.got, "  ") {
				t.Errorf("message %q contains a double space", tt.got)
			}
		})
	}
}
