package split

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sumOutputs(outputs []SplitOutput) decimal.Decimal {
	total := decimal.Zero
	for _, o := range outputs {
		total = total.Add(o.Amount)
	}
	return total
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants []int64
		want         []string
		wantErr      error
	}{
		{
			name:         "divides evenly",
			total:        "90.00",
			participants: []int64{1, 2, 3},
			want:         []string{"30.00", "30.00", "30.00"},
		},
		{
			name:         "remainder goes to first participant",
			total:        "100.00",
			participants: []int64{1, 2, 3},
			want:         []string{"33.34", "33.33", "33.33"},
		},
		{
			name:         "single participant takes it all",
			total:        "12.35",
			participants: []int64{7},
			want:         []string{"12.35"},
		},
		{
			name:         "two-cent remainder still lands on the first",
			total:        "0.05",
			participants: []int64{1, 2, 3},
			want:         []string{"0.03", "0.01", "0.01"},
		},
		{
			name:         "empty participant list",
			total:        "10.00",
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
	}

	s := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := make([]SplitInput, len(tt.participants))
			for i, id := range tt.participants {
				inputs[i] = SplitInput{UserID: id}
			}

			outputs, err := s.Calculate(dec(tt.total), inputs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() unexpected error: %v", err)
			}

			for i, want := range tt.want {
				if got := outputs[i].Amount.StringFixed(2); got != want {
					t.Errorf("share[%d] = %s, want %s", i, got, want)
				}
			}
			if got := sumOutputs(outputs); !got.Equal(dec(tt.total)) {
				t.Errorf("shares sum to %s, want %s", got, tt.total)
			}
		})
	}
}

// The sum invariant must hold for every group size, including totals that do
// not divide evenly.
func TestEqualSplitSumInvariant(t *testing.T) {
	s := &EqualStrategy{}
	totals := []string{"100.00", "0.01", "99.99", "7.77", "1234.56"}

	for n := 1; n <= 50; n++ {
		inputs := make([]SplitInput, n)
		for i := range inputs {
			inputs[i] = SplitInput{UserID: int64(i + 1)}
		}
		for _, total := range totals {
			outputs, err := s.Calculate(dec(total), inputs)
			if err != nil {
				t.Fatalf("n=%d total=%s: %v", n, total, err)
			}
			if got := sumOutputs(outputs); !got.Equal(dec(total)) {
				t.Errorf("n=%d total=%s: shares sum to %s", n, total, got)
			}
			// Everyone except the first must get the truncated base share.
			for i := 1; i < n; i++ {
				if outputs[i].Amount.GreaterThan(outputs[0].Amount) {
					t.Errorf("n=%d total=%s: participant %d got more than the first", n, total, i)
				}
			}
		}
	}
}

func TestPercentageSplit(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		inputs  []SplitInput
		want    []string
		wantErr error
	}{
		{
			name:  "simple halves",
			total: "100.00",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("50")},
				{UserID: 2, Percentage: decPtr("50")},
			},
			want: []string{"50.00", "50.00"},
		},
		{
			name:  "last participant absorbs rounding slack",
			total: "100.00",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("33.33")},
				{UserID: 2, Percentage: decPtr("33.33")},
				{UserID: 3, Percentage: decPtr("33.34")},
			},
			want: []string{"33.33", "33.33", "33.34"},
		},
		{
			name:  "uneven total",
			total: "10.01",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("33.33")},
				{UserID: 2, Percentage: decPtr("66.67")},
			},
			// 10.01 * 33.33% = 3.336333 -> 3.34; last gets 10.01 - 3.34
			want: []string{"3.34", "6.67"},
		},
		{
			name:  "percentages below 100 rejected",
			total: "100.00",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("49.9")},
				{UserID: 2, Percentage: decPtr("50")},
			},
			wantErr: ErrInvalidPercentages,
		},
		{
			name:  "percentages above 100 rejected",
			total: "100.00",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("50.1")},
				{UserID: 2, Percentage: decPtr("50")},
			},
			wantErr: ErrInvalidPercentages,
		},
		{
			name:  "missing percentage rejected",
			total: "100.00",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("50")},
				{UserID: 2},
			},
			wantErr: ErrMissingPercentage,
		},
		{
			name:  "negative percentage rejected",
			total: "100.00",
			inputs: []SplitInput{
				{UserID: 1, Percentage: decPtr("-10")},
				{UserID: 2, Percentage: decPtr("110")},
			},
			wantErr: ErrPercentageOutOfRange,
		},
		{
			name:    "empty mapping rejected",
			total:   "100.00",
			inputs:  nil,
			wantErr: ErrNoParticipants,
		},
	}

	s := &PercentageStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := s.Calculate(dec(tt.total), tt.inputs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() unexpected error: %v", err)
			}

			for i, want := range tt.want {
				if got := outputs[i].Amount.StringFixed(2); got != want {
					t.Errorf("share[%d] = %s, want %s", i, got, want)
				}
			}
			if got := sumOutputs(outputs); !got.Equal(dec(tt.total)) {
				t.Errorf("shares sum to %s, want %s", got, tt.total)
			}
		})
	}
}

func TestExactSplit(t *testing.T) {
	s := &ExactStrategy{}

	t.Run("quantizes half up", func(t *testing.T) {
		outputs, err := s.Calculate(dec("20.01"), []SplitInput{
			{UserID: 1, Amount: decPtr("10.005")},
			{UserID: 2, Amount: decPtr("10.004")},
		})
		if err != nil {
			t.Fatalf("Calculate() unexpected error: %v", err)
		}
		if got := outputs[0].Amount.StringFixed(2); got != "10.01" {
			t.Errorf("10.005 quantized to %s, want 10.01", got)
		}
		if got := outputs[1].Amount.StringFixed(2); got != "10.00" {
			t.Errorf("10.004 quantized to %s, want 10.00", got)
		}
	})

	t.Run("empty mapping rejected", func(t *testing.T) {
		if _, err := s.Calculate(dec("10.00"), nil); !errors.Is(err, ErrNoParticipants) {
			t.Fatalf("Calculate() error = %v, want %v", err, ErrNoParticipants)
		}
	})

	t.Run("missing amount rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("10.00"), []SplitInput{{UserID: 1}})
		if !errors.Is(err, ErrMissingExactAmount) {
			t.Fatalf("Calculate() error = %v, want %v", err, ErrMissingExactAmount)
		}
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("10.00"), []SplitInput{{UserID: 1, Amount: decPtr("-5")}})
		if !errors.Is(err, ErrNegativeAmount) {
			t.Fatalf("Calculate() error = %v, want %v", err, ErrNegativeAmount)
		}
	})
}

func TestFactory(t *testing.T) {
	f := NewSplitStrategyFactory()

	for _, st := range []SplitType{SplitTypeEqual, SplitTypePercentage, SplitTypeExact} {
		strategy, err := f.Create(st)
		if err != nil {
			t.Fatalf("Create(%s): %v", st, err)
		}
		if strategy.Type() != st {
			t.Errorf("Create(%s).Type() = %s", st, strategy.Type())
		}
	}

	if _, err := f.CreateFromString("RANDOM"); err == nil {
		t.Error("CreateFromString(RANDOM) should fail")
	}
}
