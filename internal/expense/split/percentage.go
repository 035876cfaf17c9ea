package split

import "github.com/shopspring/decimal"

// PercentageStrategy divides the expense according to per-participant
// percentages, which must sum to exactly 100.
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() SplitType {
	return SplitTypePercentage
}

// Validate checks if the inputs are valid for a percentage split.
// The sum is compared exactly: 99.9 or 100.1 are rejected, there is no
// floating-point tolerance.
func (s *PercentageStrategy) Validate(total decimal.Decimal, participants []SplitInput) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}

	totalPct := decimal.Zero
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(oneHundred) {
			return ErrPercentageOutOfRange
		}
		totalPct = totalPct.Add(*p.Percentage)
	}

	if !totalPct.Equal(oneHundred) {
		return ErrInvalidPercentages
	}

	return nil
}

// Calculate computes each participant's share from their percentage. Every
// share except the last is rounded half up to two decimals; the last
// participant receives whatever is left, so the shares always reconcile to
// the total exactly. Which participant is last follows the caller's order.
func (s *PercentageStrategy) Calculate(total decimal.Decimal, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	outputs := make([]SplitOutput, len(participants))
	runningTotal := decimal.Zero

	for i, p := range participants {
		if i == len(participants)-1 {
			outputs[i] = SplitOutput{
				UserID: p.UserID,
				Amount: total.Sub(runningTotal),
			}
			break
		}

		share := quantize(total.Mul(*p.Percentage).Div(oneHundred))
		runningTotal = runningTotal.Add(share)
		outputs[i] = SplitOutput{
			UserID: p.UserID,
			Amount: share,
		}
	}

	return outputs, nil
}
