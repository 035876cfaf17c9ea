package split

import "github.com/shopspring/decimal"

// ExactStrategy takes a caller-specified amount per participant. The sum of
// the amounts against the expense total is validated at the call site, not
// here; this strategy only quantizes each value.
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() SplitType {
	return SplitTypeExact
}

// Validate checks if the inputs are valid for an exact split
func (s *ExactStrategy) Validate(total decimal.Decimal, participants []SplitInput) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

// Calculate returns each specified amount quantized half up to two decimals.
func (s *ExactStrategy) Calculate(total decimal.Decimal, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			UserID: p.UserID,
			Amount: quantize(*p.Amount),
		}
	}

	return outputs, nil
}
