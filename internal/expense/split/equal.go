package split

import "github.com/shopspring/decimal"

// EqualStrategy divides the expense equally among all participants.
// Every participant gets a share, the payer included; the ledger later nets
// the payer's share against what they paid.
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() SplitType {
	return SplitTypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total decimal.Decimal, participants []SplitInput) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	return nil
}

// Calculate divides the total equally. The per-person share is truncated to
// two decimals and the remainder goes entirely to the first participant in
// the given order, so the shares always sum exactly to the total.
func (s *EqualStrategy) Calculate(total decimal.Decimal, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(participants)))
	perPerson := total.Div(n).RoundDown(2) // truncate, don't round
	remainder := total.Sub(perPerson.Mul(n))

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		share := perPerson
		if i == 0 {
			share = share.Add(remainder)
		}
		outputs[i] = SplitOutput{
			UserID: p.UserID,
			Amount: quantize(share),
		}
	}

	return outputs, nil
}
