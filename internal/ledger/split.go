package ledger

import (
	"errors"
	"fmt"
	"math"
)

// Split computation runs once, when an expense is recorded. The resulting
// amounts are stored verbatim and become the source of truth for every
// balance read; percentage/share parameters are kept only as display
// metadata. Changing participants after creation never rewrites existing
// splits.

var (
	ErrNoParticipants   = errors.New("expense must have at least one participant")
	ErrInvalidAmount    = errors.New("expense amount must be positive")
	ErrSplitMismatch    = errors.New("split amounts must sum to the expense amount")
	ErrPercentMismatch  = errors.New("percentages must sum to 100")
	ErrNoShares         = errors.New("share weights must sum to a positive value")
	ErrNegativeSplit    = errors.New("adjustment produces a negative share")
	ErrUnknownMethod    = errors.New("unknown split method")
	ErrPayerMismatch    = errors.New("payer contributions must sum to the expense amount")
	ErrDuplicatePartner = errors.New("participant listed more than once")
)

// Participant is one person's input to split computation. Which field is
// read depends on the method: Amount for SplitAmount, Percent for
// SplitPercentage, Shares for SplitShares, Adjustment for
// SplitAdjustment. SplitEqual uses none.
type Participant struct {
	PersonID   string
	Amount     float64
	Percent    float64
	Shares     float64
	Adjustment float64
}

// ComputeSplits derives the frozen split amounts for a new expense.
// Computed methods (equal, percentage, shares, adjustment) allocate whole
// cents largest-remainder style so the splits always sum exactly to the
// total; the amount method validates the caller's figures against the
// total within Epsilon.
func ComputeSplits(method SplitMethod, total float64, participants []Participant) ([]Split, error) {
	if total <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.PersonID == "" {
			return nil, fmt.Errorf("%w: empty person id", ErrNoParticipants)
		}
		if seen[p.PersonID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePartner, p.PersonID)
		}
		seen[p.PersonID] = true
	}

	switch method {
	case SplitEqual:
		weights := make([]float64, len(participants))
		for i := range weights {
			weights[i] = 1
		}
		return weightedSplits(total, participants, weights)

	case SplitAmount:
		var sum float64
		splits := make([]Split, len(participants))
		for i, p := range participants {
			if p.Amount < 0 {
				return nil, ErrNegativeSplit
			}
			splits[i] = Split{PersonID: p.PersonID, Amount: p.Amount}
			sum += p.Amount
		}
		if math.Abs(sum-total) > Epsilon {
			return nil, fmt.Errorf("%w: got %.2f, want %.2f", ErrSplitMismatch, sum, total)
		}
		return splits, nil

	case SplitPercentage:
		var sum float64
		weights := make([]float64, len(participants))
		for i, p := range participants {
			if p.Percent < 0 {
				return nil, ErrNegativeSplit
			}
			weights[i] = p.Percent
			sum += p.Percent
		}
		if math.Abs(sum-100) > Epsilon {
			return nil, fmt.Errorf("%w: got %.2f", ErrPercentMismatch, sum)
		}
		return weightedSplits(total, participants, weights)

	case SplitShares:
		var sum float64
		weights := make([]float64, len(participants))
		for i, p := range participants {
			if p.Shares < 0 {
				return nil, ErrNegativeSplit
			}
			weights[i] = p.Shares
			sum += p.Shares
		}
		if sum <= 0 {
			return nil, ErrNoShares
		}
		return weightedSplits(total, participants, weights)

	case SplitAdjustment:
		// Equal base share plus a signed per-person delta. The deltas
		// must cancel out so the splits still sum to the total.
		weights := make([]float64, len(participants))
		var adjSum float64
		for i, p := range participants {
			weights[i] = 1
			adjSum += p.Adjustment
		}
		if math.Abs(adjSum) > Epsilon {
			return nil, fmt.Errorf("%w: adjustments sum to %.2f", ErrSplitMismatch, adjSum)
		}
		base, err := weightedSplits(total, participants, weights)
		if err != nil {
			return nil, err
		}
		for i, p := range participants {
			base[i].Amount = roundCents(base[i].Amount + p.Adjustment)
			if base[i].Amount < 0 {
				return nil, fmt.Errorf("%w: %s", ErrNegativeSplit, p.PersonID)
			}
		}
		return base, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// ValidatePayers checks that a multi-payer contribution set reconciles
// against the expense total within Epsilon.
func ValidatePayers(total float64, payers []Payer) error {
	if len(payers) == 0 {
		return nil
	}
	var sum float64
	for _, p := range payers {
		if p.Amount < 0 {
			return fmt.Errorf("%w: negative contribution for %s", ErrPayerMismatch, p.PersonID)
		}
		sum += p.Amount
	}
	if math.Abs(sum-total) > Epsilon {
		return fmt.Errorf("%w: got %.2f, want %.2f", ErrPayerMismatch, sum, total)
	}
	return nil
}

// weightedSplits allocates the total across participants in proportion to
// the weights, in whole cents. Leftover cents after flooring go to the
// largest fractional remainders, ties broken by input order.
func weightedSplits(total float64, participants []Participant, weights []float64) ([]Split, error) {
	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	if weightSum <= 0 {
		return nil, ErrNoShares
	}

	totalCents := int64(math.Round(total * 100))
	cents := make([]int64, len(weights))
	remainders := make([]float64, len(weights))
	var allocated int64
	for i, w := range weights {
		exact := float64(totalCents) * w / weightSum
		cents[i] = int64(math.Floor(exact))
		remainders[i] = exact - float64(cents[i])
		allocated += cents[i]
	}

	for leftover := totalCents - allocated; leftover > 0; leftover-- {
		best := -1
		for i, r := range remainders {
			if best == -1 || r > remainders[best] {
				best = i
			}
		}
		cents[best]++
		remainders[best] = -1
	}

	splits := make([]Split, len(participants))
	for i, p := range participants {
		splits[i] = Split{PersonID: p.PersonID, Amount: float64(cents[i]) / 100}
	}
	return splits, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
