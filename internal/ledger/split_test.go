package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		method       SplitMethod
		total        float64
		participants []Participant
		wantErr      error
		validateFunc func(t *testing.T, splits []Split)
	}{
		{
			name:   "equal split three ways",
			method: SplitEqual,
			total:  30.0,
			participants: []Participant{
				{PersonID: "alice"}, {PersonID: "bob"}, {PersonID: "carol"},
			},
			validateFunc: func(t *testing.T, splits []Split) {
				for _, s := range splits {
					if s.Amount != 10.0 {
						t.Errorf("%s amount = %v, want 10.0", s.PersonID, s.Amount)
					}
				}
			},
		},
		{
			name:   "equal split with leftover cents",
			method: SplitEqual,
			total:  100.0,
			participants: []Participant{
				{PersonID: "alice"}, {PersonID: "bob"}, {PersonID: "carol"},
			},
			validateFunc: func(t *testing.T, splits []Split) {
				// 10000 cents / 3 = 3333 each, one leftover cent to the
				// first participant.
				want := []float64{33.34, 33.33, 33.33}
				for i, s := range splits {
					if s.Amount != want[i] {
						t.Errorf("split %d = %v, want %v", i, s.Amount, want[i])
					}
				}
				if sum := splitSum(splits); sum != 100.0 {
					t.Errorf("splits sum = %v, want exactly 100.0", sum)
				}
			},
		},
		{
			name:   "percentage 70/30",
			method: SplitPercentage,
			total:  100.0,
			participants: []Participant{
				{PersonID: "alice", Percent: 70},
				{PersonID: "bob", Percent: 30},
			},
			validateFunc: func(t *testing.T, splits []Split) {
				if splits[0].Amount != 70.0 || splits[1].Amount != 30.0 {
					t.Errorf("splits = %v/%v, want 70.00/30.00", splits[0].Amount, splits[1].Amount)
				}
				if sum := splitSum(splits); sum != 100.0 {
					t.Errorf("splits sum = %v, want exactly 100.0", sum)
				}
			},
		},
		{
			name:   "percentages not summing to 100",
			method: SplitPercentage,
			total:  100.0,
			participants: []Participant{
				{PersonID: "alice", Percent: 70},
				{PersonID: "bob", Percent: 20},
			},
			wantErr: ErrPercentMismatch,
		},
		{
			name:   "shares 2:1",
			method: SplitShares,
			total:  90.0,
			participants: []Participant{
				{PersonID: "alice", Shares: 2},
				{PersonID: "bob", Shares: 1},
			},
			validateFunc: func(t *testing.T, splits []Split) {
				if splits[0].Amount != 60.0 || splits[1].Amount != 30.0 {
					t.Errorf("splits = %v/%v, want 60.00/30.00", splits[0].Amount, splits[1].Amount)
				}
			},
		},
		{
			name:   "zero shares rejected",
			method: SplitShares,
			total:  50.0,
			participants: []Participant{
				{PersonID: "alice", Shares: 0},
				{PersonID: "bob", Shares: 0},
			},
			wantErr: ErrNoShares,
		},
		{
			name:   "fixed amounts",
			method: SplitAmount,
			total:  55.0,
			participants: []Participant{
				{PersonID: "alice", Amount: 35.0},
				{PersonID: "bob", Amount: 20.0},
			},
			validateFunc: func(t *testing.T, splits []Split) {
				if splits[0].Amount != 35.0 || splits[1].Amount != 20.0 {
					t.Errorf("splits = %v/%v, want 35.00/20.00", splits[0].Amount, splits[1].Amount)
				}
			},
		},
		{
			name:   "fixed amounts not summing to total",
			method: SplitAmount,
			total:  55.0,
			participants: []Participant{
				{PersonID: "alice", Amount: 35.0},
				{PersonID: "bob", Amount: 10.0},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:   "adjustment on equal base",
			method: SplitAdjustment,
			total:  40.0,
			participants: []Participant{
				{PersonID: "alice", Adjustment: 5.0},
				{PersonID: "bob", Adjustment: -5.0},
			},
			validateFunc: func(t *testing.T, splits []Split) {
				if splits[0].Amount != 25.0 || splits[1].Amount != 15.0 {
					t.Errorf("splits = %v/%v, want 25.00/15.00", splits[0].Amount, splits[1].Amount)
				}
			},
		},
		{
			name:   "adjustments must cancel out",
			method: SplitAdjustment,
			total:  40.0,
			participants: []Participant{
				{PersonID: "alice", Adjustment: 5.0},
				{PersonID: "bob", Adjustment: 0},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:         "no participants",
			method:       SplitEqual,
			total:        10.0,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:   "zero total",
			method: SplitEqual,
			total:  0,
			participants: []Participant{
				{PersonID: "alice"},
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name:   "duplicate participant",
			method: SplitEqual,
			total:  10.0,
			participants: []Participant{
				{PersonID: "alice"}, {PersonID: "alice"},
			},
			wantErr: ErrDuplicatePartner,
		},
		{
			name:   "unknown method",
			method: SplitMethod("random"),
			total:  10.0,
			participants: []Participant{
				{PersonID: "alice"},
			},
			wantErr: ErrUnknownMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplits(tt.method, tt.total, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeSplits() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplits() unexpected error: %v", err)
			}
			if len(splits) != len(tt.participants) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.participants))
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

// Splits are computed once at creation and stored; re-running the
// computation with different percentage metadata never changes what was
// stored, and stored splits always sum to the total.
func TestSplitsFrozenAtCreation(t *testing.T) {
	frozen, err := ComputeSplits(SplitPercentage, 100.0, []Participant{
		{PersonID: "alice", Percent: 70},
		{PersonID: "bob", Percent: 30},
	})
	if err != nil {
		t.Fatalf("ComputeSplits failed: %v", err)
	}

	// Metadata changes later; the frozen amounts are untouched.
	_, err = ComputeSplits(SplitPercentage, 100.0, []Participant{
		{PersonID: "alice", Percent: 50},
		{PersonID: "bob", Percent: 50},
	})
	if err != nil {
		t.Fatalf("ComputeSplits failed: %v", err)
	}

	if frozen[0].Amount != 70.0 || frozen[1].Amount != 30.0 {
		t.Errorf("frozen splits = %v/%v, want 70.00/30.00", frozen[0].Amount, frozen[1].Amount)
	}
	if sum := splitSum(frozen); sum != 100.0 {
		t.Errorf("frozen splits sum = %v, want exactly 100.0", sum)
	}
}

func TestValidatePayers(t *testing.T) {
	payers := []Payer{
		{PersonID: "alice", Amount: 60.0},
		{PersonID: "bob", Amount: 40.0},
	}
	if err := ValidatePayers(100.0, payers); err != nil {
		t.Errorf("ValidatePayers() = %v, want nil", err)
	}
	if err := ValidatePayers(120.0, payers); !errors.Is(err, ErrPayerMismatch) {
		t.Errorf("ValidatePayers() = %v, want ErrPayerMismatch", err)
	}
	// Within the one-cent tolerance.
	if err := ValidatePayers(100.009, payers); err != nil {
		t.Errorf("ValidatePayers() within epsilon = %v, want nil", err)
	}
}

func TestWeightedSplitsAlwaysSumToTotal(t *testing.T) {
	totals := []float64{0.01, 0.05, 1.00, 33.33, 99.99, 12345.67}
	for _, total := range totals {
		splits, err := ComputeSplits(SplitEqual, total, []Participant{
			{PersonID: "a"}, {PersonID: "b"}, {PersonID: "c"}, {PersonID: "d"}, {PersonID: "e"}, {PersonID: "f"}, {PersonID: "g"},
		})
		if err != nil {
			t.Fatalf("total %v: %v", total, err)
		}
		if diff := math.Abs(splitSum(splits) - total); diff > 1e-9 {
			t.Errorf("total %v: splits sum off by %v", total, diff)
		}
	}
}

func splitSum(splits []Split) float64 {
	var sum float64
	for _, s := range splits {
		sum += s.Amount
	}
	return sum
}
