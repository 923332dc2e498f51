package domain

import "fmt"

// PrizeLadder holds one payout per question position. Safe havens are positions whose
// amount is guaranteed once they have been passed.
type PrizeLadder struct {
	Amounts    []int64 `json:"amounts" yaml:"amounts"`
	SafeHavens []int   `json:"safeHavens" yaml:"safe_havens"`
}

// DefaultLadder is the 16 rung ladder topping out at 7 crore.
func DefaultLadder() PrizeLadder {
	return PrizeLadder{
		Amounts: []int64{
			1000, 2000, 3000, 5000, 10000,
			20000, 40000, 80000, 160000, 320000,
			640000, 1250000, 2500000, 5000000, 10000000, 70000000,
		},
		SafeHavens: []int{4, 9, 14},
	}
}

func (l PrizeLadder) Len() int {
	return len(l.Amounts)
}

// Amount returns the payout at position i, or 0 outside the ladder.
func (l PrizeLadder) Amount(i int) int64 {
	if i < 0 || i >= len(l.Amounts) {
		return 0
	}
	return l.Amounts[i]
}

func (l PrizeLadder) IsSafeHaven(i int) bool {
	for _, idx := range l.SafeHavens {
		if idx == i {
			return true
		}
	}
	return false
}

// SafeFloor returns the amount at the highest safe haven strictly below pos, or 0.
func (l PrizeLadder) SafeFloor(pos int) int64 {
	var floor int64
	best := -1
	for _, idx := range l.SafeHavens {
		if idx < pos && idx > best {
			best = idx
			floor = l.Amount(idx)
		}
	}
	return floor
}

// Validate checks that amounts never decrease and safe havens point inside the ladder.
func (l PrizeLadder) Validate() error {
	if len(l.Amounts) == 0 {
		return fmt.Errorf("%w: no amounts", ErrInvalidLadder)
	}
	for i := 1; i < len(l.Amounts); i++ {
		if l.Amounts[i] < l.Amounts[i-1] {
			return fmt.Errorf("%w: amount at %d is lower than the one before it", ErrInvalidLadder, i)
		}
	}
	for _, idx := range l.SafeHavens {
		if idx < 0 || idx >= len(l.Amounts) {
			return fmt.Errorf("%w: safe haven %d outside ladder", ErrInvalidLadder, idx)
		}
	}
	return nil
}
