package ledger

import (
	"fmt"
	"math"
)

// Add returns a+b for non-negative ledger amounts, failing on overflow.
func Add(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, fmt.Errorf("%d + %d: %w", a, b, ErrOverflow)
	}

	return a + b, nil
}

// Sub returns a-b, failing when the result would drop below zero.
func Sub(a, b int64) (int64, error) {
	if b > a {
		return 0, fmt.Errorf("%d - %d: %w", a, b, ErrUnderflow)
	}

	return a - b, nil
}

// Mul returns a*b for non-negative operands, failing on overflow.
func Mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	if a > math.MaxInt64/b {
		return 0, fmt.Errorf("%d * %d: %w", a, b, ErrOverflow)
	}

	return a * b, nil
}
