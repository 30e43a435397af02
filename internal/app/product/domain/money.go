package domain

import (
	"fmt"
	"math"
	"math/big"
)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
// It is stored as numerator/denominator so no precision is lost on the way to the database.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(249900, 100) represents $2499.00
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// ParseMoney parses a decimal string such as "9.99".
func ParseMoney(s string) (*Money, error) {
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid money amount %q", s)
	}
	return &Money{rat: rat}, nil
}

// Numerator returns the numerator of the normalized value.
// It fails with ErrMoneyOverflow when the numerator does not fit in an int64.
func (m *Money) Numerator() (int64, error) {
	num := m.rat.Num()
	if !num.IsInt64() {
		return 0, ErrMoneyOverflow
	}
	return num.Int64(), nil
}

// Denominator returns the denominator of the normalized value.
func (m *Money) Denominator() (int64, error) {
	denom := m.rat.Denom()
	if !denom.IsInt64() {
		return 0, ErrMoneyOverflow
	}
	return denom.Int64(), nil
}

// IsSafeForStorage reports whether both parts fit the int64 storage columns.
func (m *Money) IsSafeForStorage() bool {
	return m.rat.Num().IsInt64() && m.rat.Denom().IsInt64() &&
		m.rat.Num().Int64() != math.MinInt64
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(other.rat) == 0
}

// Float64 returns an approximate float64 representation (for display only, not calculations).
func (m *Money) Float64() float64 {
	f, _ := m.rat.Float64()
	return f
}

// String returns the value with two decimal places.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// Copy creates a deep copy of this Money instance.
func (m *Money) Copy() *Money {
	return &Money{rat: new(big.Rat).Set(m.rat)}
}
