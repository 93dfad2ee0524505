package entity

import (
	"math"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money is stored and compared at.
const MoneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)

	// PriceEpsilon is the tolerance under which two prices are considered equal.
	PriceEpsilon = decimal.New(1, -MoneyPlaces)
)

// RoundMoney rounds half away from zero to two places. Money in this
// package is never negative, so this is round-half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// NonNegative floors d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// PricesDiffer reports whether a and b differ by more than PriceEpsilon.
func PricesDiffer(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(PriceEpsilon)
}

// MoneyFromFloat converts an untrusted float. NaN and infinities become zero
// and ok is false.
func MoneyFromFloat(f float64) (d decimal.Decimal, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}

	return decimal.NewFromFloat(f), true
}

// LineAmount is unit price times quantity, unrounded.
func LineAmount(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}
