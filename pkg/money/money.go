// Package money holds the fixed-point helpers every amount field goes
// through. All derived monetary values are quantized to 2 decimal
// places, rounding half-up, before they are stored, compared or summed.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 quantizes to 2 fractional digits. shopspring rounds half away
// from zero, which equals half-up for the non-negative amounts this
// system deals in.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns base*rate/100 rounded to 2 decimal places.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(rate).Div(hundred))
}

// FromPtr dereferences an optional amount, treating nil as zero.
func FromPtr(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// Ptr returns a pointer to d, for optional model fields.
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
