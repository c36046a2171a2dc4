// Package money converts between the decimal amounts exchanged with API
// clients and the int64 cent values stored in the database. All arithmetic
// on amounts happens in cents; floats exist only at the JSON boundary.
package money

import "math"

// ToCents converts a decimal amount to cents, rounding half away from zero.
// Rounding matters: int64(49.50 * 100) truncates to 4949 on some inputs.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts a cent value to a decimal amount
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// PercentOf applies a percentage (expressed in basis points, 1% = 100 bp)
// to an amount in cents, rounding half away from zero.
func PercentOf(cents int64, basisPoints int64) int64 {
	return int64(math.Round(float64(cents) * float64(basisPoints) / 10000))
}

// ToBasisPoints converts a percentage like 7.5 to basis points (750)
func ToBasisPoints(percent float64) int64 {
	return int64(math.Round(percent * 100))
}

// FromBasisPoints converts basis points back to a percentage
func FromBasisPoints(bp int64) float64 {
	return float64(bp) / 100
}
