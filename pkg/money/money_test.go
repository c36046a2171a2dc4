package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(0), ToCents(0))
	assert.Equal(t, int64(100), ToCents(1))
	assert.Equal(t, int64(4500), ToCents(45.00))
	assert.Equal(t, int64(4950), ToCents(49.50))
	assert.Equal(t, int64(1), ToCents(0.01))
	assert.Equal(t, int64(-250), ToCents(-2.50))

	// Values whose float representation sits just below the integer;
	// plain truncation would lose a cent here.
	assert.Equal(t, int64(1999), ToCents(19.99))
	assert.Equal(t, int64(2910), ToCents(29.10))
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, 0.0, FromCents(0))
	assert.Equal(t, 49.50, FromCents(4950))
	assert.Equal(t, -2.50, FromCents(-250))
}

func TestRoundTrip(t *testing.T) {
	for _, amount := range []float64{0, 0.01, 1.10, 19.99, 45.00, 1234.56} {
		assert.Equal(t, amount, FromCents(ToCents(amount)))
	}
}

func TestPercentOf(t *testing.T) {
	// 10% of 45.00 is 4.50
	assert.Equal(t, int64(450), PercentOf(4500, 1000))
	// 7.5% of 100.00 is 7.50
	assert.Equal(t, int64(750), PercentOf(10000, 750))
	// 0% is zero
	assert.Equal(t, int64(0), PercentOf(4500, 0))
	// Sub-cent results round half away from zero: 2.5% of 0.50 is 1.25 cents
	assert.Equal(t, int64(1), PercentOf(50, 250))
}

func TestBasisPoints(t *testing.T) {
	assert.Equal(t, int64(1000), ToBasisPoints(10))
	assert.Equal(t, int64(750), ToBasisPoints(7.5))
	assert.Equal(t, int64(0), ToBasisPoints(0))
	assert.Equal(t, 7.5, FromBasisPoints(750))
	assert.Equal(t, 10.0, FromBasisPoints(1000))
}
