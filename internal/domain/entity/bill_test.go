package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawmark/vetcare-api/internal/domain/enum"
)

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, enum.PaymentStatusUnpaid, DerivePaymentStatus(0, 4950))
	assert.Equal(t, enum.PaymentStatusUnpaid, DerivePaymentStatus(-100, 4950))
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, DerivePaymentStatus(2000, 4950))
	assert.Equal(t, enum.PaymentStatusFullyPaid, DerivePaymentStatus(4950, 4950))
	assert.Equal(t, enum.PaymentStatusFullyPaid, DerivePaymentStatus(5000, 4950))
}

func TestBillRecalculate(t *testing.T) {
	t.Run("tax on discounted subtotal", func(t *testing.T) {
		// 45.00 subtotal, no discount, 10% tax -> 49.50 total
		bill := &Bill{SubTotal: 4500, TaxBP: 1000}
		bill.Recalculate()

		assert.Equal(t, int64(0), bill.Discount)
		assert.Equal(t, int64(450), bill.Tax)
		assert.Equal(t, int64(4950), bill.Total)
		assert.Equal(t, int64(4950), bill.Balance)
		assert.Equal(t, enum.PaymentStatusUnpaid, bill.PaymentStatus)
	})

	t.Run("percentage discount overrides flat amount", func(t *testing.T) {
		// 100.00 subtotal, 10% discount, 5% tax on the discounted base
		bill := &Bill{SubTotal: 10000, DiscountBP: 1000, Discount: 9999, TaxBP: 500}
		bill.Recalculate()

		assert.Equal(t, int64(1000), bill.Discount)
		assert.Equal(t, int64(450), bill.Tax)
		assert.Equal(t, int64(9450), bill.Total)
	})

	t.Run("flat discount", func(t *testing.T) {
		bill := &Bill{SubTotal: 10000, Discount: 2500}
		bill.Recalculate()

		assert.Equal(t, int64(2500), bill.Discount)
		assert.Equal(t, int64(0), bill.Tax)
		assert.Equal(t, int64(7500), bill.Total)
	})

	t.Run("partial payment", func(t *testing.T) {
		bill := &Bill{SubTotal: 4500, TaxBP: 1000, Paid: 2000}
		bill.Recalculate()

		assert.Equal(t, int64(2950), bill.Balance)
		assert.Equal(t, enum.PaymentStatusPartiallyPaid, bill.PaymentStatus)
	})

	t.Run("full payment", func(t *testing.T) {
		bill := &Bill{SubTotal: 4500, Paid: 4500}
		bill.Recalculate()

		assert.Equal(t, int64(0), bill.Balance)
		assert.Equal(t, enum.PaymentStatusFullyPaid, bill.PaymentStatus)
	})

	t.Run("cancelled is never rederived", func(t *testing.T) {
		bill := &Bill{SubTotal: 4500, Paid: 4500, PaymentStatus: enum.PaymentStatusCancelled}
		bill.Recalculate()

		assert.Equal(t, enum.PaymentStatusCancelled, bill.PaymentStatus)
	})
}

func TestBillIsCancelled(t *testing.T) {
	bill := &Bill{PaymentStatus: enum.PaymentStatusUnpaid}
	assert.False(t, bill.IsCancelled())

	bill.PaymentStatus = enum.PaymentStatusCancelled
	assert.True(t, bill.IsCancelled())
}
