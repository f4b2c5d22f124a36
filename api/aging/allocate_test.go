package aging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOf(t *testing.T, day, amount string) *pendingInvoice {
	t.Helper()
	return &pendingInvoice{
		Date:      date(t, day),
		Amount:    dec(amount),
		Remaining: dec(amount),
		PaidAfter: dec("0"),
	}
}

func TestPaymentsAfterCutoff(t *testing.T) {
	cutoff := date(t, "2025-03-31")
	txns := []Transaction{
		tx(t, "Acme", "2025-03-31", "100", "0"), // on the cutoff, not after
		tx(t, "Acme", "2025-04-20", "300", "0"),
		tx(t, "Acme", "2025-04-05", "0", "500"), // credit, not a payment
		tx(t, "Acme", "2025-04-02", "150", "0"),
	}
	payments := paymentsAfterCutoff(txns, cutoff)
	require.Len(t, payments, 2)
	assert.Equal(t, date(t, "2025-04-02"), payments[0].Date)
	assert.Equal(t, date(t, "2025-04-20"), payments[1].Date)
	assert.True(t, payments[0].Remaining.Equal(dec("150")))
}

func TestAllocatePayments(t *testing.T) {
	t.Run("oldest payment fills oldest invoice first", func(t *testing.T) {
		invoices := []*pendingInvoice{
			pendingOf(t, "2025-01-01", "100"),
			pendingOf(t, "2025-02-01", "200"),
			pendingOf(t, "2025-03-01", "300"),
		}
		payments := []postCutoffPayment{
			{Date: date(t, "2025-04-10"), Remaining: dec("150")},
		}
		allocatePayments(invoices, payments)

		assert.True(t, invoices[0].Remaining.IsZero())
		assert.True(t, invoices[0].PaidAfter.Equal(dec("100")))
		assert.True(t, invoices[1].Remaining.Equal(dec("150")))
		assert.True(t, invoices[1].PaidAfter.Equal(dec("50")))
		assert.True(t, invoices[2].Remaining.Equal(dec("300")))
		assert.Nil(t, invoices[2].PaidDate)
	})

	t.Run("paid date tracks the last payment touching the invoice", func(t *testing.T) {
		invoices := []*pendingInvoice{pendingOf(t, "2025-01-01", "100")}
		payments := []postCutoffPayment{
			{Date: date(t, "2025-04-05"), Remaining: dec("60")},
			{Date: date(t, "2025-04-20"), Remaining: dec("40")},
		}
		allocatePayments(invoices, payments)

		assert.True(t, invoices[0].Remaining.IsZero())
		require.NotNil(t, invoices[0].PaidDate)
		assert.Equal(t, date(t, "2025-04-20"), *invoices[0].PaidDate)
	})

	t.Run("surplus beyond the open invoices is discarded", func(t *testing.T) {
		invoices := []*pendingInvoice{pendingOf(t, "2025-01-01", "100")}
		payments := []postCutoffPayment{
			{Date: date(t, "2025-04-05"), Remaining: dec("250")},
		}
		allocatePayments(invoices, payments)

		assert.True(t, invoices[0].Remaining.IsZero())
		assert.True(t, invoices[0].PaidAfter.Equal(dec("100")))
	})

	t.Run("no payments leaves invoices untouched", func(t *testing.T) {
		invoices := []*pendingInvoice{pendingOf(t, "2025-01-01", "100")}
		allocatePayments(invoices, nil)

		assert.True(t, invoices[0].Remaining.Equal(dec("100")))
		assert.True(t, invoices[0].PaidAfter.IsZero())
		assert.Nil(t, invoices[0].PaidDate)
	})
}
