package aging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	cutoff := date(t, "2025-01-31")

	t.Run("invoice paid in full within 45 days is allowed", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Acme", "2025-01-01", "0", "1000"),
				tx(t, "Acme", "2025-02-10", "1000", "0"),
			},
			Cutoff: cutoff,
		}
		res := Run(req)

		require.Len(t, res.Disallowance, 1)
		rec := res.Disallowance[0]
		assert.Equal(t, "Yes", rec.Within45Days)
		assert.Equal(t, "No", rec.Disallowed)
		assert.True(t, rec.PaidAfter.Equal(dec("1000")))
		assert.True(t, rec.UnpaidAfter.IsZero())
		require.NotNil(t, rec.PaidDateAfter)
		assert.Equal(t, date(t, "2025-02-10"), *rec.PaidDateAfter)
	})

	t.Run("invoice paid after the 45 day deadline is disallowed", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Acme", "2025-01-01", "0", "1000"),
				tx(t, "Acme", "2025-02-20", "1000", "0"),
			},
			Cutoff: cutoff,
		}
		res := Run(req)

		require.Len(t, res.Disallowance, 1)
		rec := res.Disallowance[0]
		assert.Equal(t, "No", rec.Within45Days)
		assert.Equal(t, "Yes", rec.Disallowed)
	})

	t.Run("partial payment is never on time", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Acme", "2025-01-01", "0", "1000"),
				tx(t, "Acme", "2025-02-10", "400", "0"),
			},
			Cutoff: cutoff,
		}
		res := Run(req)

		require.Len(t, res.Disallowance, 1)
		rec := res.Disallowance[0]
		assert.Equal(t, "No", rec.Within45Days)
		assert.Equal(t, "Yes", rec.Disallowed)
		assert.True(t, rec.UnpaidAfter.Equal(dec("600")))
		assert.True(t, rec.PaidAfter.Equal(dec("400")))
	})

	t.Run("exemption overrides a late payment verdict", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Acme", "2025-01-01", "0", "1000"),
			},
			Cutoff: cutoff,
			Msme: []MsmeRow{
				{SupplierName: "Acme", Registered: "No"},
			},
		}
		res := Run(req)

		require.Len(t, res.Disallowance, 1)
		rec := res.Disallowance[0]
		assert.Equal(t, "Exempt", rec.Within45Days)
		assert.Equal(t, "No", rec.Disallowed)
		assert.Equal(t, "Yes", rec.ExemptionApplied)
		assert.Equal(t, "Non-MSME registered", rec.ExemptionReason)
	})

	t.Run("fully matched party produces no invoice rows", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Acme", "2025-01-01", "0", "1000"),
				tx(t, "Acme", "2025-01-15", "1000", "0"),
			},
			Cutoff: cutoff,
		}
		res := Run(req)

		require.Len(t, res.Summary, 1)
		assert.True(t, res.Summary[0].TotalOutstanding.IsZero())
		assert.Empty(t, res.InvoiceLog)
		assert.Empty(t, res.Disallowance)
	})

	t.Run("debit with no bills shows up as an advance", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Beta", "2025-01-10", "500", "0"),
			},
			Cutoff: cutoff,
		}
		res := Run(req)

		require.Len(t, res.Summary, 1)
		assert.True(t, res.Summary[0].AdvanceToSupplier.Equal(dec("500")))
		assert.True(t, res.Summary[0].TotalOutstanding.IsZero())
		assert.Empty(t, res.Disallowance)
	})

	t.Run("parties come out in sorted order", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Zen", "2025-01-01", "0", "10"),
				tx(t, "Acme", "2025-01-01", "0", "20"),
				tx(t, "Mid", "2025-01-01", "0", "30"),
			},
			Cutoff: cutoff,
		}
		res := Run(req)

		require.Len(t, res.Summary, 3)
		assert.Equal(t, "Acme", res.Summary[0].Party)
		assert.Equal(t, "Mid", res.Summary[1].Party)
		assert.Equal(t, "Zen", res.Summary[2].Party)
	})

	t.Run("same request twice gives identical results", func(t *testing.T) {
		req := Request{
			Ledger: []Transaction{
				tx(t, "Acme", "2025-01-01", "0", "1000"),
				tx(t, "Acme", "2025-01-20", "300", "0"),
				tx(t, "Acme", "2025-02-10", "500", "0"),
				tx(t, "Beta", "2025-01-05", "0", "250"),
				tx(t, "Beta", "2025-01-06", "400", "0"),
			},
			Cutoff: cutoff,
			Msme: []MsmeRow{
				{SupplierName: "Beta", Registered: "Yes", Category: "Medium"},
			},
		}
		first := Run(req)
		second := Run(req)
		assert.Equal(t, first, second)
	})
}
