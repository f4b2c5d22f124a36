package aging

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(t *testing.T, party, day, debit, credit string) Transaction {
	t.Helper()
	return Transaction{
		Party:  party,
		Date:   date(t, day),
		Debit:  dec(debit),
		Credit: dec(credit),
	}
}

func TestReconcileParty(t *testing.T) {
	cutoff := date(t, "2025-03-31")

	t.Run("payment drains oldest bill first", func(t *testing.T) {
		txns := []Transaction{
			tx(t, "Acme", "2025-01-01", "0", "100"),
			tx(t, "Acme", "2025-01-10", "0", "200"),
			tx(t, "Acme", "2025-02-01", "150", "0"),
		}
		bills, advances := reconcileParty(txns, cutoff)
		require.Len(t, bills, 1)
		assert.Empty(t, advances)
		assert.Equal(t, date(t, "2025-01-10"), bills[0].Date)
		assert.True(t, bills[0].Unpaid().Equal(dec("150")))
		assert.True(t, bills[0].Matched.Equal(dec("50")))
	})

	t.Run("excess payment becomes an advance", func(t *testing.T) {
		txns := []Transaction{
			tx(t, "Acme", "2025-01-01", "0", "100"),
			tx(t, "Acme", "2025-02-01", "300", "0"),
		}
		bills, advances := reconcileParty(txns, cutoff)
		assert.Empty(t, bills)
		require.Len(t, advances, 1)
		assert.True(t, advances[0].Amount.Equal(dec("200")))
		assert.Equal(t, date(t, "2025-02-01"), advances[0].Date)
	})

	t.Run("new bill consumes queued advances first", func(t *testing.T) {
		txns := []Transaction{
			tx(t, "Acme", "2025-01-01", "500", "0"),
			tx(t, "Acme", "2025-02-01", "0", "300"),
		}
		bills, advances := reconcileParty(txns, cutoff)
		assert.Empty(t, bills)
		require.Len(t, advances, 1)
		assert.True(t, advances[0].Amount.Equal(dec("200")))
	})

	t.Run("post-cutoff transactions are ignored", func(t *testing.T) {
		txns := []Transaction{
			tx(t, "Acme", "2025-01-01", "0", "100"),
			tx(t, "Acme", "2025-04-15", "100", "0"),
		}
		bills, advances := reconcileParty(txns, cutoff)
		require.Len(t, bills, 1)
		assert.Empty(t, advances)
		assert.True(t, bills[0].Unpaid().Equal(dec("100")))
	})

	t.Run("balance invariant holds", func(t *testing.T) {
		txns := []Transaction{
			tx(t, "Acme", "2025-01-01", "0", "750"),
			tx(t, "Acme", "2025-01-05", "200", "0"),
			tx(t, "Acme", "2025-01-20", "0", "125.25"),
			tx(t, "Acme", "2025-02-02", "600", "0"),
			tx(t, "Acme", "2025-02-15", "0", "90"),
			tx(t, "Acme", "2025-03-01", "40", "0"),
		}
		bills, advances := reconcileParty(txns, cutoff)

		open := decimal.Zero
		for _, b := range bills {
			open = open.Add(b.Unpaid())
		}
		adv := decimal.Zero
		for _, a := range advances {
			adv = adv.Add(a.Amount)
		}
		net := decimal.Zero
		for _, x := range txns {
			net = net.Add(x.Credit).Sub(x.Debit)
		}
		assert.True(t, open.Sub(adv).Equal(net), "open %s - advances %s != net %s", open, adv, net)
	})
}

func TestClassifyAging(t *testing.T) {
	cutoff := date(t, "2025-03-31")

	t.Run("every open invoice lands in exactly one bucket", func(t *testing.T) {
		bills := []*OpenInvoice{
			{Date: date(t, "2025-03-01"), Amount: dec("100")}, // 30 days
			{Date: date(t, "2025-02-04"), Amount: dec("200")}, // 55 days
			{Date: date(t, "2025-01-15"), Amount: dec("300")}, // 75 days
			{Date: date(t, "2024-11-01"), Amount: dec("400")}, // 150 days
		}
		summary, logRows, pending := classifyAging("Acme", bills, nil, cutoff)

		assert.True(t, summary.Bucket0to45.Equal(dec("100")))
		assert.True(t, summary.Bucket46to60.Equal(dec("200")))
		assert.True(t, summary.Bucket61to90.Equal(dec("300")))
		assert.True(t, summary.BucketOver90.Equal(dec("400")))

		bucketTotal := summary.Bucket0to45.
			Add(summary.Bucket46to60).
			Add(summary.Bucket61to90).
			Add(summary.BucketOver90)
		assert.True(t, summary.TotalOutstanding.Equal(bucketTotal))

		require.Len(t, logRows, 4)
		assert.Equal(t, 30, logRows[0].AgeDays)
		assert.Equal(t, Bucket0to45, logRows[0].Bucket)
		assert.Equal(t, Bucket46to60, logRows[1].Bucket)
		assert.Equal(t, Bucket61to90, logRows[2].Bucket)
		assert.Equal(t, BucketOver90, logRows[3].Bucket)
		assert.Len(t, pending, 4)
	})

	t.Run("bucket boundaries are inclusive on the upper end", func(t *testing.T) {
		assert.Equal(t, Bucket0to45, bucketFor(45))
		assert.Equal(t, Bucket46to60, bucketFor(46))
		assert.Equal(t, Bucket46to60, bucketFor(60))
		assert.Equal(t, Bucket61to90, bucketFor(61))
		assert.Equal(t, Bucket61to90, bucketFor(90))
		assert.Equal(t, BucketOver90, bucketFor(91))
		assert.Equal(t, Bucket0to45, bucketFor(0))
	})

	t.Run("fully matched bills are excluded, advances are totalled", func(t *testing.T) {
		bills := []*OpenInvoice{
			{Date: date(t, "2025-03-01"), Amount: dec("100"), Matched: dec("100")},
		}
		advances := []*OpenAdvance{
			{Date: date(t, "2025-01-01"), Amount: dec("500")},
			{Date: date(t, "2025-02-01"), Amount: dec("250")},
		}
		summary, logRows, pending := classifyAging("Beta", bills, advances, cutoff)
		assert.Empty(t, logRows)
		assert.Empty(t, pending)
		assert.True(t, summary.TotalOutstanding.IsZero())
		assert.True(t, summary.AdvanceToSupplier.Equal(dec("750")))
	})
}

func TestAgeDays(t *testing.T) {
	assert.Equal(t, 0, ageDays(date(t, "2025-03-31"), date(t, "2025-03-31")))
	assert.Equal(t, 45, ageDays(date(t, "2025-02-14"), date(t, "2025-03-31")))
	assert.Equal(t, 90, ageDays(date(t, "2024-12-31"), date(t, "2025-03-31")))
}
