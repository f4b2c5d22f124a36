package aging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestParseLedger(t *testing.T) {
	t.Run("marker rows assign parties and noise is dropped", func(t *testing.T) {
		rows := [][]string{
			{"This row precedes any marker", "", "", "", "", "10", ""},
			{"Ledger:", "Acme Traders"},
			{"Date", "Particulars", "", "", "", "Debit", "Credit"},
			{"01-04-2024", "Purchase", "", "", "", "", "1000"},
			{"15/05/2024", "Payment", "", "", "", "400", ""},
			{"Total", "", "", "", "", "400", "1000"},
			{"01-01-1999", "Opening balance", "", "", "", "", "50"},
			{"ledger:", "Beta Supplies"},
			{"02-04-2024", "Purchase", "", "", "", "", "2,500.50"},
		}
		txns := ParseLedger(rows)
		require.Len(t, txns, 3)

		assert.Equal(t, "Acme Traders", txns[0].Party)
		assert.Equal(t, date(t, "2024-04-01"), txns[0].Date)
		assert.True(t, txns[0].Credit.Equal(dec("1000")))
		assert.True(t, txns[0].Debit.IsZero())

		assert.Equal(t, "Acme Traders", txns[1].Party)
		assert.Equal(t, date(t, "2024-05-15"), txns[1].Date)
		assert.True(t, txns[1].Debit.Equal(dec("400")))

		assert.Equal(t, "Beta Supplies", txns[2].Party)
		assert.True(t, txns[2].Credit.Equal(dec("2500.50")))
	})

	t.Run("unparseable amount cell drops the whole row", func(t *testing.T) {
		rows := [][]string{
			{"Ledger:", "Acme"},
			{"01-04-2024", "", "", "", "", "abc", ""},
			{"02-04-2024", "", "", "", "", "", "100"},
		}
		txns := ParseLedger(rows)
		require.Len(t, txns, 1)
		assert.Equal(t, date(t, "2024-04-02"), txns[0].Date)
	})

	t.Run("marker without a name becomes Unknown", func(t *testing.T) {
		rows := [][]string{
			{"Ledger:", "  "},
			{"01-04-2024", "", "", "", "", "", "100"},
		}
		txns := ParseLedger(rows)
		require.Len(t, txns, 1)
		assert.Equal(t, "Unknown", txns[0].Party)
	})

	t.Run("short rows read missing debit and credit as zero", func(t *testing.T) {
		rows := [][]string{
			{"Ledger:", "Acme"},
			{"01-04-2024"},
		}
		txns := ParseLedger(rows)
		require.Len(t, txns, 1)
		assert.True(t, txns[0].Debit.IsZero())
		assert.True(t, txns[0].Credit.IsZero())
	})

	t.Run("output is sorted by party then date, stable on same date", func(t *testing.T) {
		rows := [][]string{
			{"Ledger:", "Zen"},
			{"05-04-2024", "", "", "", "", "", "300"},
			{"Ledger:", "Acme"},
			{"06-04-2024", "", "", "", "", "", "10"},
			{"05-04-2024", "first of the day", "", "", "", "", "20"},
			{"05-04-2024", "second of the day", "", "", "", "30", ""},
		}
		txns := ParseLedger(rows)
		require.Len(t, txns, 4)
		assert.Equal(t, "Acme", txns[0].Party)
		// same-date rows keep upload order
		assert.True(t, txns[0].Credit.Equal(dec("20")))
		assert.True(t, txns[1].Debit.Equal(dec("30")))
		assert.Equal(t, date(t, "2024-04-06"), txns[2].Date)
		assert.Equal(t, "Zen", txns[3].Party)
	})

	t.Run("iso dates are accepted", func(t *testing.T) {
		rows := [][]string{
			{"Ledger:", "Acme"},
			{"2024-04-01", "", "", "", "", "", "100"},
		}
		txns := ParseLedger(rows)
		require.Len(t, txns, 1)
		assert.Equal(t, date(t, "2024-04-01"), txns[0].Date)
	})
}

func TestParties(t *testing.T) {
	txns := []Transaction{
		{Party: "Beta"},
		{Party: "Acme"},
		{Party: "Beta"},
	}
	assert.Equal(t, []string{"Acme", "Beta"}, Parties(txns))
}
