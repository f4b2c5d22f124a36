package aging

import (
	"sort"
	"strings"
	"time"

	"Aging43B/internal/config"

	"github.com/shopspring/decimal"
)

const ledgerMarker = "ledger:"

// Tally extracts write dates day-first; ISO is accepted as well since
// re-saved files often come back that way.
var ledgerDateLayouts = []string{
	"2-1-2006",
	"02-01-2006",
	"2/1/2006",
	"02/01/2006",
	"2-Jan-2006",
	"2-Jan-06",
	"02-Jan-2006",
	"2 Jan 2006",
	"2006-01-02",
}

func parseLedgerDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range ledgerDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount reads a debit/credit cell. Empty counts as zero; anything
// else must parse as a number once digit-grouping commas are stripped.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func cellAt(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

// ParseLedger turns a raw spreadsheet grid into the ordered transaction
// sequence. Rows below a "Ledger: <name>" marker belong to that party.
// A row is a transaction only when its first cell parses as a date on or
// after the minimum ledger date and its debit/credit cells are numeric
// or empty; everything else (headers, subtotals, narration) is dropped
// silently.
func ParseLedger(rows [][]string) []Transaction {
	minDate, _ := time.Parse(config.CutoffDateLayout, config.MinLedgerDate)
	txns := make([]Transaction, 0, len(rows))
	party := ""
	for _, row := range rows {
		first := strings.TrimSpace(cellAt(row, 0))
		if strings.HasPrefix(strings.ToLower(first), ledgerMarker) {
			party = strings.TrimSpace(cellAt(row, 1))
			if party == "" {
				party = "Unknown"
			}
			continue
		}
		if party == "" {
			continue
		}
		date, ok := parseLedgerDate(first)
		if !ok || date.Before(minDate) {
			continue
		}
		debit, ok := parseAmount(cellAt(row, 5))
		if !ok {
			continue
		}
		credit, ok := parseAmount(cellAt(row, 6))
		if !ok {
			continue
		}
		txns = append(txns, Transaction{
			Party:  party,
			Date:   date,
			Debit:  debit,
			Credit: credit,
			Seq:    len(txns),
		})
	}
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Party != txns[j].Party {
			return txns[i].Party < txns[j].Party
		}
		return txns[i].Date.Before(txns[j].Date)
	})
	return txns
}

// Parties returns the distinct party names in sorted order.
func Parties(txns []Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range txns {
		if !seen[tx.Party] {
			seen[tx.Party] = true
			out = append(out, tx.Party)
		}
	}
	sort.Strings(out)
	return out
}
