package aging

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// postCutoffPayment is a debit dated strictly after the cutoff, waiting
// to be allocated against open invoices.
type postCutoffPayment struct {
	Date      time.Time
	Remaining decimal.Decimal
}

func paymentsAfterCutoff(txns []Transaction, cutoff time.Time) []postCutoffPayment {
	var out []postCutoffPayment
	for _, tx := range txns {
		if tx.Debit.IsPositive() && tx.Date.After(cutoff) {
			out = append(out, postCutoffPayment{Date: tx.Date, Remaining: tx.Debit})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// allocatePayments drains each payment, oldest first, into the oldest
// invoice with a remaining balance. PaidDate is overwritten by every
// allocation touching the invoice, so it ends up as the date of the last
// payment that reduced it. Payment amount beyond the total open invoices
// is discarded; this phase creates no new advances.
func allocatePayments(invoices []*pendingInvoice, payments []postCutoffPayment) {
	for p := range payments {
		pay := &payments[p]
		for _, inv := range invoices {
			if !pay.Remaining.IsPositive() {
				break
			}
			if !inv.Remaining.IsPositive() {
				continue
			}
			alloc := decimal.Min(inv.Remaining, pay.Remaining)
			inv.Remaining = inv.Remaining.Sub(alloc)
			inv.PaidAfter = inv.PaidAfter.Add(alloc)
			paidOn := pay.Date
			inv.PaidDate = &paidOn
			pay.Remaining = pay.Remaining.Sub(alloc)
		}
	}
}
