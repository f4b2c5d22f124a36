package aging

import (
	"Aging43B/internal/config"

	"github.com/shopspring/decimal"
)

// evaluateParty turns the party's post-allocation invoices into 43B(h)
// records. An invoice is on time only when fully settled after the
// cutoff and the final paying date is within 45 days of the invoice
// date; partial settlement is never on time. An exemption overrides the
// verdict entirely.
func evaluateParty(party string, invoices []*pendingInvoice, msme *MsmeMap) []DisallowanceRecord {
	exempt, reason := msme.Exemption(party)

	records := make([]DisallowanceRecord, 0, len(invoices))
	for _, inv := range invoices {
		deadline := inv.Date.AddDate(0, 0, config.PayableDeadlineDays)

		within := "No"
		if inv.PaidAfter.GreaterThanOrEqual(inv.Amount) &&
			inv.PaidDate != nil && !inv.PaidDate.After(deadline) {
			within = "Yes"
		}

		disallowed := "Yes"
		if within == "Yes" {
			disallowed = "No"
		}

		applied := "No"
		if exempt {
			within = "Exempt"
			disallowed = "No"
			applied = "Yes"
		}

		records = append(records, DisallowanceRecord{
			Party:            party,
			InvoiceDate:      inv.Date,
			InvoiceAmount:    inv.Amount,
			UnpaidAfter:      inv.Remaining,
			PaidAfter:        decimal.Min(inv.PaidAfter, inv.Amount),
			PaidDateAfter:    inv.PaidDate,
			Within45Days:     within,
			Disallowed:       disallowed,
			ExemptionApplied: applied,
			ExemptionReason:  reason,
		})
	}
	return records
}
