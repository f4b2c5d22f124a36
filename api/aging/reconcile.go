package aging

import (
	"time"

	"Aging43B/internal/config"

	"github.com/shopspring/decimal"
)

// reconcileParty replays one party's transactions up to the cutoff
// through the two FIFO queues. A debit drains the oldest open bills
// first and any leftover becomes an advance; a credit consumes queued
// advances first and any leftover becomes a new bill. Amounts are
// decimals, so "fully matched" is an exact zero check.
func reconcileParty(txns []Transaction, cutoff time.Time) ([]*OpenInvoice, []*OpenAdvance) {
	var bills []*OpenInvoice
	var advances []*OpenAdvance

	for _, tx := range txns {
		if tx.Date.After(cutoff) {
			continue
		}
		// Degenerate rows carrying both a debit and a credit are
		// processed independently, debit side first.
		if tx.Debit.IsPositive() {
			amt := tx.Debit
			for amt.IsPositive() && len(bills) > 0 {
				bill := bills[0]
				match := decimal.Min(bill.Unpaid(), amt)
				bill.Matched = bill.Matched.Add(match)
				amt = amt.Sub(match)
				if bill.Unpaid().IsZero() {
					bills = bills[1:]
				}
			}
			if amt.IsPositive() {
				advances = append(advances, &OpenAdvance{Date: tx.Date, Amount: amt})
			}
		}
		if tx.Credit.IsPositive() {
			billAmt := tx.Credit
			for billAmt.IsPositive() && len(advances) > 0 {
				adv := advances[0]
				match := decimal.Min(billAmt, adv.Amount)
				billAmt = billAmt.Sub(match)
				adv.Amount = adv.Amount.Sub(match)
				if !adv.Amount.IsPositive() {
					advances = advances[1:]
				}
			}
			if billAmt.IsPositive() {
				bills = append(bills, &OpenInvoice{Date: tx.Date, Amount: billAmt})
			}
		}
	}
	return bills, advances
}

// ageDays is the whole-day age of an invoice at the cutoff. Ledger dates
// are parsed at midnight UTC, so the division is exact.
func ageDays(invoiceDate, cutoff time.Time) int {
	return int(cutoff.Sub(invoiceDate).Hours() / 24)
}

func bucketFor(age int) string {
	switch {
	case age <= config.BucketFirstMax:
		return Bucket0to45
	case age <= config.BucketSecondMax:
		return Bucket46to60
	case age <= config.BucketThirdMax:
		return Bucket61to90
	default:
		return BucketOver90
	}
}

// pendingInvoice is an open invoice's mutable state during post-cutoff
// allocation.
type pendingInvoice struct {
	Date      time.Time
	Amount    decimal.Decimal
	Remaining decimal.Decimal
	PaidAfter decimal.Decimal
	PaidDate  *time.Time
}

// classifyAging buckets the party's open invoices against the cutoff and
// builds the summary row, the per-invoice log rows, and the pending list
// the allocator works on. Invoices matched down to exactly zero are
// settled and excluded.
func classifyAging(party string, bills []*OpenInvoice, advances []*OpenAdvance, cutoff time.Time) (SummaryRow, []InvoiceRow, []*pendingInvoice) {
	summary := SummaryRow{
		Party:             party,
		TotalOutstanding:  decimal.Zero,
		Bucket0to45:       decimal.Zero,
		Bucket46to60:      decimal.Zero,
		Bucket61to90:      decimal.Zero,
		BucketOver90:      decimal.Zero,
		AdvanceToSupplier: decimal.Zero,
	}
	for _, adv := range advances {
		summary.AdvanceToSupplier = summary.AdvanceToSupplier.Add(adv.Amount)
	}

	var logRows []InvoiceRow
	var pending []*pendingInvoice
	for _, bill := range bills {
		unpaid := bill.Unpaid()
		if !unpaid.IsPositive() {
			continue
		}
		age := ageDays(bill.Date, cutoff)
		bucket := bucketFor(age)
		switch bucket {
		case Bucket0to45:
			summary.Bucket0to45 = summary.Bucket0to45.Add(unpaid)
		case Bucket46to60:
			summary.Bucket46to60 = summary.Bucket46to60.Add(unpaid)
		case Bucket61to90:
			summary.Bucket61to90 = summary.Bucket61to90.Add(unpaid)
		default:
			summary.BucketOver90 = summary.BucketOver90.Add(unpaid)
		}
		summary.TotalOutstanding = summary.TotalOutstanding.Add(unpaid)

		logRows = append(logRows, InvoiceRow{
			Party:       party,
			InvoiceDate: bill.Date,
			Amount:      bill.Amount,
			Matched:     bill.Matched,
			Unpaid:      unpaid,
			AgeDays:     age,
			Bucket:      bucket,
		})
		pending = append(pending, &pendingInvoice{
			Date:      bill.Date,
			Amount:    bill.Amount,
			Remaining: unpaid,
			PaidAfter: decimal.Zero,
		})
	}
	return summary, logRows, pending
}
