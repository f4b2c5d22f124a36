package aging

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aging bucket labels, keyed off whole days between invoice date and
// cutoff.
const (
	Bucket0to45  = "0-45"
	Bucket46to60 = "46-60"
	Bucket61to90 = "61-90"
	BucketOver90 = ">90"
)

// Transaction is one dated ledger entry for a party, produced by the
// normalizer and immutable afterwards. Seq is the row's position in the
// uploaded file; sorting is stable on (Party, Date) so same-date entries
// keep their upload order.
type Transaction struct {
	Party  string
	Date   time.Time
	Debit  decimal.Decimal
	Credit decimal.Decimal
	Seq    int
}

// OpenInvoice is a bill created by a credit entry, alive until payments
// fully match it during reconciliation or it survives to the cutoff.
type OpenInvoice struct {
	Date    time.Time
	Amount  decimal.Decimal
	Matched decimal.Decimal
}

// Unpaid is the amount still owed on the bill.
func (b *OpenInvoice) Unpaid() decimal.Decimal {
	return b.Amount.Sub(b.Matched)
}

// OpenAdvance is a prepayment exceeding the bills known at the time.
type OpenAdvance struct {
	Date   time.Time
	Amount decimal.Decimal
}

// SummaryRow is the per-party aging aggregate. Bucket sums always add up
// to TotalOutstanding.
type SummaryRow struct {
	Party             string
	TotalOutstanding  decimal.Decimal
	Bucket0to45       decimal.Decimal
	Bucket46to60      decimal.Decimal
	Bucket61to90      decimal.Decimal
	BucketOver90      decimal.Decimal
	AdvanceToSupplier decimal.Decimal
}

// InvoiceRow is one still-open invoice at cutoff in the detail log.
type InvoiceRow struct {
	Party       string
	InvoiceDate time.Time
	Amount      decimal.Decimal
	Matched     decimal.Decimal
	Unpaid      decimal.Decimal
	AgeDays     int
	Bucket      string
}

// DisallowanceRecord is the 43B(h) verdict for one open invoice.
// Within45Days is "Yes", "No" or "Exempt"; PaidAfter is capped at the
// invoice amount for reporting.
type DisallowanceRecord struct {
	Party            string
	InvoiceDate      time.Time
	InvoiceAmount    decimal.Decimal
	UnpaidAfter      decimal.Decimal
	PaidAfter        decimal.Decimal
	PaidDateAfter    *time.Time
	Within45Days     string
	Disallowed       string
	ExemptionApplied string
	ExemptionReason  string
}

// MsmeRow is one supplier's classification from the uploaded mapping.
type MsmeRow struct {
	SupplierName string
	Registered   string
	Category     string
	BusinessType string
}

// Request carries everything one computation needs. The engine keeps no
// state between requests.
type Request struct {
	Ledger []Transaction
	Cutoff time.Time
	Msme   []MsmeRow
}

// Result is the three output tables plus the mapping as used.
type Result struct {
	Summary      []SummaryRow
	InvoiceLog   []InvoiceRow
	Disallowance []DisallowanceRecord
	MsmeUsed     []MsmeRow
}
