package config

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Section 43B(h): payables to MSME suppliers must be settled within
	// 45 days of the invoice date to stay deductible.
	PayableDeadlineDays = 45

	// Aging bucket upper bounds, in whole days from the cutoff date.
	BucketFirstMax  = 45
	BucketSecondMax = 60
	BucketThirdMax  = 90

	// Ledger rows dated before this are header/subtotal noise, not
	// transactions. Tally extracts routinely carry such rows.
	MinLedgerDate = "2000-01-01"

	CutoffDateLayout = "2006-01-02"

	// Workspace retention defaults, overridable in services.yaml.
	DefaultWorkspaceTTLMinutes = 120
	DefaultPurgeSchedule       = "*/10 * * * *"

	// MSME template prefill is capped so huge ledgers don't produce
	// unmanageable templates.
	MaxTemplateParties = 50
)
