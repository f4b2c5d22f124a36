package aging

// Run executes the full pipeline for one request: per-party FIFO
// reconciliation up to the cutoff, aging classification, post-cutoff
// payment allocation, and 43B(h) evaluation with MSME exemptions. The
// computation is pure; identical inputs produce identical results.
// Parties are processed in sorted order and rows come out in invoice
// date order, so output ordering is deterministic too.
func Run(req Request) Result {
	byParty := make(map[string][]Transaction)
	for _, tx := range req.Ledger {
		byParty[tx.Party] = append(byParty[tx.Party], tx)
	}
	msme := NewMsmeMap(req.Msme)

	res := Result{
		Summary:      make([]SummaryRow, 0, len(byParty)),
		InvoiceLog:   make([]InvoiceRow, 0),
		Disallowance: make([]DisallowanceRecord, 0),
		MsmeUsed:     req.Msme,
	}
	for _, party := range Parties(req.Ledger) {
		txns := byParty[party]

		bills, advances := reconcileParty(txns, req.Cutoff)
		summary, logRows, pending := classifyAging(party, bills, advances, req.Cutoff)
		allocatePayments(pending, paymentsAfterCutoff(txns, req.Cutoff))
		records := evaluateParty(party, pending, msme)

		res.Summary = append(res.Summary, summary)
		res.InvoiceLog = append(res.InvoiceLog, logRows...)
		res.Disallowance = append(res.Disallowance, records...)
	}
	return res
}
