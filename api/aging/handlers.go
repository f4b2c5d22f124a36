package aging

import (
	"encoding/json"
	"net/http"
	"time"

	"Aging43B/api"
	"Aging43B/internal/config"
	"Aging43B/internal/logger"
)

func summaryJSON(res *Result) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(res.Summary))
	for _, s := range res.Summary {
		out = append(out, map[string]interface{}{
			"party":               s.Party,
			"total_outstanding":   s.TotalOutstanding.InexactFloat64(),
			"bucket_0_45":         s.Bucket0to45.InexactFloat64(),
			"bucket_46_60":        s.Bucket46to60.InexactFloat64(),
			"bucket_61_90":        s.Bucket61to90.InexactFloat64(),
			"bucket_over_90":      s.BucketOver90.InexactFloat64(),
			"advance_to_supplier": s.AdvanceToSupplier.InexactFloat64(),
		})
	}
	return out
}

func invoiceLogJSON(res *Result) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(res.InvoiceLog))
	for _, row := range res.InvoiceLog {
		out = append(out, map[string]interface{}{
			"party":          row.Party,
			"invoice_date":   fmtDate(row.InvoiceDate),
			"invoice_amount": row.Amount.InexactFloat64(),
			"matched_amount": row.Matched.InexactFloat64(),
			"unpaid_amount":  row.Unpaid.InexactFloat64(),
			"age_days":       row.AgeDays,
			"aging_bucket":   row.Bucket,
		})
	}
	return out
}

func disallowanceJSON(res *Result) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(res.Disallowance))
	for _, rec := range res.Disallowance {
		out = append(out, map[string]interface{}{
			"party":             rec.Party,
			"invoice_date":      fmtDate(rec.InvoiceDate),
			"invoice_amount":    rec.InvoiceAmount.InexactFloat64(),
			"unpaid_after":      rec.UnpaidAfter.InexactFloat64(),
			"paid_after":        rec.PaidAfter.InexactFloat64(),
			"paid_date_after":   fmtDatePtr(rec.PaidDateAfter),
			"within_45_days":    rec.Within45Days,
			"disallowed":        rec.Disallowed,
			"exemption_applied": rec.ExemptionApplied,
			"exemption_reason":  rec.ExemptionReason,
		})
	}
	return out
}

// Handler: RunProcessing executes the aging + 43B(h) pipeline for the
// caller's workspace at the requested cutoff date and returns the three
// result tables.
func RunProcessing(store *WorkspaceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID     string `json:"user_id"`
			CutoffDate string `json:"cutoff_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if !requireUser(w, body.UserID) {
			return
		}
		cutoff, err := time.Parse(config.CutoffDateLayout, body.CutoffDate)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "cutoff_date must be YYYY-MM-DD")
			return
		}
		ws := store.Get(body.UserID)
		if ws == nil || len(ws.Ledger) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "no ledger uploaded for this user")
			return
		}

		res := Run(Request{Ledger: ws.Ledger, Cutoff: cutoff, Msme: ws.Msme})
		store.SetResult(body.UserID, cutoff, &res)

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Processing run by " + body.UserID + " cutoff " + body.CutoffDate)
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"aging_summary":    summaryJSON(&res),
			"invoice_log":      invoiceLogJSON(&res),
			"disallowance_43b": disallowanceJSON(&res),
			"suppliers_in_map": len(res.MsmeUsed),
			"cutoff_date":      body.CutoffDate,
		})
	}
}

// Handler: ExportReport streams the final report workbook for the last
// run.
func ExportReport(store *WorkspaceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if !requireUser(w, body.UserID) {
			return
		}
		ws := store.Get(body.UserID)
		if ws == nil || ws.Result == nil {
			api.RespondWithError(w, http.StatusBadRequest, "no processed result to export; run processing first")
			return
		}
		out, err := BuildReportWorkbook(ws.Result)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "failed to build workbook: "+err.Error())
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Report exported by " + body.UserID)
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+ReportFilename(body.UserID, ws.Cutoff)+`"`)
		w.Write(out)
	}
}

// Handler: DownloadMsmeTemplate serves the mapping template, prefilled
// with the parties of the caller's uploaded ledger when one exists.
// ?format=csv switches from XLSX to CSV.
func DownloadMsmeTemplate(store *WorkspaceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		var parties []string
		if userID != "" {
			if ws := store.Get(userID); ws != nil {
				parties = ws.Parties
			}
		}
		if r.URL.Query().Get("format") == "csv" {
			out, err := TemplateCSV(parties)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, "failed to build template: "+err.Error())
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="msme_template.csv"`)
			w.Write(out)
			return
		}
		out, err := BuildTemplateWorkbook(parties)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "failed to build template: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="msme_template.xlsx"`)
		w.Write(out)
	}
}

// Handler: ExportMsmeMapping serves the mapping currently stored for the
// user, so the edited/augmented version can be saved and re-used.
func ExportMsmeMapping(store *WorkspaceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if !requireUser(w, body.UserID) {
			return
		}
		ws := store.Get(body.UserID)
		if ws == nil || len(ws.Msme) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "no msme mapping stored for this user")
			return
		}
		rows := make([][]interface{}, 0, len(ws.Msme)+1)
		rows = append(rows, msmeGrid(ws.Msme)...)
		out, err := writeSheets([]string{"MSME Mapping"}, [][][]interface{}{rows})
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "failed to build workbook: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="msme_mapping_used.xlsx"`)
		w.Write(out)
	}
}
