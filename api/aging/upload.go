package aging

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"Aging43B/api"
	"Aging43B/api/auth"
	"Aging43B/internal/logger"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Helper: get file extension
func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// parseUploadGrid turns an uploaded ledger or mapping file into a raw
// [][]string grid. XLSX goes through excelize, legacy XLS through
// extrame/xls, everything else is tried as CSV.
func parseUploadGrid(file multipart.File, ext string) ([][]string, error) {
	switch ext {
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	case ".xls":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		sheet := wb.GetSheet(0)
		if sheet == nil {
			return nil, errors.New("xls file has no sheets")
		}
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			vals := make([]string, row.LastCol())
			for j := 0; j < row.LastCol(); j++ {
				vals[j] = row.Col(j)
			}
			rows = append(rows, vals)
		}
		return rows, nil
	case ".csv":
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		return r.ReadAll()
	}
	return nil, errors.New("unsupported file type (use xlsx, xls or csv)")
}

// requireUser resolves the user_id form/body value against active
// sessions. The aging service sits behind the gateway, so an unknown
// user means the session expired or never existed.
func requireUser(w http.ResponseWriter, userID string) bool {
	if userID == "" {
		api.RespondWithError(w, http.StatusBadRequest, "user_id required")
		return false
	}
	for _, s := range auth.GetActiveSessions() {
		if s.Username == userID {
			return true
		}
	}
	api.RespondWithError(w, http.StatusUnauthorized, "User not found in active sessions")
	return false
}

func firstUploadedFile(r *http.Request) (multipart.File, string, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, "", errors.New("failed to parse multipart form")
	}
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return nil, "", errors.New("failed to open file: " + fh.Filename)
			}
			return f, fh.Filename, nil
		}
	}
	return nil, "", errors.New("no files uploaded")
}

// Handler: UploadLedger parses the raw creditor ledger extract and
// stores the normalized transactions in the caller's workspace.
// Responds with a preview of the first rows and the distinct parties.
func UploadLedger(store *WorkspaceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.FormValue("user_id")
		if !requireUser(w, userID) {
			return
		}
		file, filename, err := firstUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer file.Close()

		grid, err := parseUploadGrid(file, getFileExt(filename))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid or unreadable file: "+err.Error())
			return
		}
		txns := ParseLedger(grid)
		ws := store.SetLedger(userID, txns)

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Ledger uploaded by " + userID + ": " + filename)
		}

		preview := make([]map[string]interface{}, 0, 10)
		for i, tx := range txns {
			if i >= 10 {
				break
			}
			preview = append(preview, map[string]interface{}{
				"party":  tx.Party,
				"date":   tx.Date.Format("2006-01-02"),
				"debit":  tx.Debit.InexactFloat64(),
				"credit": tx.Credit.InexactFloat64(),
			})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"workspace_id": ws.ID,
			"transactions": len(txns),
			"parties":      ws.Parties,
			"preview":      preview,
		})
	}
}

// Handler: UploadMsmeMapping validates and stores the MSME mapping.
// Missing required columns abort the upload; ledger parties absent from
// the mapping are appended as blank rows for editing, the same way the
// template prefills them.
func UploadMsmeMapping(store *WorkspaceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.FormValue("user_id")
		if !requireUser(w, userID) {
			return
		}
		file, filename, err := firstUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer file.Close()

		grid, err := parseUploadGrid(file, getFileExt(filename))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid or unreadable file: "+err.Error())
			return
		}
		rows, err := ParseMsmeTable(grid)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		added := 0
		if ws := store.Get(userID); ws != nil {
			rows, added = EnsureParties(rows, ws.Parties)
		}
		store.SetMsme(userID, rows)

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("MSME mapping uploaded by " + userID + ": " + filename)
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"suppliers":      len(rows),
			"added_for_edit": added,
		})
	}
}
