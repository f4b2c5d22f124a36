package aging

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmtDate(*t)
}

func summaryGrid(res *Result) [][]interface{} {
	grid := [][]interface{}{{
		"Party", "Total Outstanding", "0-45", "46-60", "61-90", ">90", "Advance to Supplier",
	}}
	for _, s := range res.Summary {
		grid = append(grid, []interface{}{
			s.Party,
			s.TotalOutstanding.InexactFloat64(),
			s.Bucket0to45.InexactFloat64(),
			s.Bucket46to60.InexactFloat64(),
			s.Bucket61to90.InexactFloat64(),
			s.BucketOver90.InexactFloat64(),
			s.AdvanceToSupplier.InexactFloat64(),
		})
	}
	return grid
}

func invoiceLogGrid(res *Result) [][]interface{} {
	grid := [][]interface{}{{
		"Party", "Invoice Date", "Invoice Amount", "Matched Amount", "Unpaid Amount", "Age (in days)", "Aging Bucket",
	}}
	for _, row := range res.InvoiceLog {
		grid = append(grid, []interface{}{
			row.Party,
			fmtDate(row.InvoiceDate),
			row.Amount.InexactFloat64(),
			row.Matched.InexactFloat64(),
			row.Unpaid.InexactFloat64(),
			row.AgeDays,
			row.Bucket,
		})
	}
	return grid
}

func disallowanceGrid(res *Result) [][]interface{} {
	grid := [][]interface{}{{
		"Party", "Invoice Date", "Invoice Amount",
		"Unpaid Amount (after cutoff allocations)", "Paid Amount (after cutoff)", "Paid Date (after cutoff)",
		"Within 45 Days", "Disallowed u/s 43B(h)", "MSME Exemption Applied", "Exemption Reason",
	}}
	for _, rec := range res.Disallowance {
		grid = append(grid, []interface{}{
			rec.Party,
			fmtDate(rec.InvoiceDate),
			rec.InvoiceAmount.InexactFloat64(),
			rec.UnpaidAfter.InexactFloat64(),
			rec.PaidAfter.InexactFloat64(),
			fmtDatePtr(rec.PaidDateAfter),
			rec.Within45Days,
			rec.Disallowed,
			rec.ExemptionApplied,
			rec.ExemptionReason,
		})
	}
	return grid
}

func msmeGrid(rows []MsmeRow) [][]interface{} {
	header := MsmeHeader()
	grid := [][]interface{}{{header[0], header[1], header[2], header[3]}}
	for _, r := range rows {
		grid = append(grid, []interface{}{r.SupplierName, r.Registered, r.Category, r.BusinessType})
	}
	return grid
}

// writeSheets builds an XLSX workbook with one sheet per named grid, in
// order.
func writeSheets(sheets []string, grids [][][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, err
			}
		}
		for rIdx, row := range grids[i] {
			cell, err := excelize.CoordinatesToCellName(1, rIdx+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, err
			}
		}
	}
	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportWorkbook serializes the final report: one sheet per output
// table plus the mapping that was applied.
func BuildReportWorkbook(res *Result) ([]byte, error) {
	return writeSheets(
		[]string{"Aging Summary", "FIFO Log", "43B Disallowance", "MSME Mapping Used"},
		[][][]interface{}{summaryGrid(res), invoiceLogGrid(res), disallowanceGrid(res), msmeGrid(res.MsmeUsed)},
	)
}

// BuildTemplateWorkbook serializes the MSME mapping template.
func BuildTemplateWorkbook(parties []string) ([]byte, error) {
	grid := MsmeTemplate(parties)
	rows := make([][]interface{}, len(grid))
	for i, r := range grid {
		row := make([]interface{}, len(r))
		for j, v := range r {
			row[j] = v
		}
		rows[i] = row
	}
	return writeSheets([]string{"MSME Template"}, [][][]interface{}{rows})
}

// TemplateCSV serializes the MSME mapping template as CSV.
func TemplateCSV(parties []string) ([]byte, error) {
	var buf bytes.Buffer
	wtr := csv.NewWriter(&buf)
	if err := wtr.WriteAll(MsmeTemplate(parties)); err != nil {
		return nil, err
	}
	wtr.Flush()
	if err := wtr.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportFilename mirrors the download name users are used to:
// aging_43b_msme_<user>_<cutoff>.xlsx
func ReportFilename(userID string, cutoff time.Time) string {
	return fmt.Sprintf("aging_43b_msme_%s_%s.xlsx", userID, fmtDate(cutoff))
}
