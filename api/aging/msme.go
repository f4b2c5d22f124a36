package aging

import (
	"fmt"
	"strings"

	"Aging43B/internal/config"
)

// The template's header row. Upload validation matches these by
// case-insensitive prefix of the trimmed header text, so hand-edited
// variants without the parenthetical hints still pass.
var msmeColumns = []struct {
	key   string
	label string
}{
	{"supplier name", "Supplier Name"},
	{"registered", "Registered (Yes/No)"},
	{"category", "Category (Micro/Small/Medium)"},
	{"business type", "Business Type (Trader/Manufacturer/Service Provider)"},
}

// MsmeHeader returns the canonical mapping header row.
func MsmeHeader() []string {
	out := make([]string, len(msmeColumns))
	for i, c := range msmeColumns {
		out[i] = c.label
	}
	return out
}

// ParseMsmeTable reads an uploaded mapping grid. The first row must be a
// header covering all four required columns; a missing column is a hard
// error and nothing is computed from the file. Rows without a supplier
// name are skipped.
func ParseMsmeTable(rows [][]string) ([]MsmeRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("msme mapping file is empty")
	}
	header := rows[0]
	pos := make([]int, len(msmeColumns))
	for i := range pos {
		pos[i] = -1
	}
	for j, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for i, col := range msmeColumns {
			if pos[i] == -1 && strings.HasPrefix(name, col.key) {
				pos[i] = j
				break
			}
		}
	}
	var missing []string
	for i, col := range msmeColumns {
		if pos[i] == -1 {
			missing = append(missing, col.label)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("msme mapping is missing columns: %s", strings.Join(missing, ", "))
	}

	out := make([]MsmeRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cellAt(row, pos[0]))
		if name == "" {
			continue
		}
		out = append(out, MsmeRow{
			SupplierName: name,
			Registered:   strings.TrimSpace(cellAt(row, pos[1])),
			Category:     strings.TrimSpace(cellAt(row, pos[2])),
			BusinessType: strings.TrimSpace(cellAt(row, pos[3])),
		})
	}
	return out, nil
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MsmeMap indexes mapping rows by trimmed, case-insensitive supplier
// name for exemption lookups.
type MsmeMap struct {
	rows  []MsmeRow
	index map[string]int
}

func NewMsmeMap(rows []MsmeRow) *MsmeMap {
	m := &MsmeMap{rows: rows, index: make(map[string]int, len(rows))}
	for i, r := range rows {
		key := normName(r.SupplierName)
		if _, dup := m.index[key]; !dup {
			m.index[key] = i
		}
	}
	return m
}

// Exemption reports whether the 45-day rule is waived for the supplier
// and why. First rule to match wins:
//  1. not registered (No/N/false/0 or unspecified) -> "Non-MSME registered"
//  2. Medium category -> "Medium category"
//  3. business type containing "trader" -> "Trader"
//
// A supplier absent from the mapping is unknown and NOT exempt.
func (m *MsmeMap) Exemption(party string) (bool, string) {
	i, ok := m.index[normName(party)]
	if !ok {
		return false, ""
	}
	r := m.rows[i]
	switch strings.ToLower(strings.TrimSpace(r.Registered)) {
	case "no", "n", "false", "0", "":
		return true, "Non-MSME registered"
	}
	if strings.EqualFold(strings.TrimSpace(r.Category), "medium") {
		return true, "Medium category"
	}
	if strings.Contains(strings.ToLower(r.BusinessType), "trader") {
		return true, "Trader"
	}
	return false, ""
}

// MsmeTemplate builds the downloadable template grid, prefilled with the
// ledger's supplier names up to the configured cap.
func MsmeTemplate(parties []string) [][]string {
	if len(parties) > config.MaxTemplateParties {
		parties = parties[:config.MaxTemplateParties]
	}
	grid := make([][]string, 0, len(parties)+1)
	grid = append(grid, MsmeHeader())
	for _, p := range parties {
		grid = append(grid, []string{p, "", "", ""})
	}
	return grid
}

// EnsureParties appends a blank mapping row for every ledger party not
// already present, so unknown suppliers show up for editing instead of
// vanishing from the report. Returns the extended rows and the count
// added.
func EnsureParties(rows []MsmeRow, parties []string) ([]MsmeRow, int) {
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[normName(r.SupplierName)] = true
	}
	added := 0
	for _, p := range parties {
		if !present[normName(p)] {
			rows = append(rows, MsmeRow{SupplierName: p})
			present[normName(p)] = true
			added++
		}
	}
	return rows, added
}
