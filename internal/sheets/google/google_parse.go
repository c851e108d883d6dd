package google

import (
	"fmt"
	"strings"

	ports "bizspese/internal/sheets"

	gsheet "google.golang.org/api/sheets/v4"
)

// findRowIndex returns the 1-based sheet row whose first cell equals id, or
// -1. values is the A column as returned by the Sheets API.
func findRowIndex(values [][]any, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return -1
}

func rowValues(r ports.ExpenseRow) []any {
	return toAny(r.Values())
}

func headerValues() []any {
	return toAny(ports.Header)
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func sheetIDByTitle(sheets []*gsheet.Sheet, title string) (int64, bool) {
	for _, s := range sheets {
		if s == nil || s.Properties == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(s.Properties.Title), strings.TrimSpace(title)) {
			return s.Properties.SheetId, true
		}
	}
	return 0, false
}
