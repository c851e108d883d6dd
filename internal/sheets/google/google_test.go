package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	ports "bizspese/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const testSpreadsheet = "sheet-123"

// fakeSheets emulates the handful of Sheets v4 endpoints the client calls on
// a single tab.
type fakeSheets struct {
	mu      sync.Mutex
	title   string
	sheetID int64
	rows    [][]string
	calls   []string
}

var updateRow = regexp.MustCompile(`!A(\d+):`)

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/"+testSpreadsheet)
	f.calls = append(f.calls, r.Method+" "+path)

	switch {
	case r.Method == http.MethodGet && path == "":
		writeJSON(w, &gsheet.Spreadsheet{Sheets: []*gsheet.Sheet{
			{Properties: &gsheet.SheetProperties{SheetId: f.sheetID, Title: f.title}},
		}})

	case r.Method == http.MethodPost && path == ":batchUpdate":
		var req gsheet.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, rq := range req.Requests {
			if d := rq.DeleteDimension; d != nil && d.Range.SheetId == f.sheetID {
				f.rows = append(f.rows[:d.Range.StartIndex], f.rows[d.Range.EndIndex:]...)
			}
		}
		writeJSON(w, &gsheet.BatchUpdateSpreadsheetResponse{})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/values/"):
		col := make([][]any, len(f.rows))
		for i, row := range f.rows {
			col[i] = []any{row[0]}
		}
		writeJSON(w, &gsheet.ValueRange{Values: col})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		vr, ok := decodeValues(w, r)
		if !ok {
			return
		}
		first := len(f.rows) + 1
		f.rows = append(f.rows, vr...)
		writeJSON(w, &gsheet.AppendValuesResponse{Updates: &gsheet.UpdateValuesResponse{
			UpdatedRange: fmt.Sprintf("%s!A%d:G%d", f.title, first, len(f.rows)),
		}})

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/values/"):
		m := updateRow.FindStringSubmatch(path)
		if m == nil {
			http.Error(w, "bad range "+path, http.StatusBadRequest)
			return
		}
		n, _ := strconv.Atoi(m[1])
		vr, ok := decodeValues(w, r)
		if !ok {
			return
		}
		f.rows[n-1] = vr[0]
		writeJSON(w, &gsheet.UpdateValuesResponse{})

	default:
		http.Error(w, "unexpected call "+r.Method+" "+path, http.StatusNotFound)
	}
}

func (f *fakeSheets) snapshot() ([][]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([][]string, len(f.rows))
	copy(rows, f.rows)
	return rows, len(f.calls)
}

func decodeValues(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	var vr gsheet.ValueRange
	if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	out := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = fmt.Sprint(v)
		}
	}
	return out, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return newClient(svc, Config{SpreadsheetID: testSpreadsheet, SheetName: fake.title})
}

func TestClient_UpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSheets{title: "Expenses", sheetID: 7}
	c := newTestClient(t, fake)

	ref, err := c.UpsertExpense(ctx, ports.ExpenseRow{ID: "a", Description: "Paper", Amount: "10.00"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if ref != "Expenses!A1:G2" {
		t.Errorf("first upsert ref = %q", ref)
	}
	if rows, _ := fake.snapshot(); rows[0][0] != "ID" {
		t.Fatalf("expected a header row, got %v", rows[0])
	}

	if _, err := c.UpsertExpense(ctx, ports.ExpenseRow{ID: "b", Description: "Toner", Amount: "40.00"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	ref, err = c.UpsertExpense(ctx, ports.ExpenseRow{ID: "a", Description: "Paper A4", Amount: "12.00"})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if ref != "Expenses!A2:G2" {
		t.Errorf("rewrite ref = %q", ref)
	}
	if rows, _ := fake.snapshot(); len(rows) != 3 || rows[1][2] != "Paper A4" || rows[1][3] != "12.00" {
		t.Fatalf("unexpected rows after rewrite: %v", rows)
	}

	if err := c.DeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, before := fake.snapshot()
	if len(rows) != 2 || rows[1][0] != "b" {
		t.Fatalf("unexpected rows after delete: %v", rows)
	}

	if err := c.DeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("delete of a missing row: %v", err)
	}
	if _, after := fake.snapshot(); after-before != 1 {
		t.Errorf("delete of a missing row should only read ids, made %d calls", after-before)
	}
}

func TestClient_DeleteUnknownSheet(t *testing.T) {
	fake := &fakeSheets{title: "Expenses", sheetID: 7, rows: [][]string{{"ID"}, {"a"}}}
	c := newTestClient(t, fake)
	c.sheetName = "Other"

	if err := c.DeleteExpense(context.Background(), "a"); err == nil {
		t.Fatal("expected an error when the tab cannot be resolved")
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestClient_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Expenses"}
	if _, err := c.UpsertExpense(context.Background(), ports.ExpenseRow{ID: "a"}); err == nil {
		t.Error("expected error without a service")
	}
	if err := c.DeleteExpense(context.Background(), "a"); err == nil {
		t.Error("expected error without a service")
	}
}
