package memory

import (
	"context"
	"testing"

	"bizspese/internal/sheets"
)

func TestMirrorUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	m := New()

	ref, err := m.UpsertExpense(ctx, sheets.ExpenseRow{ID: "a", Description: "Paper", Amount: "10.00"})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected upsert: ref=%q err=%v", ref, err)
	}
	if _, err := m.UpsertExpense(ctx, sheets.ExpenseRow{ID: "b", Description: "Toner", Amount: "40.00"}); err != nil {
		t.Fatalf("upsert b: %v", err)
	}

	ref, err = m.UpsertExpense(ctx, sheets.ExpenseRow{ID: "a", Description: "Paper A4", Amount: "12.00"})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected rewrite: ref=%q err=%v", ref, err)
	}

	rows := m.Rows()
	if len(rows) != 2 || rows[0].Description != "Paper A4" || rows[1].ID != "b" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if err := m.DeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteExpense(ctx, "missing"); err != nil {
		t.Fatalf("delete of a missing row should succeed: %v", err)
	}
	rows = m.Rows()
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("unexpected rows after delete: %+v", rows)
	}
}

func TestMirrorRejectsMissingID(t *testing.T) {
	if _, err := New().UpsertExpense(context.Background(), sheets.ExpenseRow{}); err == nil {
		t.Fatal("expected an error for a row without id")
	}
}
