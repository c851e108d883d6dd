package core

import (
	"strings"
	"time"
)

// Update structs describe partial changes. A nil field leaves the stored
// value untouched; for optional text fields an empty string clears it.

type CategoryUpdate struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (u CategoryUpdate) Apply(c Category) Category {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Color != nil {
		c.Color = strings.TrimSpace(*u.Color)
	}
	if u.Description != nil {
		c.Description = OptionalString(*u.Description)
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
	return c
}

type WalletEntryUpdate struct {
	Amount      *Money  `json:"amount"`
	Description *string `json:"description"`
}

func (u WalletEntryUpdate) Apply(w WalletEntry, now time.Time) WalletEntry {
	if u.Amount != nil {
		w.Amount = *u.Amount
	}
	if u.Description != nil {
		w.Description = OptionalString(*u.Description)
	}
	w.UpdatedAt = now
	return w
}

type ExpenseUpdate struct {
	Description *string    `json:"description"`
	Amount      *Money     `json:"amount"`
	CategoryID  *string    `json:"categoryId"`
	Vendor      *string    `json:"vendor"`
	Date        *time.Time `json:"date"`
	ReceiptPath *string    `json:"receiptPath"`
	Notes       *string    `json:"notes"`
}

func (u ExpenseUpdate) Apply(e Expense, now time.Time) Expense {
	if u.Description != nil {
		e.Description = strings.TrimSpace(*u.Description)
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.CategoryID != nil {
		e.CategoryID = strings.TrimSpace(*u.CategoryID)
	}
	if u.Vendor != nil {
		e.Vendor = OptionalString(*u.Vendor)
	}
	if u.Date != nil {
		e.Date = u.Date.UTC()
	}
	if u.ReceiptPath != nil {
		e.ReceiptPath = OptionalString(*u.ReceiptPath)
	}
	if u.Notes != nil {
		e.Notes = OptionalString(*u.Notes)
	}
	e.UpdatedAt = now
	return e
}
