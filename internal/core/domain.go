package core

import (
	"regexp"
	"strings"
	"time"
)

// DefaultCategoryColor is applied to categories created without a color.
const DefaultCategoryColor = "#3b82f6"

const (
	maxNameLength        = 100
	maxDescriptionLength = 200
	maxNotesLength       = 2000
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type (
	Category struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Color       string  `json:"color"`
		Description *string `json:"description"`
		IsActive    bool    `json:"isActive"`
	}

	// WalletEntry is one top-up of the spending budget. The summary balance
	// is the sum of every entry.
	WalletEntry struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Description *string   `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	Expense struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		CategoryID  string    `json:"categoryId"`
		Vendor      *string   `json:"vendor"`
		Date        time.Time `json:"date"`
		ReceiptPath *string   `json:"receiptPath"`
		Notes       *string   `json:"notes"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// ExpenseWithCategory is the read projection of an expense joined with
	// its category. Category is nil when the reference cannot be resolved.
	ExpenseWithCategory struct {
		Expense
		Category *Category `json:"category"`
	}
)

// CategoryName returns the resolved category name, or "" when unresolved.
func (e ExpenseWithCategory) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return wrapf(ErrTooLong, "name exceeds %d characters", maxNameLength)
	}
	if !hexColor.MatchString(c.Color) {
		return wrapf(ErrInvalidColor, "%q is not a hex color", c.Color)
	}
	if c.Description != nil && len(*c.Description) > maxDescriptionLength {
		return wrapf(ErrTooLong, "description exceeds %d characters", maxDescriptionLength)
	}
	return nil
}

func (w WalletEntry) Validate() error {
	if w.Amount.Cents < 0 {
		return wrapf(ErrInvalidAmount, "wallet amount must not be negative")
	}
	if w.Amount.Cents > MaxAmountCents {
		return errAmountTooLarge(w.Amount.String())
	}
	if w.Description != nil && len(*w.Description) > maxDescriptionLength {
		return wrapf(ErrTooLong, "description exceeds %d characters", maxDescriptionLength)
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > maxDescriptionLength {
		return wrapf(ErrTooLong, "description exceeds %d characters", maxDescriptionLength)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return wrapf(ErrUnknownCategory, "category id is required")
	}
	if e.Date.IsZero() {
		return wrapf(ErrInvalidDate, "date is required")
	}
	if e.Notes != nil && len(*e.Notes) > maxNotesLength {
		return wrapf(ErrTooLong, "notes exceed %d characters", maxNotesLength)
	}
	return nil
}

// OptionalString maps blank input to an absent value.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
