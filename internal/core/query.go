package core

import (
	"fmt"
	"strings"
	"time"
)

// ExpenseFilter holds the optional predicates of an expense listing. Every
// set field must hold for an expense to match; a zero filter matches all.
type ExpenseFilter struct {
	Search     string
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *Money
	MaxAmount  *Money
}

func (f ExpenseFilter) IsZero() bool {
	return f.Search == "" && f.CategoryID == "" && f.StartDate == nil &&
		f.EndDate == nil && f.MinAmount == nil && f.MaxAmount == nil
}

// Validate rejects inverted ranges and negative amount bounds.
func (f ExpenseFilter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return fmt.Errorf("%w: startDate is after endDate", ErrInvalidDateRange)
	}
	if f.MinAmount != nil && f.MinAmount.Cents < 0 {
		return fmt.Errorf("%w: minAmount is negative", ErrInvalidAmount)
	}
	if f.MaxAmount != nil && f.MaxAmount.Cents < 0 {
		return fmt.Errorf("%w: maxAmount is negative", ErrInvalidAmount)
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.Cents > f.MaxAmount.Cents {
		return fmt.Errorf("%w: minAmount exceeds maxAmount", ErrInvalidAmountRange)
	}
	return nil
}

type SortKey int

const (
	SortByDate SortKey = iota
	SortByAmount
	SortByDescription
	SortByCategory
)

var sortKeyNames = map[SortKey]string{
	SortByDate:        "date",
	SortByAmount:      "amount",
	SortByDescription: "description",
	SortByCategory:    "category",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey maps the wire name of a sort key. Empty input yields the
// default key.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortByDate, nil
	}
	for k, name := range sortKeyNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown sort key %q", ErrInvalidSort, s)
}

type SortOrder int

const (
	Descending SortOrder = iota
	Ascending
)

func (o SortOrder) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc":
		return Descending, nil
	case "asc":
		return Ascending, nil
	}
	return 0, fmt.Errorf("%w: unknown sort order %q", ErrInvalidSort, s)
}

// SortSpec's zero value is the default ordering: newest date first.
type SortSpec struct {
	Key   SortKey
	Order SortOrder
}

func (s SortSpec) Validate() error {
	if _, ok := sortKeyNames[s.Key]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidSort, s.Key)
	}
	if s.Order != Ascending && s.Order != Descending {
		return fmt.Errorf("%w: unknown order %d", ErrInvalidSort, int(s.Order))
	}
	return nil
}

// NoLimit disables the page size bound.
const NoLimit = -1

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

type Page struct {
	Limit  int
	Offset int
}

// AllRows selects every row.
var AllRows = Page{Limit: NoLimit}

func (p Page) Validate() error {
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidPage)
	}
	if p.Limit < 0 && p.Limit != NoLimit {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidPage)
	}
	return nil
}

// ExpenseKey is a row's position in oldest-first order: date, then
// creation time, then id.
type ExpenseKey struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

func KeyOf(e Expense) ExpenseKey {
	return ExpenseKey{Date: e.Date, CreatedAt: e.CreatedAt, ID: e.ID}
}

func (k ExpenseKey) Compare(o ExpenseKey) int {
	if c := k.Date.Compare(o.Date); c != 0 {
		return c
	}
	if c := k.CreatedAt.Compare(o.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(k.ID, o.ID)
}

type ExpenseQuery struct {
	Filter ExpenseFilter
	Sort   SortSpec
	Page   Page
	// After, when set, keeps only rows strictly after the key. It requires
	// the date ascending sort, so paging with it is unaffected by rows
	// inserted or deleted behind the cursor.
	After *ExpenseKey
}

var oldestFirst = SortSpec{Key: SortByDate, Order: Ascending}

func (q ExpenseQuery) Validate() error {
	if err := q.Filter.Validate(); err != nil {
		return err
	}
	if err := q.Sort.Validate(); err != nil {
		return err
	}
	if q.After != nil && q.Sort != oldestFirst {
		return fmt.Errorf("%w: a cursor needs the date ascending sort", ErrInvalidSort)
	}
	return q.Page.Validate()
}

// MaxTrendDays bounds the length of a trend series.
const MaxTrendDays = 366

func ValidateTrendDays(days int) error {
	if days < 1 || days > MaxTrendDays {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidDays, days, MaxTrendDays)
	}
	return nil
}
