package http

// Parsing of request bodies, query strings and path values into the
// services' input types.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bizspese/internal/core"
	"bizspese/internal/services"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON value from the body into dst. Errors
// returned by the value's own UnmarshalJSON, such as an invalid amount,
// pass through unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, core.ErrValidation), errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", errBadRequest)
		default:
			return fmt.Errorf("%w: malformed JSON body: %v", errBadRequest, err)
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", errBadRequest)
	}
	return nil
}

// parseDateValue accepts YYYY-MM-DD, resolved in loc to the first or last
// instant of that day, or an RFC 3339 timestamp used verbatim.
func parseDateValue(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(time.DateOnly) {
		d, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
		}
		if endOfDay {
			return core.EndOfDay(d), nil
		}
		return core.StartOfDay(d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
	}
	return t, nil
}

func optionalDate(v url.Values, key string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	t, err := parseDateValue(s, loc, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

func optionalAmount(v url.Values, key string) (*core.Money, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	cents, err := core.ParseNonNegativeCents(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", core.ErrInvalidAmount, key, s)
	}
	return &core.Money{Cents: cents}, nil
}

func intParam(v url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", core.ErrInvalidPage, key)
	}
	return n, nil
}

// parseExpenseQuery maps the listing query string. limit defaults to
// core.DefaultPageLimit and may not exceed core.MaxPageLimit.
func parseExpenseQuery(v url.Values, loc *time.Location) (core.ExpenseQuery, error) {
	var q core.ExpenseQuery
	var err error

	q.Filter.Search = sanitizeInput(v.Get("search"))
	q.Filter.CategoryID = strings.TrimSpace(v.Get("categoryId"))
	if q.Filter.StartDate, err = optionalDate(v, "startDate", loc, false); err != nil {
		return q, err
	}
	if q.Filter.EndDate, err = optionalDate(v, "endDate", loc, true); err != nil {
		return q, err
	}
	if q.Filter.MinAmount, err = optionalAmount(v, "minAmount"); err != nil {
		return q, err
	}
	if q.Filter.MaxAmount, err = optionalAmount(v, "maxAmount"); err != nil {
		return q, err
	}

	if q.Sort.Key, err = core.ParseSortKey(v.Get("sortBy")); err != nil {
		return q, err
	}
	if q.Sort.Order, err = core.ParseSortOrder(v.Get("sortOrder")); err != nil {
		return q, err
	}

	if q.Page.Limit, err = intParam(v, "limit", core.DefaultPageLimit); err != nil {
		return q, err
	}
	if q.Page.Offset, err = intParam(v, "offset", 0); err != nil {
		return q, err
	}
	if q.Page.Limit < 0 || q.Page.Limit > core.MaxPageLimit {
		return q, fmt.Errorf("%w: limit must be between 0 and %d", core.ErrInvalidPage, core.MaxPageLimit)
	}
	return q, q.Validate()
}

// parseOptionalMonth reads month and year from the query. Both or neither
// must be present.
func parseOptionalMonth(v url.Values) (*core.Month, error) {
	ms, ys := strings.TrimSpace(v.Get("month")), strings.TrimSpace(v.Get("year"))
	if ms == "" && ys == "" {
		return nil, nil
	}
	if ms == "" || ys == "" {
		return nil, fmt.Errorf("%w: month and year must be given together", errBadRequest)
	}
	m, err := parseMonth(ms, ys)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func parseMonth(monthStr, yearStr string) (core.Month, error) {
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil {
		return core.Month{}, fmt.Errorf("%w: %q", core.ErrInvalidMonth, monthStr)
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return core.Month{}, fmt.Errorf("%w: %q", core.ErrInvalidYear, yearStr)
	}
	return core.NewMonth(year, month)
}

func parseDays(s string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidDays, s)
	}
	return days, core.ValidateTrendDays(days)
}

// boolParam accepts the strconv.ParseBool spellings; absent means false.
func boolParam(v url.Values, key string) (bool, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", errBadRequest, key)
	}
	return b, nil
}

// expenseRequest is the create body. A missing date means now.
type expenseRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	CategoryID  string     `json:"categoryId"`
	Vendor      string     `json:"vendor"`
	Date        string     `json:"date"`
	ReceiptPath string     `json:"receiptPath"`
	Notes       string     `json:"notes"`
}

func (req expenseRequest) input(now time.Time, loc *time.Location) (services.ExpenseInput, error) {
	in := services.ExpenseInput{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Vendor:      sanitizeInput(req.Vendor),
		Date:        now,
		ReceiptPath: strings.TrimSpace(req.ReceiptPath),
		Notes:       sanitizeInput(req.Notes),
	}
	if strings.TrimSpace(req.Date) != "" {
		d, err := parseDateValue(req.Date, loc, false)
		if err != nil {
			return in, fmt.Errorf("date: %w", err)
		}
		in.Date = d
	}
	return in, nil
}

// expenseUpdateRequest is the partial update body; absent fields stay
// unchanged and "" clears an optional text field.
type expenseUpdateRequest struct {
	Description *string     `json:"description"`
	Amount      *core.Money `json:"amount"`
	CategoryID  *string     `json:"categoryId"`
	Vendor      *string     `json:"vendor"`
	Date        *string     `json:"date"`
	ReceiptPath *string     `json:"receiptPath"`
	Notes       *string     `json:"notes"`
}

func (req expenseUpdateRequest) update(loc *time.Location) (core.ExpenseUpdate, error) {
	u := core.ExpenseUpdate{
		Description: sanitizePtr(req.Description),
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Vendor:      sanitizePtr(req.Vendor),
		ReceiptPath: req.ReceiptPath,
		Notes:       sanitizePtr(req.Notes),
	}
	if req.Date != nil {
		d, err := parseDateValue(*req.Date, loc, false)
		if err != nil {
			return u, fmt.Errorf("date: %w", err)
		}
		u.Date = &d
	}
	return u, nil
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeInput(*s)
	return &v
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
