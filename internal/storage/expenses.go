package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bizspese/internal/core"
)

const expenseSelect = `SELECT e.id, e.description, e.amount, e.category_id, e.vendor, e.date,
	e.receipt_path, e.notes, e.created_at, e.updated_at,
	c.id, c.name, c.color, c.description, c.is_active
FROM expenses e
LEFT JOIN categories c ON c.id = e.category_id`

// creationOrder is appended to every ORDER BY so equal sort keys keep the
// order in which rows were created.
const creationOrder = `e.created_at ASC, e.id ASC`

func scanExpense(row interface{ Scan(...any) error }) (core.ExpenseWithCategory, error) {
	var (
		out                             core.ExpenseWithCategory
		amount                          decimal.Decimal
		vendor, receipt, notes          sql.NullString
		catID, catName, catColor, cDesc sql.NullString
		catActive                       sql.NullInt64
	)
	e := &out.Expense
	err := row.Scan(&e.ID, &e.Description, &amount, &e.CategoryID, &vendor, &e.Date,
		&receipt, &notes, &e.CreatedAt, &e.UpdatedAt,
		&catID, &catName, &catColor, &cDesc, &catActive)
	if err != nil {
		return core.ExpenseWithCategory{}, err
	}
	e.Amount = scanMoney(amount)
	e.Vendor = stringPtr(vendor)
	e.ReceiptPath = stringPtr(receipt)
	e.Notes = stringPtr(notes)
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	if catID.Valid {
		out.Category = &core.Category{
			ID:          catID.String,
			Name:        catName.String,
			Color:       catColor.String,
			Description: stringPtr(cDesc),
			IsActive:    catActive.Int64 != 0,
		}
	}
	return out, nil
}

// whereClause renders the filter as a WHERE clause over alias e.
func whereClause(f core.ExpenseFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		conds = append(conds, `(LOWER(e.description) LIKE ? ESCAPE '\' OR LOWER(COALESCE(e.vendor, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.CategoryID != "" {
		conds = append(conds, `e.category_id = ?`)
		args = append(args, f.CategoryID)
	}
	if f.StartDate != nil {
		conds = append(conds, `e.date >= ?`)
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		conds = append(conds, `e.date <= ?`)
		args = append(args, f.EndDate.UTC())
	}
	if f.MinAmount != nil {
		conds = append(conds, `e.amount >= ?`)
		args = append(args, amountArg(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		conds = append(conds, `e.amount <= ?`)
		args = append(args, amountArg(*f.MaxAmount))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repository) orderClause(s core.SortSpec) string {
	var key string
	switch s.Key {
	case core.SortByAmount:
		key = `e.amount`
	case core.SortByDescription:
		key = r.dialect.TextOrder(`LOWER(e.description)`)
	case core.SortByCategory:
		key = r.dialect.TextOrder(`LOWER(COALESCE(c.name, ''))`)
	default:
		key = `e.date`
	}
	dir := "DESC"
	if s.Order == core.Ascending {
		dir = "ASC"
	}
	return " ORDER BY " + key + " " + dir + ", " + creationOrder
}

// afterClause keeps rows strictly after k in date, created_at, id order.
func afterClause(where string, args []any, k core.ExpenseKey) (string, []any) {
	cond := `(e.date > ? OR (e.date = ? AND (e.created_at > ? OR (e.created_at = ? AND e.id > ?))))`
	args = append(args, k.Date.UTC(), k.Date.UTC(), k.CreatedAt.UTC(), k.CreatedAt.UTC(), k.ID)
	if where == "" {
		return " WHERE " + cond, args
	}
	return where + " AND " + cond, args
}

func (r *Repository) ListExpenses(ctx context.Context, q core.ExpenseQuery) ([]core.ExpenseWithCategory, error) {
	where, args := whereClause(q.Filter)
	if q.After != nil {
		where, args = afterClause(where, args, *q.After)
	}

	var limit any = q.Page.Limit
	if q.Page.Limit == core.NoLimit {
		limit = r.dialect.NoLimit()
	}
	query := expenseSelect + where + r.orderClause(q.Sort) + ` LIMIT ? OFFSET ?`
	args = append(args, limit, q.Page.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.ExpenseWithCategory{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) CountExpenses(ctx context.Context, f core.ExpenseFilter) (int, error) {
	where, args := whereClause(f)
	var n int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM expenses e`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func (r *Repository) GetExpense(ctx context.Context, id string) (core.ExpenseWithCategory, error) {
	e, err := scanExpense(r.queryRow(ctx, expenseSelect+` WHERE e.id = ?`, id))
	if err != nil {
		return core.ExpenseWithCategory{}, notFound(err, "expense", id)
	}
	return e, nil
}

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.exec(ctx,
		`INSERT INTO expenses (id, description, amount, category_id, vendor, date, receipt_path, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, amountArg(e.Amount), e.CategoryID, nullString(e.Vendor), e.Date.UTC(),
		nullString(e.ReceiptPath), nullString(e.Notes), e.CreatedAt.UTC(), e.UpdatedAt.UTC())
	if err != nil {
		return expenseWriteError("create", e, err)
	}
	logWrite(ctx, "Expense saved", "id", e.ID, "amount", e.Amount.String(), "category_id", e.CategoryID)
	return nil
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.exec(ctx,
		`UPDATE expenses SET description = ?, amount = ?, category_id = ?, vendor = ?, date = ?,
		receipt_path = ?, notes = ?, updated_at = ? WHERE id = ?`,
		e.Description, amountArg(e.Amount), e.CategoryID, nullString(e.Vendor), e.Date.UTC(),
		nullString(e.ReceiptPath), nullString(e.Notes), e.UpdatedAt.UTC(), e.ID)
	if err != nil {
		return expenseWriteError("update", e, err)
	}
	return requireAffected(res, "expense", e.ID)
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res, "expense", id)
}

func expenseWriteError(op string, e core.Expense, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s", core.ErrUnknownCategory, e.CategoryID)
	case isUniqueViolation(err):
		return fmt.Errorf("expense %s: %w", e.ID, core.ErrConflict)
	case isNumericOverflow(err):
		return fmt.Errorf("%w: %s out of range", core.ErrInvalidAmount, e.Amount)
	}
	return fmt.Errorf("%s expense: %w", op, err)
}
