package storage

import (
	"context"
	"database/sql"
	"fmt"

	"bizspese/internal/core"
)

const categoryColumns = `id, name, color, description, is_active`

func scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var (
		c      core.Category
		desc   sql.NullString
		active int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &desc, &active); err != nil {
		return core.Category{}, err
	}
	c.Description = stringPtr(desc)
	c.IsActive = active != 0
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]core.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY ` + r.dialect.TextOrder("name") + `, id`

	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	c, err := scanCategory(r.queryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		return core.Category{}, notFound(err, "category", id)
	}
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.exec(ctx,
		`INSERT INTO categories (id, name, color, description, is_active) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, nullString(c.Description), boolArg(c.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", c.Name, core.ErrConflict)
		}
		return fmt.Errorf("create category: %w", err)
	}
	logWrite(ctx, "Category saved", "id", c.ID, "name", c.Name)
	return nil
}

func (r *Repository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.exec(ctx,
		`UPDATE categories SET name = ?, color = ?, description = ?, is_active = ? WHERE id = ?`,
		c.Name, c.Color, nullString(c.Description), boolArg(c.IsActive), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", c.Name, core.ErrConflict)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if err := requireAffected(res, "category", c.ID); err != nil {
		return err
	}
	logWrite(ctx, "Category updated", "id", c.ID, "active", c.IsActive)
	return nil
}
