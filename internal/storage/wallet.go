package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"bizspese/internal/core"
)

const walletColumns = `id, amount, description, created_at, updated_at`

func scanWalletEntry(row interface{ Scan(...any) error }) (core.WalletEntry, error) {
	var (
		w      core.WalletEntry
		amount decimal.Decimal
		desc   sql.NullString
	)
	if err := row.Scan(&w.ID, &amount, &desc, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return core.WalletEntry{}, err
	}
	w.Amount = scanMoney(amount)
	w.Description = stringPtr(desc)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}

func (r *Repository) ListWalletEntries(ctx context.Context) ([]core.WalletEntry, error) {
	rows, err := r.query(ctx, `SELECT `+walletColumns+` FROM wallet_entries ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list wallet entries: %w", err)
	}
	defer rows.Close()

	out := []core.WalletEntry{}
	for rows.Next() {
		w, err := scanWalletEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet entry: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repository) GetWalletEntry(ctx context.Context, id string) (core.WalletEntry, error) {
	w, err := scanWalletEntry(r.queryRow(ctx, `SELECT `+walletColumns+` FROM wallet_entries WHERE id = ?`, id))
	if err != nil {
		return core.WalletEntry{}, notFound(err, "wallet entry", id)
	}
	return w, nil
}

func (r *Repository) CreateWalletEntry(ctx context.Context, w core.WalletEntry) error {
	_, err := r.exec(ctx,
		`INSERT INTO wallet_entries (id, amount, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID, amountArg(w.Amount), nullString(w.Description), w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	if err != nil {
		return walletWriteError("create", w, err)
	}
	logWrite(ctx, "Wallet entry saved", "id", w.ID, "amount", w.Amount.String())
	return nil
}

func (r *Repository) UpdateWalletEntry(ctx context.Context, w core.WalletEntry) error {
	res, err := r.exec(ctx,
		`UPDATE wallet_entries SET amount = ?, description = ?, updated_at = ? WHERE id = ?`,
		amountArg(w.Amount), nullString(w.Description), w.UpdatedAt.UTC(), w.ID)
	if err != nil {
		return walletWriteError("update", w, err)
	}
	return requireAffected(res, "wallet entry", w.ID)
}

func walletWriteError(op string, w core.WalletEntry, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("wallet entry %s: %w", w.ID, core.ErrConflict)
	case isNumericOverflow(err):
		return fmt.Errorf("%w: %s out of range", core.ErrInvalidAmount, w.Amount)
	}
	return fmt.Errorf("%s wallet entry: %w", op, err)
}

func (r *Repository) DeleteWalletEntry(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM wallet_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wallet entry: %w", err)
	}
	return requireAffected(res, "wallet entry", id)
}
