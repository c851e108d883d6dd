package services

import (
	"context"
	"fmt"

	"bizspese/internal/analytics"
	"bizspese/internal/core"
	applog "bizspese/internal/log"
	"bizspese/internal/store"
)

type WalletInput struct {
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
}

type WalletService struct {
	store  store.WalletStore
	opts   Options
	logger *applog.Logger
}

func NewWalletService(st store.WalletStore, opts Options) *WalletService {
	opts = opts.withDefaults()
	return &WalletService{
		store:  st,
		opts:   opts,
		logger: opts.Logger.WithComponent(applog.ComponentWallet),
	}
}

func (s *WalletService) List(ctx context.Context) ([]core.WalletEntry, error) {
	entries, err := s.store.ListWalletEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallet entries: %w", err)
	}
	return entries, nil
}

// Current returns the most recently updated entry, or core.ErrNotFound.
func (s *WalletService) Current(ctx context.Context) (core.WalletEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return core.WalletEntry{}, err
	}
	cur := analytics.CurrentEntry(entries)
	if cur == nil {
		return core.WalletEntry{}, fmt.Errorf("current wallet entry: %w", core.ErrNotFound)
	}
	return *cur, nil
}

func (s *WalletService) Get(ctx context.Context, id string) (core.WalletEntry, error) {
	return s.store.GetWalletEntry(ctx, id)
}

func (s *WalletService) Create(ctx context.Context, in WalletInput) (core.WalletEntry, error) {
	now := s.opts.stamp()
	w := core.WalletEntry{
		ID:          s.opts.NewID(),
		Amount:      in.Amount,
		Description: core.OptionalString(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := w.Validate(); err != nil {
		return core.WalletEntry{}, err
	}
	if err := s.store.CreateWalletEntry(ctx, w); err != nil {
		return core.WalletEntry{}, err
	}
	s.logger.InfoContext(ctx, "Wallet entry created", applog.FieldWalletEntryID, w.ID, applog.FieldAmount, w.Amount.String())
	return w, nil
}

func (s *WalletService) Update(ctx context.Context, id string, u core.WalletEntryUpdate) (core.WalletEntry, error) {
	current, err := s.store.GetWalletEntry(ctx, id)
	if err != nil {
		return core.WalletEntry{}, err
	}
	next := u.Apply(current, s.opts.stamp())
	if err := next.Validate(); err != nil {
		return core.WalletEntry{}, err
	}
	if err := s.store.UpdateWalletEntry(ctx, next); err != nil {
		return core.WalletEntry{}, err
	}
	s.logger.InfoContext(ctx, "Wallet entry updated", applog.FieldWalletEntryID, id)
	return next, nil
}

func (s *WalletService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWalletEntry(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Wallet entry deleted", applog.FieldWalletEntryID, id)
	return nil
}
