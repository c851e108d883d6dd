package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizspese/internal/core"
	applog "bizspese/internal/log"
	"bizspese/internal/store"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// DefaultCategories are seeded into an empty store.
var DefaultCategories = []CategoryInput{
	{Name: "Office Supplies", Color: "#3b82f6", Description: "Stationery, printer supplies and small equipment"},
	{Name: "Travel", Color: "#10b981", Description: "Transport, lodging and travel costs"},
	{Name: "Meals & Entertainment", Color: "#f59e0b", Description: "Business meals and client entertainment"},
	{Name: "Utilities", Color: "#8b5cf6", Description: "Power, internet and phone"},
	{Name: "Other", Color: "#6b7280", Description: "Everything else"},
}

type CategoryService struct {
	store  store.CategoryStore
	opts   Options
	logger *applog.Logger
}

func NewCategoryService(st store.CategoryStore, opts Options) *CategoryService {
	opts = opts.withDefaults()
	return &CategoryService{
		store:  st,
		opts:   opts,
		logger: opts.Logger.WithComponent(applog.ComponentCategory),
	}
}

// List returns active categories, or all of them with includeInactive.
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (core.Category, error) {
	c := core.Category{
		ID:          s.opts.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Color:       strings.TrimSpace(in.Color),
		Description: core.OptionalString(in.Description),
		IsActive:    true,
	}
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "Category created", applog.FieldCategoryID, c.ID, "name", c.Name)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, u core.CategoryUpdate) (core.Category, error) {
	current, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, err
	}
	next := u.Apply(current)
	if err := next.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.store.UpdateCategory(ctx, next); err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "Category updated", applog.FieldCategoryID, id)
	return next, nil
}

// Deactivate soft-deletes a category. Its expenses keep referencing it.
func (s *CategoryService) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := s.Update(ctx, id, core.CategoryUpdate{IsActive: &inactive})
	return err
}

// SeedDefaults creates DefaultCategories when the store holds no category at
// all, active or not. It returns how many were created.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := s.store.ListCategories(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	created := 0
	for _, in := range DefaultCategories {
		if _, err := s.Create(ctx, in); err != nil {
			if errors.Is(err, core.ErrConflict) {
				continue
			}
			return created, fmt.Errorf("seed category %q: %w", in.Name, err)
		}
		created++
	}
	s.logger.InfoContext(ctx, "Default categories seeded", applog.FieldOperation, applog.OpSeed, applog.FieldCount, created)
	return created, nil
}
