package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizspese/internal/core"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	c, err := f.categories.Create(ctx, CategoryInput{Name: "  Travel ", Description: " "})
	require.NoError(t, err)
	assert.Equal(t, "id-001", c.ID)
	assert.Equal(t, "Travel", c.Name)
	assert.Equal(t, core.DefaultCategoryColor, c.Color)
	assert.Nil(t, c.Description)
	assert.True(t, c.IsActive)

	_, err = f.categories.Create(ctx, CategoryInput{Name: "Travel"})
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = f.categories.Create(ctx, CategoryInput{Name: ""})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.categories.Create(ctx, CategoryInput{Name: "Fuel", Color: "blue"})
	assert.ErrorIs(t, err, core.ErrInvalidColor)
}

func TestCategoryService_UpdateAndDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	c := f.category(t, "Travel")
	f.category(t, "Utilities")

	updated, err := f.categories.Update(ctx, c.ID, core.CategoryUpdate{Color: ptr("#10b981"), Description: ptr("Trains")})
	require.NoError(t, err)
	assert.Equal(t, "#10b981", updated.Color)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Trains", *updated.Description)

	_, err = f.categories.Update(ctx, c.ID, core.CategoryUpdate{Name: ptr("Utilities")})
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = f.categories.Update(ctx, "missing", core.CategoryUpdate{})
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, f.categories.Deactivate(ctx, c.ID))

	active, err := f.categories.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Utilities", active[0].Name)

	all, err := f.categories.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := f.categories.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCategoryService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	n, err := f.categories.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCategories), n)

	cats, err := f.categories.List(ctx, false)
	require.NoError(t, err)
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Meals & Entertainment", "Office Supplies", "Other", "Travel", "Utilities"}, names)

	n, err = f.categories.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCategoryService_SeedSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	c := f.category(t, "Custom")
	require.NoError(t, f.categories.Deactivate(ctx, c.ID))

	n, err := f.categories.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
