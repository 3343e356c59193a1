package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/internal/domain"
)

func TestIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inserted, err := f.catalog.ImportIngredients(ctx, []domain.Ingredient{
		{Name: "Milk", MeasurementUnit: "ml"},
		{Name: "Mint", MeasurementUnit: "g"},
		{Name: "Butter", MeasurementUnit: "g"},
		{Name: "  ", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)

	inserted, err = f.catalog.ImportIngredients(ctx, []domain.Ingredient{
		{Name: "Milk", MeasurementUnit: "ml"},
		{Name: "Milk", MeasurementUnit: "l"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	all, err := f.catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Butter", all[0].Name)

	mi, err := f.catalog.ListIngredients(ctx, "mi")
	require.NoError(t, err)
	require.Len(t, mi, 3)
	assert.Equal(t, domain.Ingredient{ID: mi[0].ID, Name: "Milk", MeasurementUnit: "l"}, mi[0])
	assert.Equal(t, "ml", mi[1].MeasurementUnit)
	assert.Equal(t, "Mint", mi[2].Name)

	none, err := f.catalog.ListIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := f.catalog.GetIngredient(ctx, mi[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Mint", got.Name)

	_, err = f.catalog.GetIngredient(ctx, 9999)
	assert.ErrorIs(t, err, ErrIngredientNotFound)

	_, err = f.catalog.CreateIngredient(ctx, "admin", &domain.CreateIngredientRequest{Name: "Mint", MeasurementUnit: "g"})
	assert.ErrorIs(t, err, ErrIngredientExists)

	_, err = f.catalog.CreateIngredient(ctx, "admin", &domain.CreateIngredientRequest{Name: "Salt"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tags, err := f.catalog.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	lunch, err := f.catalog.CreateTag(ctx, "admin", &domain.CreateTagRequest{Name: "Lunch", Color: "#49b64e", Slug: "lunch"})
	require.NoError(t, err)
	assert.Equal(t, "#49B64E", lunch.Color)

	_, err = f.catalog.CreateTag(ctx, "admin", &domain.CreateTagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	require.NoError(t, err)

	tags, err = f.catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	got, err := f.catalog.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, *lunch, *got)

	_, err = f.catalog.GetTag(ctx, 9999)
	assert.ErrorIs(t, err, ErrTagNotFound)

	_, err = f.catalog.CreateTag(ctx, "admin", &domain.CreateTagRequest{Name: "Lunch 2", Color: "#000000", Slug: "lunch"})
	assert.ErrorIs(t, err, ErrTagExists)

	tests := []struct {
		name string
		req  domain.CreateTagRequest
	}{
		{name: "bad color", req: domain.CreateTagRequest{Name: "Dinner", Color: "red", Slug: "dinner"}},
		{name: "bad slug", req: domain.CreateTagRequest{Name: "Dinner", Color: "#000000", Slug: "din ner"}},
		{name: "missing name", req: domain.CreateTagRequest{Color: "#000000", Slug: "dinner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.catalog.CreateTag(ctx, "admin", &req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
