package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/shopping"
)

func TestShoppingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	flour := f.ingredient(t, "Flour", "g")
	sugar := f.ingredient(t, "Sugar", "g")
	butter := f.ingredient(t, "Butter", "g")
	milk := f.ingredient(t, "Молоко", "мл")
	tag := f.tag(t, "baking")

	cake := f.createRecipe(t, alice.User.ID, f.recipeRequest(t, "Cake", []uint{tag},
		domain.IngredientAmount{ID: flour, Amount: 300},
		domain.IngredientAmount{ID: sugar, Amount: 100},
		domain.IngredientAmount{ID: butter, Amount: 50},
	))
	cookies := f.createRecipe(t, alice.User.ID, f.recipeRequest(t, "Cookies", []uint{tag},
		domain.IngredientAmount{ID: flour, Amount: 200},
		domain.IngredientAmount{ID: sugar, Amount: 50},
		domain.IngredientAmount{ID: milk, Amount: 250},
	))

	_, err := f.recipes.AddToCart(ctx, bob.User.ID, cake.ID)
	require.NoError(t, err)
	_, err = f.recipes.AddToCart(ctx, bob.User.ID, cookies.ID)
	require.NoError(t, err)

	items, err := f.shopping.List(ctx, bob.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []shopping.Item{
		{Index: 1, Name: "Butter", Unit: "g", Amount: 50},
		{Index: 2, Name: "Flour", Unit: "g", Amount: 500},
		{Index: 3, Name: "Sugar", Unit: "g", Amount: 150},
		{Index: 4, Name: "Молоко", Unit: "мл", Amount: 250},
	}, items)

	doc, err := f.shopping.Download(ctx, bob.User.ID, shopping.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Butter - 50g\nFlour - 500g\nSugar - 150g\nМолоко - 250мл", string(doc.Data))

	doc, err = f.shopping.Download(ctx, bob.User.ID, shopping.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))

	// Alice's own cart is empty.
	doc, err = f.shopping.Download(ctx, alice.User.ID, shopping.FormatText)
	require.NoError(t, err)
	assert.Empty(t, doc.Data)
}

func TestShoppingListMissingGlyph(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	tofu := f.ingredient(t, "豆腐", "g")
	tag := f.tag(t, "vegan")

	recipe := f.createRecipe(t, alice.User.ID, f.recipeRequest(t, "Mapo", []uint{tag},
		domain.IngredientAmount{ID: tofu, Amount: 400},
	))
	_, err := f.recipes.AddToCart(ctx, alice.User.ID, recipe.ID)
	require.NoError(t, err)

	_, err = f.shopping.Download(ctx, alice.User.ID, shopping.FormatPDF)
	assert.ErrorIs(t, err, shopping.ErrMissingGlyph)

	doc, err := f.shopping.Download(ctx, alice.User.ID, shopping.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "豆腐 - 400g", string(doc.Data))
}
