package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func validRecipeRequest(ingredient *models.Ingredient, tag *models.Tag) *types.RecipeWriteRequest {
	return &types.RecipeWriteRequest{
		Ingredients: []types.RecipeIngredientRequest{{ID: ingredient.ID, Amount: 200}},
		Tags:        []uint{tag.ID},
		Image:       ptr(testhelpers.PNGDataURI),
		Name:        ptr("  Pancakes "),
		Text:        ptr("Whisk and fry."),
		CookingTime: ptr(20),
	}
}

func TestRecipeCreate(t *testing.T) {
	s := newTestServices(t)
	author := testhelpers.CreateUser(t, s.db)
	flour := testhelpers.CreateIngredient(t, s.db, "flour", "g")
	tag := testhelpers.CreateTag(t, s.db)

	recipe, err := s.recipes.Create(context.Background(), author.ID, validRecipeRequest(flour, tag))
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, author.ID, recipe.Author.ID)
	assert.False(t, recipe.Author.IsSubscribed)
	assert.False(t, recipe.IsFavorited)
	require.Len(t, recipe.RecipeIngredients, 1)
	assert.Equal(t, "flour", recipe.RecipeIngredients[0].Ingredient.Name)
	assert.Equal(t, 200, recipe.RecipeIngredients[0].Amount)
	require.Len(t, recipe.RecipeTags, 1)
	assert.Equal(t, tag.Slug, recipe.RecipeTags[0].Tag.Slug)

	_, err = os.Stat(filepath.Join(s.mediaRoot, filepath.FromSlash(recipe.Image)))
	assert.NoError(t, err)
}

func TestRecipeCreateValidation(t *testing.T) {
	s := newTestServices(t)
	author := testhelpers.CreateUser(t, s.db)
	flour := testhelpers.CreateIngredient(t, s.db, "flour", "g")
	tag := testhelpers.CreateTag(t, s.db)

	tests := []struct {
		name   string
		mutate func(r *types.RecipeWriteRequest)
		field  string
		want   string
	}{
		{"missing ingredients", func(r *types.RecipeWriteRequest) { r.Ingredients = nil }, "ingredients", requiredMessage},
		{"empty ingredients", func(r *types.RecipeWriteRequest) { r.Ingredients = []types.RecipeIngredientRequest{} }, "ingredients", emptyMessage},
		{"duplicate ingredient", func(r *types.RecipeWriteRequest) {
			r.Ingredients = append(r.Ingredients, types.RecipeIngredientRequest{ID: flour.ID, Amount: 1})
		}, "ingredients", "Duplicate value"},
		{"unknown ingredient", func(r *types.RecipeWriteRequest) {
			r.Ingredients = []types.RecipeIngredientRequest{{ID: 9999, Amount: 1}}
		}, "ingredients", "object does not exist"},
		{"zero amount", func(r *types.RecipeWriteRequest) { r.Ingredients[0].Amount = 0 }, "ingredients", minValueMessage},
		{"missing tags", func(r *types.RecipeWriteRequest) { r.Tags = nil }, "tags", requiredMessage},
		{"duplicate tag", func(r *types.RecipeWriteRequest) { r.Tags = []uint{tag.ID, tag.ID} }, "tags", "Duplicate value"},
		{"missing image", func(r *types.RecipeWriteRequest) { r.Image = nil }, "image", requiredMessage},
		{"blank name", func(r *types.RecipeWriteRequest) { r.Name = ptr("   ") }, "name", blankMessage},
		{"missing text", func(r *types.RecipeWriteRequest) { r.Text = nil }, "text", requiredMessage},
		{"zero cooking time", func(r *types.RecipeWriteRequest) { r.CookingTime = ptr(0) }, "cooking_time", minValueMessage},
		{"amount above integer range", func(r *types.RecipeWriteRequest) { r.Ingredients[0].Amount = types.MaxInteger + 1 }, "ingredients", maxValueMessage},
		{"cooking time above integer range", func(r *types.RecipeWriteRequest) { r.CookingTime = ptr(types.MaxInteger + 1) }, "cooking_time", maxValueMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRecipeRequest(flour, tag)
			tt.mutate(req)

			_, err := s.recipes.Create(context.Background(), author.ID, req)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields[tt.field])
			assert.Contains(t, verr.Fields[tt.field][0], tt.want)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeUpdate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, s.db)
	other := testhelpers.CreateUser(t, s.db)
	flour := testhelpers.CreateIngredient(t, s.db, "flour", "g")
	milk := testhelpers.CreateIngredient(t, s.db, "milk", "ml")
	tag := testhelpers.CreateTag(t, s.db)

	recipe, err := s.recipes.Create(ctx, author.ID, validRecipeRequest(flour, tag))
	require.NoError(t, err)

	_, err = s.recipes.Update(ctx, recipe.ID, other.ID, &types.RecipeWriteRequest{Name: ptr("Mine now")}, types.WritePartial)
	assert.ErrorIs(t, err, types.ErrForbidden)

	// A partial update keeps what was not sent.
	updated, err := s.recipes.Update(ctx, recipe.ID, author.ID, &types.RecipeWriteRequest{
		Ingredients: []types.RecipeIngredientRequest{{ID: milk.ID, Amount: 300}},
	}, types.WritePartial)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image)
	require.Len(t, updated.RecipeIngredients, 1)
	assert.Equal(t, "milk", updated.RecipeIngredients[0].Ingredient.Name)
	require.Len(t, updated.RecipeTags, 1)

	// A full update requires everything except the image.
	_, err = s.recipes.Update(ctx, recipe.ID, author.ID, &types.RecipeWriteRequest{Name: ptr("Crepes")}, types.WriteReplace)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ingredients")
	assert.NotContains(t, verr.Fields, "image")

	req := validRecipeRequest(flour, tag)
	req.Image = nil
	req.Name = ptr("Crepes")
	updated, err = s.recipes.Update(ctx, recipe.ID, author.ID, req, types.WriteReplace)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image)

	_, err = s.recipes.Update(ctx, recipe.ID+100, author.ID, req, types.WriteReplace)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRecipeDelete(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, s.db)
	other := testhelpers.CreateUser(t, s.db)
	flour := testhelpers.CreateIngredient(t, s.db, "flour", "g")
	tag := testhelpers.CreateTag(t, s.db)

	recipe, err := s.recipes.Create(ctx, author.ID, validRecipeRequest(flour, tag))
	require.NoError(t, err)
	_, err = s.recipes.Favorite(ctx, other.ID, recipe.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.recipes.Delete(ctx, recipe.ID, other.ID), types.ErrForbidden)
	require.NoError(t, s.recipes.Delete(ctx, recipe.ID, author.ID))

	for _, model := range []interface{}{&models.Recipe{}, &models.RecipeIngredient{}, &models.RecipeTag{}, &models.Favorite{}} {
		var count int64
		require.NoError(t, s.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
	_, err = os.Stat(filepath.Join(s.mediaRoot, filepath.FromSlash(recipe.Image)))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.recipes.Delete(ctx, recipe.ID, author.ID), types.ErrNotFound)
}

func TestRecipeListFilters(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, s.db)
	bob := testhelpers.CreateUser(t, s.db)
	breakfast := testhelpers.CreateTag(t, s.db)
	dinner := testhelpers.CreateTag(t, s.db)

	r1 := testhelpers.CreateRecipe(t, s.db, alice, []*models.Tag{breakfast})
	r2 := testhelpers.CreateRecipe(t, s.db, alice, []*models.Tag{dinner})
	r3 := testhelpers.CreateRecipe(t, s.db, bob, []*models.Tag{breakfast, dinner})

	_, err := s.recipes.Favorite(ctx, bob.ID, r1.ID)
	require.NoError(t, err)
	_, err = s.recipes.AddToShoppingCart(ctx, bob.ID, r2.ID)
	require.NoError(t, err)

	ids := func(list []models.Recipe) []uint {
		out := make([]uint, len(list))
		for i, r := range list {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name   string
		viewer *uint
		filter RecipeFilter
		want   []uint
	}{
		{"all newest first", nil, RecipeFilter{}, []uint{r3.ID, r2.ID, r1.ID}},
		{"by author", nil, RecipeFilter{AuthorID: &alice.ID}, []uint{r2.ID, r1.ID}},
		{"any of tags", nil, RecipeFilter{TagSlugs: []string{breakfast.Slug}}, []uint{r3.ID, r1.ID}},
		{"favorited", &bob.ID, RecipeFilter{IsFavorited: ptr(true)}, []uint{r1.ID}},
		{"not favorited", &bob.ID, RecipeFilter{IsFavorited: ptr(false)}, []uint{r3.ID, r2.ID}},
		{"in cart", &bob.ID, RecipeFilter{IsInShoppingCart: ptr(true)}, []uint{r2.ID}},
		{"anonymous favorited", nil, RecipeFilter{IsFavorited: ptr(true)}, []uint{}},
		{"combined", &bob.ID, RecipeFilter{AuthorID: &alice.ID, TagSlugs: []string{dinner.Slug}, IsInShoppingCart: ptr(true)}, []uint{r2.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, count, err := s.recipes.List(ctx, tt.viewer, tt.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(list))
			assert.EqualValues(t, len(tt.want), count)
		})
	}

	list, count, err := s.recipes.List(ctx, &bob.ID, RecipeFilter{}, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.Len(t, list, 1)
	assert.Equal(t, r2.ID, list[0].ID)
	assert.True(t, list[0].IsInShoppingCart)
	assert.False(t, list[0].IsFavorited)

	_, _, err = s.recipes.List(ctx, nil, RecipeFilter{TagSlugs: []string{"no-such-tag"}}, 0, 10)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tags")
}

func TestFavoriteAndCartConnections(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db)
	recipe := testhelpers.CreateRecipe(t, s.db, testhelpers.CreateUser(t, s.db), nil)

	_, err := s.recipes.Favorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	_, err = s.recipes.Favorite(ctx, user.ID, recipe.ID)
	var cerr *types.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Recipe is already in favorites", cerr.Message)

	require.NoError(t, s.recipes.Unfavorite(ctx, user.ID, recipe.ID))
	err = s.recipes.Unfavorite(ctx, user.ID, recipe.ID)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, NotLinkedMessage, cerr.Message)

	_, err = s.recipes.AddToShoppingCart(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	_, err = s.recipes.AddToShoppingCart(ctx, user.ID, recipe.ID)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Recipe is already in shopping list", cerr.Message)

	_, err = s.recipes.Favorite(ctx, user.ID, recipe.ID+100)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, s.recipes.RemoveFromShoppingCart(ctx, user.ID, recipe.ID+100), types.ErrNotFound)

	got, err := s.recipes.Get(ctx, recipe.ID, &user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsInShoppingCart)
	assert.False(t, got.IsFavorited)
}

func TestShoppingList(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db)
	author := testhelpers.CreateUser(t, s.db)
	flour := testhelpers.CreateIngredient(t, s.db, "flour", "g")
	flourKg := testhelpers.CreateIngredient(t, s.db, "flour", "kg")
	eggs := testhelpers.CreateIngredient(t, s.db, "eggs", "pcs")

	r1 := testhelpers.CreateRecipe(t, s.db, author, nil,
		testhelpers.IngredientAmount{Ingredient: flour, Amount: 100},
		testhelpers.IngredientAmount{Ingredient: eggs, Amount: 2})
	r2 := testhelpers.CreateRecipe(t, s.db, author, nil,
		testhelpers.IngredientAmount{Ingredient: flour, Amount: 150},
		testhelpers.IngredientAmount{Ingredient: flourKg, Amount: 1})
	testhelpers.CreateRecipe(t, s.db, author, nil, testhelpers.IngredientAmount{Ingredient: eggs, Amount: 12})

	items, err := s.recipes.ShoppingList(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	for _, r := range []*models.Recipe{r1, r2} {
		_, err := s.recipes.AddToShoppingCart(ctx, user.ID, r.ID)
		require.NoError(t, err)
	}

	items, err = s.recipes.ShoppingList(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ShoppingItem{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
		{Name: "flour", MeasurementUnit: "g", Amount: 250},
		{Name: "flour", MeasurementUnit: "kg", Amount: 1},
	}, items)
}
