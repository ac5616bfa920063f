package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MediaResolver turns a stored media key into its public URL.
type MediaResolver interface {
	URL(key string) *string
}

type serializer struct {
	media MediaResolver
}

func (s serializer) mediaURL(c *gin.Context, key string) *string {
	u := s.media.URL(key)
	if u == nil {
		return nil
	}
	abs := absoluteURL(c, *u)
	return &abs
}

func (s serializer) user(c *gin.Context, u *models.User) types.UserResponse {
	return types.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: u.IsSubscribed,
		Avatar:       s.mediaURL(c, u.Avatar),
	}
}

func (s serializer) users(c *gin.Context, users []models.User) []types.UserResponse {
	out := make([]types.UserResponse, len(users))
	for i := range users {
		out[i] = s.user(c, &users[i])
	}
	return out
}

// authorWithRecipes keeps at most recipesLimit recipes; a negative limit
// keeps all of them.
func (s serializer) authorWithRecipes(c *gin.Context, u *models.User, recipesLimit int) types.AuthorWithRecipesResponse {
	recipes := u.Recipes
	if recipesLimit >= 0 && len(recipes) > recipesLimit {
		recipes = recipes[:recipesLimit]
	}
	short := make([]types.RecipeShortResponse, len(recipes))
	for i := range recipes {
		short[i] = s.recipeShort(c, &recipes[i])
	}
	return types.AuthorWithRecipesResponse{
		UserResponse: s.user(c, u),
		Recipes:      short,
		RecipesCount: u.RecipesCount,
	}
}

func (s serializer) recipeShort(c *gin.Context, r *models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       s.mediaURL(c, r.Image),
		CookingTime: r.CookingTime,
	}
}

func (s serializer) recipe(c *gin.Context, r *models.Recipe) types.RecipeResponse {
	tags := make([]models.Tag, len(r.RecipeTags))
	for i, rt := range r.RecipeTags {
		tags[i] = rt.Tag
	}
	ingredients := make([]types.RecipeIngredientResponse, len(r.RecipeIngredients))
	for i, ri := range r.RecipeIngredients {
		ingredients[i] = types.RecipeIngredientResponse{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return types.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           s.user(c, &r.Author),
		Ingredients:      ingredients,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            s.mediaURL(c, r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func (s serializer) recipes(c *gin.Context, recipes []models.Recipe) []types.RecipeResponse {
	out := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		out[i] = s.recipe(c, &recipes[i])
	}
	return out
}
