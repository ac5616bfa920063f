package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for user account and subscription operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Get(ctx context.Context, id uint, viewer *uint) (*models.User, error)
	List(ctx context.Context, viewer *uint, offset, limit int) ([]models.User, int64, error)
	SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error
	SetAvatar(ctx context.Context, userID uint, dataURI string) (*models.User, error)
	DeleteAvatar(ctx context.Context, userID uint) error
	Subscriptions(ctx context.Context, viewer uint, offset, limit int) ([]models.User, int64, error)
	Subscribe(ctx context.Context, viewer, target uint) (*models.User, error)
	Unsubscribe(ctx context.Context, viewer, target uint) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, viewer *uint, f RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	Get(ctx context.Context, id uint, viewer *uint) (*models.Recipe, error)
	Create(ctx context.Context, authorID uint, req *types.RecipeWriteRequest) (*models.Recipe, error)
	Update(ctx context.Context, id, userID uint, req *types.RecipeWriteRequest, mode types.WriteMode) (*models.Recipe, error)
	Delete(ctx context.Context, id, userID uint) error
	Exists(ctx context.Context, id uint) error
	Favorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	Unfavorite(ctx context.Context, userID, recipeID uint) error
	AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error
	ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingItem, error)
}

type IIngredientService interface {
	List(ctx context.Context, search string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (*models.Ingredient, error)
}

type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uint) (*models.Tag, error)
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IUserService       = (*UserService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ IIngredientService = (*IngredientService)(nil)
	_ ITagService        = (*TagService)(nil)
)
