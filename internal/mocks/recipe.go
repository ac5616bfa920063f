package mocks

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) recipe(args mock.Arguments) (*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewer *uint, f service.RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, viewer, f, offset, limit)
	var list []models.Recipe
	if v := args.Get(0); v != nil {
		list = v.([]models.Recipe)
	}
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Get(ctx context.Context, id uint, viewer *uint) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, id, viewer))
}

func (m *MockRecipeService) Create(ctx context.Context, authorID uint, req *types.RecipeWriteRequest) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, authorID, req))
}

func (m *MockRecipeService) Update(ctx context.Context, id, userID uint, req *types.RecipeWriteRequest, mode types.WriteMode) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, id, userID, req, mode))
}

func (m *MockRecipeService) Delete(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRecipeService) Exists(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeService) Favorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, userID, recipeID))
}

func (m *MockRecipeService) Unfavorite(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, userID, recipeID))
}

func (m *MockRecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRecipeService) ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingItem), args.Error(1)
}
