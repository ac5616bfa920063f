package mocks

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockIngredientService is a mock implementation of service.IIngredientService
type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) List(ctx context.Context, search string) ([]models.Ingredient, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

// MockTagService is a mock implementation of service.ITagService
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) List(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}
