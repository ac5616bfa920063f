package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingList sums ingredient amounts over every recipe in the user's
// shopping list, one line per (name, measurement unit).
func (s *RecipeService) ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	var items []types.ShoppingItem
	err := s.db.WithContext(ctx).Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_lists ON shopping_lists.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_lists.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list: %w", err)
	}
	return items, nil
}

// WriteShoppingListCSV renders items with a header row.
func WriteShoppingListCSV(w io.Writer, items []types.ShoppingItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write([]string{item.Name, item.MeasurementUnit, strconv.FormatInt(item.Amount, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
