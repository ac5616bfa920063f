package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestUserFlagsForViewer(t *testing.T) {
	viewer := uint(7)
	stmt := dryRunDB(t).Model(&User{}).Scopes(UserFlags(&viewer)).Find(&[]User{}).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "users.*, EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.subscriber_id = ?"+
		" AND subscriptions.target_id = users.id) AS is_subscribed")
	assert.Equal(t, []interface{}{viewer}, stmt.Vars)
}

func TestRecipeFlagsAnonymous(t *testing.T) {
	stmt := dryRunDB(t).Model(&Recipe{}).Scopes(RecipeFlags(nil)).Find(&[]Recipe{}).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "FALSE AS is_favorited")
	assert.Contains(t, sql, "FALSE AS is_in_shopping_cart")
	assert.Empty(t, stmt.Vars)
}

func TestAnnotateRecipesCount(t *testing.T) {
	stmt := dryRunDB(t).Model(&User{}).Scopes(Annotate("users", RecipesCount())).Find(&[]User{}).Statement
	assert.Contains(t, stmt.SQL.String(), "(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id) AS recipes_count")
}

func TestConstraintMatches(t *testing.T) {
	assert.True(t, UniqueFavorite.Matches("recipe_user_favorite_unique", "", nil))
	assert.True(t, UniqueFavorite.Matches("", "favorites", []string{"user_id", "recipe_id"}))
	assert.False(t, UniqueFavorite.Matches("", "favorites", []string{"recipe_id", "user_id"}))
	assert.False(t, UniqueShoppingList.Matches("", "favorites", []string{"user_id", "recipe_id"}))
	assert.False(t, PreventSelfFollow.Matches("", "subscriptions", nil))
}
