package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// TestPostgresConstraints runs against a real PostgreSQL container and
// checks that named constraints from the migrations are recognised.
func TestPostgresConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDB(t)
	ctx := context.Background()

	require.NoError(t, database.HealthCheck(ctx, db))

	alice := testhelpers.CreateUser(t, db)
	bob := testhelpers.CreateUser(t, db)

	dup := *alice
	dup.ID = 0
	dup.Username = "someone-else"
	err := db.Omit("Recipes").Create(&dup).Error
	v, ok := database.AsConstraintViolation(err)
	require.True(t, ok, "expected a constraint violation, got %v", err)
	assert.True(t, v.Matches(models.UniqueUserEmail))

	err = db.Create(&models.Subscription{SubscriberID: alice.ID, TargetID: alice.ID}).Error
	v, ok = database.AsConstraintViolation(err)
	require.True(t, ok)
	assert.Equal(t, database.ViolationCheck, v.Kind)
	assert.True(t, v.Matches(models.PreventSelfFollow))

	require.NoError(t, db.Create(&models.Subscription{SubscriberID: alice.ID, TargetID: bob.ID}).Error)
	err = db.Create(&models.Subscription{SubscriberID: alice.ID, TargetID: bob.ID}).Error
	v, ok = database.AsConstraintViolation(err)
	require.True(t, ok)
	assert.True(t, v.Matches(models.UniqueSubscription))

	recipe := testhelpers.CreateRecipe(t, db, alice, nil)
	require.NoError(t, db.Create(&models.Favorite{UserID: bob.ID, RecipeID: recipe.ID}).Error)
	err = db.Create(&models.Favorite{UserID: bob.ID, RecipeID: recipe.ID}).Error
	v, ok = database.AsConstraintViolation(err)
	require.True(t, ok)
	assert.True(t, v.Matches(models.UniqueFavorite))
}
