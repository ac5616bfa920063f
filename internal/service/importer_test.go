package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestCSVImporterIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	importer := NewCSVImporter(db, zap.NewNop())
	ctx := context.Background()

	data := "name,measurement_unit\nflour,g\nmilk, ml\n\"salt, sea\",pinch\n"
	result, err := importer.Import(ctx, "ingredient", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 3}, result)

	// Running the same file again changes nothing.
	result, err = importer.Import(ctx, "Ingredient", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Existing: 3}, result)

	var milk models.Ingredient
	require.NoError(t, db.Where("name = ?", "milk").Take(&milk).Error)
	assert.Equal(t, "ml", milk.MeasurementUnit)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestCSVImporterTagsWithoutHeader(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)

	result, err := NewCSVImporter(db, zap.NewNop()).Import(context.Background(), "tag", strings.NewReader("Breakfast,breakfast\nDinner,dinner\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
}

func TestCSVImporterRollsBackOnBadRow(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	importer := NewCSVImporter(db, zap.NewNop())

	tests := map[string]string{
		"missing field": "flour,g\nmilk\n",
		"empty value":   "flour,g\n,ml\n",
		"too long":      "flour,g\nmilk," + strings.Repeat("x", 65) + "\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := importer.Import(context.Background(), "ingredient", strings.NewReader(data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")

			var count int64
			require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestCSVImporterUnknownModel(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	_, err := NewCSVImporter(db, zap.NewNop()).Import(context.Background(), "recipe", strings.NewReader("a,b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingredient, tag")
}
