package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	requiredMessage = "This field is required."
	blankMessage    = "This field may not be blank."
	emptyMessage    = "This list may not be empty."
	minValueMessage = "Ensure this value is greater than or equal to 1."
	maxValueMessage = "Ensure this value is less than or equal to 2147483647."
)

// RecipeFilter narrows a recipe listing. Nil fields do not filter.
type RecipeFilter struct {
	AuthorID         *uint
	TagSlugs         []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	conn   *ConnectionService
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images *ImageService, conn *ConnectionService, logger *zap.Logger) *RecipeService {
	return &RecipeService{db: db, images: images, conn: conn, logger: logger.Named("recipe")}
}

// withRelations loads everything the read representation needs: viewer
// flags on the recipe and its author, tags and ingredients with amounts.
func withRelations(viewer *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(models.RecipeFlags(viewer)).
			Preload("Author", func(tx *gorm.DB) *gorm.DB {
				return tx.Scopes(models.UserFlags(viewer))
			}).
			Preload("RecipeTags", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("recipe_tags.id")
			}).
			Preload("RecipeTags.Tag").
			Preload("RecipeIngredients", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("recipe_ingredients.id")
			}).
			Preload("RecipeIngredients.Ingredient")
	}
}

func (f RecipeFilter) scope(viewer *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.AuthorID != nil {
			db = db.Where("recipes.author_id = ?", *f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			db = db.Where("EXISTS (SELECT 1 FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id"+
				" WHERE recipe_tags.recipe_id = recipes.id AND tags.slug IN ?)", f.TagSlugs)
		}
		if f.IsFavorited != nil {
			db = whereFlag(db, models.FavoritedExpr(viewer), *f.IsFavorited)
		}
		if f.IsInShoppingCart != nil {
			db = whereFlag(db, models.InShoppingCartExpr(viewer), *f.IsInShoppingCart)
		}
		return db
	}
}

func whereFlag(db *gorm.DB, expr clause.Expr, want bool) *gorm.DB {
	if want {
		return db.Where(expr)
	}
	return db.Where(clause.Not(expr))
}

// List returns a page of recipes, newest first, and the total count.
func (s *RecipeService) List(ctx context.Context, viewer *uint, f RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	if err := s.checkTagSlugs(ctx, f.TagSlugs); err != nil {
		return nil, 0, err
	}

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(f.scope(viewer))
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := query().Scopes(withRelations(viewer)).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, count, nil
}

func (s *RecipeService) checkTagSlugs(ctx context.Context, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	var known []string
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("slug IN ?", slugs).Pluck("slug", &known).Error; err != nil {
		return fmt.Errorf("failed to check tags: %w", err)
	}
	found := make(map[string]bool, len(known))
	for _, slug := range known {
		found[slug] = true
	}
	verr := types.NewValidationError()
	for _, slug := range slugs {
		if !found[slug] {
			verr.Add("tags", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", slug))
		}
	}
	return verr.OrNil()
}

// Get loads one recipe in its read representation for viewer.
func (s *RecipeService) Get(ctx context.Context, id uint, viewer *uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Scopes(withRelations(viewer)).
		Where("recipes.id = ?", id).
		Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// find loads the bare row, without relations or flags.
func (s *RecipeService) find(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Take(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// Create validates the write representation, stores the image and inserts
// the recipe with its tags and ingredients in one transaction. The result is
// re-read in the read representation.
func (s *RecipeService) Create(ctx context.Context, authorID uint, req *types.RecipeWriteRequest) (*models.Recipe, error) {
	if err := s.validate(ctx, req, types.WriteCreate); err != nil {
		return nil, err
	}

	imageKey, err := s.images.Save(ctx, RecipeImagePrefix, "image", *req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(*req.Name),
		Text:        *req.Text,
		Image:       imageKey,
		CookingTime: *req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, req.Tags)
	})
	if err != nil {
		s.images.Delete(ctx, imageKey)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	metrics.RecipesCreated.Inc()
	s.logger.Info("recipe created", zap.Uint("recipe_id", recipe.ID), zap.Uint("author_id", authorID))
	return s.Get(ctx, recipe.ID, &authorID)
}

// Update applies a full or partial write. Only the author may update. When
// ingredients or tags are given the whole set is replaced.
func (s *RecipeService) Update(ctx context.Context, id, userID uint, req *types.RecipeWriteRequest, mode types.WriteMode) (*models.Recipe, error) {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, types.ErrForbidden
	}
	if err := s.validate(ctx, req, mode); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}

	var newImage string
	if req.Image != nil && *req.Image != "" {
		newImage, err = s.images.Save(ctx, RecipeImagePrefix, "image", *req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := replaceIngredients(tx, id, req.Ingredients); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := replaceTags(tx, id, req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.images.Delete(ctx, newImage)
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if newImage != "" {
		s.images.Delete(ctx, recipe.Image)
	}
	return s.Get(ctx, id, &userID)
}

// Delete removes a recipe; join rows go with it through ON DELETE CASCADE.
func (s *RecipeService) Delete(ctx context.Context, id, userID uint) error {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return types.ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(&models.Recipe{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	s.images.Delete(ctx, recipe.Image)
	s.logger.Info("recipe deleted", zap.Uint("recipe_id", id))
	return nil
}

func replaceIngredients(tx *gorm.DB, recipeID uint, items []types.RecipeIngredientRequest) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: item.ID, Amount: item.Amount})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

// validate checks a write payload. Which fields are required depends on
// mode; the value checks apply to every present field.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeWriteRequest, mode types.WriteMode) error {
	verr := types.NewValidationError()
	full := mode != types.WritePartial

	switch {
	case req.Ingredients == nil:
		if full {
			verr.Add("ingredients", requiredMessage)
		}
	case len(req.Ingredients) == 0:
		verr.Add("ingredients", emptyMessage)
	default:
		ids := make([]uint, 0, len(req.Ingredients))
		for _, item := range req.Ingredients {
			switch {
			case item.Amount < 1:
				verr.Add("ingredients", minValueMessage)
			case item.Amount > types.MaxInteger:
				verr.Add("ingredients", maxValueMessage)
			}
			ids = append(ids, item.ID)
		}
		if err := s.checkIDs(ctx, verr, "ingredients", &models.Ingredient{}, ids); err != nil {
			return err
		}
	}

	switch {
	case req.Tags == nil:
		if full {
			verr.Add("tags", requiredMessage)
		}
	case len(req.Tags) == 0:
		verr.Add("tags", emptyMessage)
	default:
		if err := s.checkIDs(ctx, verr, "tags", &models.Tag{}, req.Tags); err != nil {
			return err
		}
	}

	if req.Image == nil || *req.Image == "" {
		if mode == types.WriteCreate {
			verr.Add("image", requiredMessage)
		}
	}

	checkText := func(field string, v *string) {
		if v == nil {
			if full {
				verr.Add(field, requiredMessage)
			}
			return
		}
		if strings.TrimSpace(*v) == "" {
			verr.Add(field, blankMessage)
		}
	}
	checkText("name", req.Name)
	checkText("text", req.Text)

	switch {
	case req.CookingTime == nil:
		if full {
			verr.Add("cooking_time", requiredMessage)
		}
	case *req.CookingTime < 1:
		verr.Add("cooking_time", minValueMessage)
	case *req.CookingTime > types.MaxInteger:
		verr.Add("cooking_time", maxValueMessage)
	}

	return verr.OrNil()
}

// checkIDs reports repeated ids and ids with no row in model's table.
func (s *RecipeService) checkIDs(ctx context.Context, verr *types.ValidationError, field string, model interface{}, ids []uint) error {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			verr.Add(field, fmt.Sprintf("Duplicate value %d. Each item may appear only once.", id))
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	var existing []uint
	if err := s.db.WithContext(ctx).Model(model).Where("id IN ?", unique).Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
	found := make(map[uint]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range unique {
		if !found[id] {
			verr.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return nil
}

// Favorite adds the recipe to the user's favorites and returns it.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.find(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.conn.Link(ctx, &models.Favorite{UserID: userID, RecipeID: recipeID}); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.find(ctx, recipeID); err != nil {
		return err
	}
	return s.conn.Unlink(ctx, &models.Favorite{}, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

// AddToShoppingCart adds the recipe to the user's shopping list and returns it.
func (s *RecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.find(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.conn.Link(ctx, &models.ShoppingList{UserID: userID, RecipeID: recipeID}); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.find(ctx, recipeID); err != nil {
		return err
	}
	return s.conn.Unlink(ctx, &models.ShoppingList{}, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

// Exists returns types.ErrNotFound for unknown ids.
func (s *RecipeService) Exists(ctx context.Context, id uint) error {
	_, err := s.find(ctx, id)
	return err
}
