// Package seed fills a development database with fake users, reference data
// and recipes. It is meant for local development and demos only.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "foodgram-demo"

var units = []string{"g", "kg", "ml", "l", "pcs", "tbsp", "tsp", "cup", "pinch"}

type Options struct {
	Users          int
	Tags           int
	Ingredients    int
	RecipesPerUser int
}

type Summary struct {
	Users       int
	Tags        int
	Ingredients int
	Recipes     int
}

type Seeder struct {
	db     *gorm.DB
	store  storage.Storage
	faker  *gofakeit.Faker
	logger *zap.Logger
}

// New returns a Seeder. The same randSeed yields the same data.
func New(db *gorm.DB, store storage.Storage, randSeed int64, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		store:  store,
		faker:  gofakeit.New(randSeed),
		logger: logger.Named("seed"),
	}
}

// Run creates the requested amount of data. Reference rows that already
// exist are reused.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	tags, err := s.tags(ctx, opts.Tags)
	if err != nil {
		return sum, err
	}
	sum.Tags = len(tags)

	ingredients, err := s.ingredients(ctx, opts.Ingredients)
	if err != nil {
		return sum, err
	}
	sum.Ingredients = len(ingredients)

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return sum, fmt.Errorf("failed to hash password: %w", err)
	}

	imageKey, err := s.placeholderImage(ctx)
	if err != nil {
		return sum, err
	}

	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Email:        strings.ToLower(fmt.Sprintf("%d.%s", i, s.faker.Email())),
			Username:     fmt.Sprintf("%s%d", s.faker.Username(), s.faker.Number(100, 999)),
			FirstName:    s.faker.FirstName(),
			LastName:     s.faker.LastName(),
			PasswordHash: string(hash),
		}
		if err := s.db.WithContext(ctx).Omit("Recipes").Create(user).Error; err != nil {
			return sum, fmt.Errorf("failed to create user: %w", err)
		}
		sum.Users++

		for j := 0; j < opts.RecipesPerUser; j++ {
			if err := s.recipe(ctx, user, imageKey, tags, ingredients); err != nil {
				return sum, err
			}
			sum.Recipes++
		}
	}

	s.logger.Info("seed finished",
		zap.Int("users", sum.Users),
		zap.Int("tags", sum.Tags),
		zap.Int("ingredients", sum.Ingredients),
		zap.Int("recipes", sum.Recipes))
	return sum, nil
}

func (s *Seeder) tags(ctx context.Context, n int) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s %d", s.faker.Adjective(), i)
		tag := models.Tag{Name: truncate(name, 32), Slug: truncate(slugify(name), 32)}
		if err := s.db.WithContext(ctx).Where(models.Tag{Slug: tag.Slug}).FirstOrCreate(&tag).Error; err != nil {
			return nil, fmt.Errorf("failed to create tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) ingredients(ctx context.Context, n int) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, n)
	for i := 0; i < n; i++ {
		ing := models.Ingredient{
			Name:            truncate(fmt.Sprintf("%s %d", s.faker.Vegetable(), i), 128),
			MeasurementUnit: units[s.faker.Number(0, len(units)-1)],
		}
		if err := s.db.WithContext(ctx).Where(ing).FirstOrCreate(&ing).Error; err != nil {
			return nil, fmt.Errorf("failed to create ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, nil
}

func (s *Seeder) recipe(ctx context.Context, author *models.User, imageKey string, tags []models.Tag, ingredients []models.Ingredient) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := models.Recipe{
			AuthorID:    author.ID,
			Name:        truncate(s.faker.Dessert(), 256),
			Text:        s.faker.Paragraph(1, 3, 8, "\n"),
			Image:       imageKey,
			CookingTime: s.faker.Number(5, 180),
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		for _, idx := range s.pick(len(ingredients), 4) {
			row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredients[idx].ID, Amount: s.faker.Number(1, 500)}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to add ingredient: %w", err)
			}
		}
		for _, idx := range s.pick(len(tags), 2) {
			row := models.RecipeTag{RecipeID: recipe.ID, TagID: tags[idx].ID}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to tag recipe: %w", err)
			}
		}
		return nil
	})
}

// pick returns up to k distinct indexes below n.
func (s *Seeder) pick(n, k int) []int {
	if n == 0 {
		return nil
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	s.faker.ShuffleInts(perm)
	if k > n {
		k = n
	}
	return perm[:k]
}

// placeholderImage stores one small PNG shared by all seeded recipes.
func (s *Seeder) placeholderImage(ctx context.Context) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 230, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode placeholder: %w", err)
	}

	const key = "recipes/images/seed-placeholder.png"
	if err := s.store.Save(ctx, key, buf.Bytes(), "image/png"); err != nil {
		return "", err
	}
	return key, nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
