package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// IngredientService serves the read-only ingredient catalogue. Search
// results are cached by normalized query for at most ttl, so rows loaded by
// another process show up once the entry expires.
type IngredientService struct {
	db     *gorm.DB
	cache  *lru.Cache
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type ingredientCacheEntry struct {
	ingredients []models.Ingredient
	expires     time.Time
}

// NewIngredientService returns the catalogue service. A non-positive ttl
// disables the search cache.
func NewIngredientService(db *gorm.DB, cacheSize int, ttl time.Duration, logger *zap.Logger) (*IngredientService, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient cache: %w", err)
	}
	return &IngredientService{db: db, cache: cache, ttl: ttl, now: time.Now, logger: logger.Named("ingredient")}, nil
}

// List returns ingredients whose name contains every term of search,
// case-insensitively. Names starting with the whole query come first; ties
// are alphabetical.
func (s *IngredientService) List(ctx context.Context, search string) ([]models.Ingredient, error) {
	query := strings.ToLower(strings.Join(strings.Fields(search), " "))
	if ingredients, ok := s.cached(query); ok {
		metrics.IngredientCache.WithLabelValues("hit").Inc()
		return ingredients, nil
	}
	metrics.IngredientCache.WithLabelValues("miss").Inc()

	var (
		ingredients []models.Ingredient
		err         error
	)
	if query != "" && s.db.Dialector.Name() == "sqlite" {
		ingredients, err = s.searchFolded(ctx, query)
	} else {
		ingredients, err = s.search(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		s.cache.Add(query, ingredientCacheEntry{ingredients: ingredients, expires: s.now().Add(s.ttl)})
	}
	return ingredients, nil
}

func (s *IngredientService) cached(query string) ([]models.Ingredient, bool) {
	v, ok := s.cache.Get(query)
	if !ok {
		return nil, false
	}
	entry := v.(ingredientCacheEntry)
	if !s.now().Before(entry.expires) {
		s.cache.Remove(query)
		return nil, false
	}
	return entry.ingredients, true
}

func (s *IngredientService) search(ctx context.Context, query string) ([]models.Ingredient, error) {
	db := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if query == "" {
		db = db.Order("ingredients.name")
	} else {
		for _, term := range strings.Fields(query) {
			db = db.Where(`LOWER(ingredients.name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(term)+"%")
		}
		db = db.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                `CASE WHEN LOWER(ingredients.name) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, ingredients.name`,
			Vars:               []interface{}{likeEscaper.Replace(query) + "%"},
			WithoutParentheses: true,
		}})
	}

	var ingredients []models.Ingredient
	if err := db.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// searchFolded matches in Go because SQLite's LOWER only folds ASCII.
func (s *IngredientService) searchFolded(ctx context.Context, query string) ([]models.Ingredient, error) {
	var all []models.Ingredient
	if err := s.db.WithContext(ctx).Order("ingredients.name").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	terms := strings.Fields(query)
	prefixed := make([]models.Ingredient, 0)
	var rest []models.Ingredient
	for _, ing := range all {
		name := strings.ToLower(ing.Name)
		matched := true
		for _, term := range terms {
			if !strings.Contains(name, term) {
				matched = false
				break
			}
		}
		switch {
		case !matched:
		case strings.HasPrefix(name, query):
			prefixed = append(prefixed, ing)
		default:
			rest = append(rest, ing)
		}
	}
	return append(prefixed, rest...), nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).Take(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ingredient, nil
}

// Invalidate drops cached search results after the catalogue changed.
func (s *IngredientService) Invalidate() {
	s.cache.Purge()
}
