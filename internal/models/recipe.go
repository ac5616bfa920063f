package models

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"size:255;not null" json:"image"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	RecipeTags        []RecipeTag        `gorm:"foreignKey:RecipeID" json:"tags"`

	// Populated only by annotated queries.
	IsFavorited      bool `gorm:"->" json:"is_favorited"`
	IsInShoppingCart bool `gorm:"->" json:"is_in_shopping_cart"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient links a recipe to an ingredient with the amount used.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	RecipeID     uint       `gorm:"not null" json:"-"`
	IngredientID uint       `gorm:"not null" json:"id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	Amount       int        `gorm:"not null" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

type RecipeTag struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	RecipeID uint `gorm:"not null" json:"-"`
	TagID    uint `gorm:"not null" json:"id"`
	Tag      Tag  `gorm:"foreignKey:TagID" json:"tag"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
