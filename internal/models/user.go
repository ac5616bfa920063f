package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:254;not null" json:"email"`
	Username     string    `gorm:"size:150;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID" json:"-"`

	// Populated only by annotated queries.
	IsSubscribed bool  `gorm:"->" json:"is_subscribed"`
	RecipesCount int64 `gorm:"->" json:"recipes_count"`
}

func (User) TableName() string {
	return "users"
}
