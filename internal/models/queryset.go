package models

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Annotation is a computed column added to a query as "<expr> AS <Alias>".
type Annotation struct {
	Alias string
	Expr  clause.Expr
}

// Annotate selects every column of table plus the given annotations in a
// single SELECT. Calling Select again on the returned query replaces the
// annotations, so pass all of them at once.
func Annotate(table string, annotations ...Annotation) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var sb strings.Builder
		sb.WriteString(table)
		sb.WriteString(".*")
		vars := make([]interface{}, 0, len(annotations))
		for _, a := range annotations {
			sb.WriteString(", ? AS ")
			sb.WriteString(a.Alias)
			vars = append(vars, a.Expr)
		}
		return db.Select(sb.String(), vars...)
	}
}

var falseExpr = clause.Expr{SQL: "FALSE"}

// existsFor builds EXISTS over a join table correlated with outer.id.
// An anonymous viewer (nil) never matches anything.
func existsFor(viewerID *uint, joinTable, viewerCol, targetCol, outer string) clause.Expr {
	if viewerID == nil {
		return falseExpr
	}
	return clause.Expr{
		SQL: "EXISTS (SELECT 1 FROM " + joinTable +
			" WHERE " + joinTable + "." + viewerCol + " = ?" +
			" AND " + joinTable + "." + targetCol + " = " + outer + ".id)",
		Vars: []interface{}{*viewerID},
	}
}

// SubscribedExpr is true for users the viewer is subscribed to.
func SubscribedExpr(viewerID *uint) clause.Expr {
	return existsFor(viewerID, "subscriptions", "subscriber_id", "target_id", "users")
}

// FavoritedExpr is true for recipes in the viewer's favorites.
func FavoritedExpr(viewerID *uint) clause.Expr {
	return existsFor(viewerID, "favorites", "user_id", "recipe_id", "recipes")
}

// InShoppingCartExpr is true for recipes in the viewer's shopping list.
func InShoppingCartExpr(viewerID *uint) clause.Expr {
	return existsFor(viewerID, "shopping_lists", "user_id", "recipe_id", "recipes")
}

func IsSubscribed(viewerID *uint) Annotation {
	return Annotation{Alias: "is_subscribed", Expr: SubscribedExpr(viewerID)}
}

func IsFavorited(viewerID *uint) Annotation {
	return Annotation{Alias: "is_favorited", Expr: FavoritedExpr(viewerID)}
}

func IsInShoppingCart(viewerID *uint) Annotation {
	return Annotation{Alias: "is_in_shopping_cart", Expr: InShoppingCartExpr(viewerID)}
}

// RecipesCount counts the recipes authored by each user row.
func RecipesCount() Annotation {
	return Annotation{
		Alias: "recipes_count",
		Expr:  clause.Expr{SQL: "(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id)"},
	}
}

// UserFlags annotates a users query for the viewer.
func UserFlags(viewerID *uint) func(*gorm.DB) *gorm.DB {
	return Annotate("users", IsSubscribed(viewerID))
}

// RecipeFlags annotates a recipes query for the viewer.
func RecipeFlags(viewerID *uint) func(*gorm.DB) *gorm.DB {
	return Annotate("recipes", IsFavorited(viewerID), IsInShoppingCart(viewerID))
}
