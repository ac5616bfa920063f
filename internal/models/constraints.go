package models

import "slices"

// Constraint identifies a storage-level constraint. PostgreSQL reports the
// name; SQLite reports the table and columns for UNIQUE failures and the
// name for CHECK failures, so both are kept.
type Constraint struct {
	Name    string
	Table   string
	Columns []string
}

// Matches reports whether a reported violation refers to c.
func (c Constraint) Matches(name, table string, columns []string) bool {
	if name != "" && name == c.Name {
		return true
	}
	return table == c.Table && len(columns) > 0 && slices.Equal(columns, c.Columns)
}

// Constraint names must stay in sync with the SQL migrations.
var (
	UniqueUserEmail    = Constraint{Name: "users_email_unique", Table: "users", Columns: []string{"email"}}
	UniqueUserUsername = Constraint{Name: "users_username_unique", Table: "users", Columns: []string{"username"}}

	UniqueSubscription = Constraint{Name: "subscriptions_unique_relationships", Table: "subscriptions", Columns: []string{"subscriber_id", "target_id"}}
	PreventSelfFollow  = Constraint{Name: "prevent_self_follow", Table: "subscriptions"}

	UniqueIngredient = Constraint{Name: "ingredient_name_unit_unique", Table: "ingredients", Columns: []string{"name", "measurement_unit"}}
	UniqueTagName    = Constraint{Name: "tags_name_unique", Table: "tags", Columns: []string{"name"}}
	UniqueTagSlug    = Constraint{Name: "tags_slug_unique", Table: "tags", Columns: []string{"slug"}}

	UniqueRecipeIngredient = Constraint{Name: "recipe_ingredient_unique", Table: "recipe_ingredients", Columns: []string{"recipe_id", "ingredient_id"}}
	UniqueRecipeTag        = Constraint{Name: "recipe_tag_unique", Table: "recipe_tags", Columns: []string{"recipe_id", "tag_id"}}
	UniqueFavorite         = Constraint{Name: "recipe_user_favorite_unique", Table: "favorites", Columns: []string{"user_id", "recipe_id"}}
	UniqueShoppingList     = Constraint{Name: "recipe_user_shopping_unique", Table: "shopping_lists", Columns: []string{"user_id", "recipe_id"}}
)
