package types

// LoginRequest is the body of the token login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body for creating a user.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// MaxInteger is the largest value an INTEGER column accepts.
const MaxInteger = 2147483647

type RecipeIngredientRequest struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"min=1,max=2147483647"`
}

// RecipeWriteRequest is the write representation of a recipe. A nil field
// was absent from the payload; required-ness depends on whether the write is
// a create, a full update or a partial update.
type RecipeWriteRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" binding:"omitempty,dive"`
	Tags        []uint                    `json:"tags" binding:"omitempty,dive,required"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name" binding:"omitnil,max=256"`
	Text        *string                   `json:"text"`
	CookingTime *int                      `json:"cooking_time" binding:"omitnil,min=1,max=2147483647"`
}

// WriteMode selects the required-field rules for a recipe write.
type WriteMode int

const (
	WriteCreate WriteMode = iota
	WriteReplace
	WritePartial
)
