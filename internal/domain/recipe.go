package domain

import (
	"time"
)

// Recipe is the full recipe view.
type Recipe struct {
	ID               uint               `json:"id"`
	Author           UserResponse       `json:"author"`
	Name             string             `json:"name"`
	Text             string             `json:"text"`
	Image            string             `json:"image"`
	ImageKey         string             `json:"-"`
	CookingTime      int                `json:"cooking_time"`
	PubDate          time.Time          `json:"pub_date"`
	Tags             []Tag              `json:"tags"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
}

// RecipeIngredient is an ingredient line with its amount.
type RecipeIngredient struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeShort is the compact view returned by favorite, cart and
// subscription endpoints.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// IngredientAmount references a registry ingredient from a recipe request.
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1,max=32000"`
}

// RecipeRequest is the body of recipe create and update. Image is a base64
// data URI; required on create, optional on update.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint             `json:"tags" validate:"required,min=1,dive,required"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32000"`
}

// RecipeFilter narrows recipe lists. Empty fields do not filter.
type RecipeFilter struct {
	AuthorID    string
	TagSlugs    []string
	FavoritedBy string
	InCartOf    string
	Offset      int
	Limit       int
}

// RecipeData is what the repository persists for a create or update.
type RecipeData struct {
	AuthorID    string
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
	TagIDs      []uint
}

// CartLine is one ingredient line of one recipe in a user's cart.
type CartLine struct {
	Name   string
	Unit   string
	Amount int
}
