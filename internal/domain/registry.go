package domain

// Tag is a recipe category.
type Tag struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// Ingredient is a registry entry; recipes reference it with an amount.
type Ingredient struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// CreateTagRequest is the admin request to add a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,len=7,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

// CreateIngredientRequest is the admin request to add an ingredient.
type CreateIngredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}
