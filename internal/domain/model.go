package domain

import (
	"time"

	"github.com/weiawesome/foodgram/pkg/database"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           string               `gorm:"type:varchar(36);primaryKey"`
	Email        string               `gorm:"type:varchar(254);uniqueIndex;not null"`
	Username     string               `gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName    string               `gorm:"type:varchar(150);not null"`
	LastName     string               `gorm:"type:varchar(150);not null"`
	PasswordHash string               `gorm:"type:varchar(255);not null"`
	Roles        database.StringArray `gorm:"type:text"`
	CreatedAt    time.Time            `gorm:"autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		Roles:        []string(m.Roles),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Roles:        database.StringArray(u.Roles),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// TagModel is the GORM model for the tags table.
type TagModel struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"type:varchar(200);uniqueIndex;not null"`
	Color string `gorm:"type:varchar(7);uniqueIndex;not null"`
	Slug  string `gorm:"type:varchar(200);uniqueIndex;not null"`
}

func (TagModel) TableName() string { return "tags" }

func (m *TagModel) ToDomain() Tag {
	return Tag{ID: m.ID, Name: m.Name, Color: m.Color, Slug: m.Slug}
}

// IngredientModel is the GORM model for the ingredients table.
// (name, measurement_unit) is unique.
type IngredientModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit,priority:1"`
	MeasurementUnit string `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit,priority:2"`
}

func (IngredientModel) TableName() string { return "ingredients" }

func (m *IngredientModel) ToDomain() Ingredient {
	return Ingredient{ID: m.ID, Name: m.Name, MeasurementUnit: m.MeasurementUnit}
}

// RecipeModel is the GORM model for the recipes table.
type RecipeModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	AuthorID    string    `gorm:"type:varchar(36);not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Text        string    `gorm:"type:text;not null"`
	Image       string    `gorm:"type:varchar(255)"`
	CookingTime int       `gorm:"not null"`
	PubDate     time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (RecipeModel) TableName() string { return "recipes" }

// RecipeIngredientModel is one ingredient line of a recipe.
type RecipeIngredientModel struct {
	ID           uint `gorm:"primaryKey;autoIncrement"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient,priority:1"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient,priority:2;index"`
	Amount       int  `gorm:"not null"`
}

func (RecipeIngredientModel) TableName() string { return "recipe_ingredients" }

// RecipeTagModel links recipes and tags.
type RecipeTagModel struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
}

func (RecipeTagModel) TableName() string { return "recipe_tags" }

// FavoriteModel is the GORM model for the favorites table.
type FavoriteModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe,priority:1"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FavoriteModel) TableName() string { return "favorites" }

// ShoppingCartModel is the GORM model for the shopping_carts table.
type ShoppingCartModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe,priority:1"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ShoppingCartModel) TableName() string { return "shopping_carts" }

// FollowModel is the GORM model for the follows table.
type FollowModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_follow_user_author,priority:1"`
	AuthorID  string    `gorm:"column:author_id;type:varchar(36);not null;uniqueIndex:idx_follow_user_author,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FollowModel) TableName() string { return "follows" }

// Models lists every table for auto-migration.
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&TagModel{},
		&IngredientModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&RecipeTagModel{},
		&FavoriteModel{},
		&ShoppingCartModel{},
		&FollowModel{},
	}
}
