package dto

import (
	"time"

	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// RecipeResponse is the payload returned for a single recipe.
type RecipeResponse struct {
	ID              int64     `json:"recipe_id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	OriginURL       string    `json:"origin_url,omitempty"`
	Servings        float64   `json:"servings,omitempty"`
	PreparationTime int       `json:"preparation_time,omitempty"`
	CookingTime     int       `json:"cooking_time,omitempty"`
	Difficulty      string    `json:"difficulty,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewRecipeResponse maps a recipe to its response payload.
func NewRecipeResponse(recipe *recipeDomain.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:              recipe.ID,
		UserID:          recipe.UserID.String(),
		Title:           recipe.Title,
		Description:     recipe.Description,
		OriginURL:       recipe.OriginURL,
		Servings:        recipe.Servings,
		PreparationTime: recipe.PreparationTime,
		CookingTime:     recipe.CookingTime,
		Difficulty:      string(recipe.Difficulty),
		CreatedAt:       recipe.CreatedAt,
		UpdatedAt:       recipe.UpdatedAt,
	}
}

// ListRecipesResponse is the payload returned for a recipe listing.
type ListRecipesResponse struct {
	Recipes []RecipeResponse `json:"recipes"`
	Count   int              `json:"count"`
}

// NewListRecipesResponse maps recipes to the listing payload.
func NewListRecipesResponse(recipes []*recipeDomain.Recipe) ListRecipesResponse {
	items := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		items[i] = NewRecipeResponse(r)
	}
	return ListRecipesResponse{
		Recipes: items,
		Count:   len(items),
	}
}
