// Package dto contains request and response payloads for the recipe endpoints.
package dto

import (
	"github.com/jellydator/validation"

	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
	recipeUseCase "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/usecase"
	appvalidation "github.com/Recipe-Web-App/recipe-management-service/internal/validation"
)

// RecipeRequest is the payload for creating or updating a recipe.
type RecipeRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	OriginURL       string  `json:"origin_url,omitempty"`
	Servings        float64 `json:"servings,omitempty"`
	PreparationTime int     `json:"preparation_time,omitempty"`
	CookingTime     int     `json:"cooking_time,omitempty"`
	Difficulty      string  `json:"difficulty,omitempty"`
}

// Validate validates the request fields.
func (r RecipeRequest) Validate() error {
	difficulties := recipeDomain.Difficulties()
	allowed := make([]any, len(difficulties))
	for i, d := range difficulties {
		allowed[i] = string(d)
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, appvalidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 10000)),
		validation.Field(&r.OriginURL, appvalidation.HTTPURL, validation.Length(0, 2048)),
		validation.Field(&r.Servings, validation.Min(0.0)),
		validation.Field(&r.PreparationTime, validation.Min(0)),
		validation.Field(&r.CookingTime, validation.Min(0)),
		validation.Field(&r.Difficulty, validation.In(allowed...)),
	)
}

// Input maps the request to the use case input.
func (r RecipeRequest) Input() recipeUseCase.RecipeInput {
	return recipeUseCase.RecipeInput{
		Title:           r.Title,
		Description:     r.Description,
		OriginURL:       r.OriginURL,
		Servings:        r.Servings,
		PreparationTime: r.PreparationTime,
		CookingTime:     r.CookingTime,
		Difficulty:      recipeDomain.Difficulty(r.Difficulty),
	}
}
