// Package usecase implements the business logic for recipe management,
// including the ownership checks applied to authenticated principals.
package usecase

import (
	"context"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// RecipeRepository defines the interface for recipe persistence operations.
type RecipeRepository interface {
	// Create inserts a recipe and assigns its generated ID.
	Create(ctx context.Context, recipe *recipeDomain.Recipe) error
	Get(ctx context.Context, id int64) (*recipeDomain.Recipe, error)
	Update(ctx context.Context, recipe *recipeDomain.Recipe) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter recipeDomain.Filter) ([]*recipeDomain.Recipe, error)
}

// RecipeInput carries the caller-editable recipe fields.
type RecipeInput struct {
	Title           string
	Description     string
	OriginURL       string
	Servings        float64
	PreparationTime int
	CookingTime     int
	Difficulty      recipeDomain.Difficulty
}

// RecipeUseCase defines the interface for recipe management business logic.
// Mutating operations take the authenticated principal and enforce ownership:
// users may only change their own recipes, service principals may change any.
type RecipeUseCase interface {
	Create(ctx context.Context, principal *authDomain.Principal, input RecipeInput) (*recipeDomain.Recipe, error)
	Get(ctx context.Context, id int64) (*recipeDomain.Recipe, error)
	Update(
		ctx context.Context,
		principal *authDomain.Principal,
		id int64,
		input RecipeInput,
	) (*recipeDomain.Recipe, error)
	Delete(ctx context.Context, principal *authDomain.Principal, id int64) error
	List(ctx context.Context, filter recipeDomain.Filter) ([]*recipeDomain.Recipe, error)
}
