package usecase

import (
	"context"
	"time"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	"github.com/Recipe-Web-App/recipe-management-service/internal/metrics"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// recipeUseCaseWithMetrics decorates RecipeUseCase with metrics instrumentation.
type recipeUseCaseWithMetrics struct {
	next    RecipeUseCase
	metrics metrics.BusinessMetrics
}

// NewRecipeUseCaseWithMetrics wraps a RecipeUseCase with metrics recording.
func NewRecipeUseCaseWithMetrics(useCase RecipeUseCase, m metrics.BusinessMetrics) RecipeUseCase {
	return &recipeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record captures the operation count and duration with its status.
func (u *recipeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "recipes", operation, status)
	u.metrics.RecordDuration(ctx, "recipes", operation, time.Since(start), status)
}

// Create records metrics for recipe creation.
func (u *recipeUseCaseWithMetrics) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input RecipeInput,
) (*recipeDomain.Recipe, error) {
	start := time.Now()
	recipe, err := u.next.Create(ctx, principal, input)
	u.record(ctx, "recipe_create", start, err)
	return recipe, err
}

// Get records metrics for recipe retrieval.
func (u *recipeUseCaseWithMetrics) Get(ctx context.Context, id int64) (*recipeDomain.Recipe, error) {
	start := time.Now()
	recipe, err := u.next.Get(ctx, id)
	u.record(ctx, "recipe_get", start, err)
	return recipe, err
}

// Update records metrics for recipe updates.
func (u *recipeUseCaseWithMetrics) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	id int64,
	input RecipeInput,
) (*recipeDomain.Recipe, error) {
	start := time.Now()
	recipe, err := u.next.Update(ctx, principal, id, input)
	u.record(ctx, "recipe_update", start, err)
	return recipe, err
}

// Delete records metrics for recipe deletion.
func (u *recipeUseCaseWithMetrics) Delete(
	ctx context.Context,
	principal *authDomain.Principal,
	id int64,
) error {
	start := time.Now()
	err := u.next.Delete(ctx, principal, id)
	u.record(ctx, "recipe_delete", start, err)
	return err
}

// List records metrics for recipe listing.
func (u *recipeUseCaseWithMetrics) List(
	ctx context.Context,
	filter recipeDomain.Filter,
) ([]*recipeDomain.Recipe, error) {
	start := time.Now()
	recipes, err := u.next.List(ctx, filter)
	u.record(ctx, "recipe_list", start, err)
	return recipes, err
}
