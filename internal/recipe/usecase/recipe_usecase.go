package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	"github.com/Recipe-Web-App/recipe-management-service/internal/database"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// recipeUseCase implements RecipeUseCase.
type recipeUseCase struct {
	recipeRepo RecipeRepository
	txManager  database.TxManager
	logger     *slog.Logger
}

// NewRecipeUseCase creates the recipe management use case.
func NewRecipeUseCase(recipeRepo RecipeRepository, txManager database.TxManager, logger *slog.Logger) RecipeUseCase {
	return &recipeUseCase{
		recipeRepo: recipeRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Create inserts a new recipe owned by the calling user. Service principals
// carry no user identity and cannot create recipes.
func (u *recipeUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input RecipeInput,
) (*recipeDomain.Recipe, error) {
	if principal == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if principal.IsService() || principal.UserID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "recipes require a user identity")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &recipeDomain.Recipe{
		UserID:          principal.UserID,
		Title:           input.Title,
		Description:     input.Description,
		OriginURL:       input.OriginURL,
		Servings:        input.Servings,
		PreparationTime: input.PreparationTime,
		CookingTime:     input.CookingTime,
		Difficulty:      input.Difficulty,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	u.logger.Info("recipe created",
		slog.Int64("recipe_id", recipe.ID),
		slog.String("user_id", recipe.UserID.String()),
	)
	return recipe, nil
}

// Get retrieves a recipe by ID.
func (u *recipeUseCase) Get(ctx context.Context, id int64) (*recipeDomain.Recipe, error) {
	return u.recipeRepo.Get(ctx, id)
}

// Update modifies a recipe after checking the caller owns it.
func (u *recipeUseCase) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	id int64,
	input RecipeInput,
) (*recipeDomain.Recipe, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// The read and write run in one transaction so the ownership check
	// cannot race with a concurrent owner change.
	var recipe *recipeDomain.Recipe
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		recipe, err = u.recipeRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwnership(principal, recipe); err != nil {
			return err
		}

		recipe.Title = input.Title
		recipe.Description = input.Description
		recipe.OriginURL = input.OriginURL
		recipe.Servings = input.Servings
		recipe.PreparationTime = input.PreparationTime
		recipe.CookingTime = input.CookingTime
		recipe.Difficulty = input.Difficulty
		recipe.UpdatedAt = time.Now().UTC()

		return u.recipeRepo.Update(ctx, recipe)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("recipe updated",
		slog.Int64("recipe_id", recipe.ID),
		slog.String("principal", principal.Name),
	)
	return recipe, nil
}

// Delete removes a recipe after checking the caller owns it.
func (u *recipeUseCase) Delete(ctx context.Context, principal *authDomain.Principal, id int64) error {
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		recipe, err := u.recipeRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwnership(principal, recipe); err != nil {
			return err
		}
		return u.recipeRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	u.logger.Info("recipe deleted",
		slog.Int64("recipe_id", id),
		slog.String("principal", principal.Name),
	)
	return nil
}

// List retrieves recipes matching the filter.
func (u *recipeUseCase) List(ctx context.Context, filter recipeDomain.Filter) ([]*recipeDomain.Recipe, error) {
	return u.recipeRepo.List(ctx, filter)
}

// checkOwnership allows service principals to modify any recipe and users
// only their own.
func checkOwnership(principal *authDomain.Principal, recipe *recipeDomain.Recipe) error {
	if principal == nil {
		return apperrors.ErrUnauthorized
	}
	if principal.IsService() {
		return nil
	}
	if principal.UserID != recipe.UserID {
		return apperrors.Wrap(apperrors.ErrForbidden, "recipe belongs to another user")
	}
	return nil
}

// validateInput enforces the domain rules the DTO layer cannot express.
func validateInput(input RecipeInput) error {
	if input.Title == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "title is required")
	}
	if input.Difficulty != "" && !input.Difficulty.Valid() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unknown difficulty level")
	}
	if input.Servings < 0 || input.PreparationTime < 0 || input.CookingTime < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "quantities cannot be negative")
	}
	return nil
}
