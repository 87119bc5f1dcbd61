// Package repository implements recipe persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Recipe-Web-App/recipe-management-service/internal/database"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// PostgreSQLRecipeRepository implements recipe persistence for PostgreSQL databases.
type PostgreSQLRecipeRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecipeRepository creates a PostgreSQL recipe repository.
func NewPostgreSQLRecipeRepository(db *sql.DB) *PostgreSQLRecipeRepository {
	return &PostgreSQLRecipeRepository{db: db}
}

// Create inserts a new recipe and assigns its generated ID.
func (p *PostgreSQLRecipeRepository) Create(ctx context.Context, recipe *recipeDomain.Recipe) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO recipes
			  (user_id, title, description, origin_url, servings, preparation_time, cooking_time,
			   difficulty, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING recipe_id`

	err := querier.QueryRowContext(
		ctx,
		query,
		recipe.UserID,
		recipe.Title,
		nullString(recipe.Description),
		nullString(recipe.OriginURL),
		nullFloat(recipe.Servings),
		nullInt(recipe.PreparationTime),
		nullInt(recipe.CookingTime),
		nullString(string(recipe.Difficulty)),
		recipe.CreatedAt,
		recipe.UpdatedAt,
	).Scan(&recipe.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create recipe")
	}
	return nil
}

// Get retrieves a recipe by its ID.
func (p *PostgreSQLRecipeRepository) Get(ctx context.Context, id int64) (*recipeDomain.Recipe, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT recipe_id, user_id, title, description, origin_url, servings,
			  preparation_time, cooking_time, difficulty, created_at, updated_at
			  FROM recipes
			  WHERE recipe_id = $1`

	recipe, err := scanRecipe(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get recipe")
	}
	return recipe, nil
}

// Update persists the caller-editable fields of an existing recipe.
func (p *PostgreSQLRecipeRepository) Update(ctx context.Context, recipe *recipeDomain.Recipe) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE recipes
			  SET title = $1, description = $2, origin_url = $3, servings = $4,
			      preparation_time = $5, cooking_time = $6, difficulty = $7, updated_at = $8
			  WHERE recipe_id = $9`

	result, err := querier.ExecContext(
		ctx,
		query,
		recipe.Title,
		nullString(recipe.Description),
		nullString(recipe.OriginURL),
		nullFloat(recipe.Servings),
		nullInt(recipe.PreparationTime),
		nullInt(recipe.CookingTime),
		nullString(string(recipe.Difficulty)),
		recipe.UpdatedAt,
		recipe.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update recipe")
	}
	return checkAffected(result)
}

// Delete removes a recipe by its ID.
func (p *PostgreSQLRecipeRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM recipes WHERE recipe_id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete recipe")
	}
	return checkAffected(result)
}

// List retrieves recipes matching the filter, newest first.
func (p *PostgreSQLRecipeRepository) List(
	ctx context.Context,
	filter recipeDomain.Filter,
) ([]*recipeDomain.Recipe, error) {
	querier := database.GetTx(ctx, p.db)

	var conditions []string
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	query := `SELECT recipe_id, user_id, title, description, origin_url, servings,
			  preparation_time, cooking_time, difficulty, created_at, updated_at
			  FROM recipes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, recipe_id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list recipes")
	}
	defer func() { _ = rows.Close() }()

	var recipes []*recipeDomain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan recipe")
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate recipes")
	}
	return recipes, nil
}
