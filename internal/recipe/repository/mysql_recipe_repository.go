package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Recipe-Web-App/recipe-management-service/internal/database"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// MySQLRecipeRepository implements recipe persistence for MySQL databases.
type MySQLRecipeRepository struct {
	db *sql.DB
}

// NewMySQLRecipeRepository creates a MySQL recipe repository.
func NewMySQLRecipeRepository(db *sql.DB) *MySQLRecipeRepository {
	return &MySQLRecipeRepository{db: db}
}

// Create inserts a new recipe and assigns its generated ID.
func (m *MySQLRecipeRepository) Create(ctx context.Context, recipe *recipeDomain.Recipe) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO recipes
			  (user_id, title, description, origin_url, servings, preparation_time, cooking_time,
			   difficulty, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create recipe")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read recipe id")
	}
	recipe.ID = id
	return nil
}

// Get retrieves a recipe by its ID.
func (m *MySQLRecipeRepository) Get(ctx context.Context, id int64) (*recipeDomain.Recipe, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT recipe_id, user_id, title, description, origin_url, servings,
			  preparation_time, cooking_time, difficulty, created_at, updated_at
			  FROM recipes
			  WHERE recipe_id = ?`

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
func (m *MySQLRecipeRepository) Update(ctx context.Context, recipe *recipeDomain.Recipe) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE recipes
			  SET title = ?, description = ?, origin_url = ?, servings = ?,
			      preparation_time = ?, cooking_time = ?, difficulty = ?, updated_at = ?
			  WHERE recipe_id = ?`

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
func (m *MySQLRecipeRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM recipes WHERE recipe_id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete recipe")
	}
	return checkAffected(result)
}

// List retrieves recipes matching the filter, newest first.
func (m *MySQLRecipeRepository) List(
	ctx context.Context,
	filter recipeDomain.Filter,
) ([]*recipeDomain.Recipe, error) {
	querier := database.GetTx(ctx, m.db)

	var conditions []string
	var args []any

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Query != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+filter.Query+"%")
	}

	query := `SELECT recipe_id, user_id, title, description, origin_url, servings,
			  preparation_time, cooking_time, difficulty, created_at, updated_at
			  FROM recipes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, recipe_id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

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
