package repository

import (
	"database/sql"

	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecipe reads one recipe row, mapping nullable columns to zero values.
func scanRecipe(row rowScanner) (*recipeDomain.Recipe, error) {
	var recipe recipeDomain.Recipe
	var description, originURL, difficulty sql.NullString
	var servings sql.NullFloat64
	var preparationTime, cookingTime sql.NullInt64

	err := row.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&description,
		&originURL,
		&servings,
		&preparationTime,
		&cookingTime,
		&difficulty,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Description = description.String
	recipe.OriginURL = originURL.String
	recipe.Difficulty = recipeDomain.Difficulty(difficulty.String)
	recipe.Servings = servings.Float64
	recipe.PreparationTime = int(preparationTime.Int64)
	recipe.CookingTime = int(cookingTime.Int64)
	return &recipe, nil
}

// checkAffected converts a zero-row result into ErrNotFound.
func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat maps 0 to NULL.
func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

// nullInt maps 0 to NULL.
func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
