// Package domain defines the core domain models for recipe management.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is the skill level required for a recipe.
type Difficulty string

// Difficulty levels, ordered from easiest to hardest.
const (
	DifficultyBeginner Difficulty = "BEGINNER"
	DifficultyEasy     Difficulty = "EASY"
	DifficultyMedium   Difficulty = "MEDIUM"
	DifficultyHard     Difficulty = "HARD"
	DifficultyExpert   Difficulty = "EXPERT"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}

// Difficulties lists all known difficulty levels.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyBeginner,
		DifficultyEasy,
		DifficultyMedium,
		DifficultyHard,
		DifficultyExpert,
	}
}

// Recipe represents a recipe owned by a user.
type Recipe struct {
	// ID is the unique identifier for this recipe.
	ID int64
	// UserID is the owner's user ID.
	UserID uuid.UUID
	// Title is the recipe's display title.
	Title string
	// Description is the free-form recipe description, empty when not set.
	Description string
	// OriginURL is the source the recipe was imported from, empty when not set.
	OriginURL string
	// Servings is the number of servings the recipe yields, zero when not set.
	Servings float64
	// PreparationTime is the preparation time in minutes, zero when not set.
	PreparationTime int
	// CookingTime is the cooking time in minutes, zero when not set.
	CookingTime int
	// Difficulty is the skill level, empty when not set.
	Difficulty Difficulty
	// CreatedAt is the UTC timestamp when the recipe was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last modification.
	UpdatedAt time.Time
}

// Filter narrows a recipe listing.
type Filter struct {
	// UserID restricts results to one owner when non-nil.
	UserID *uuid.UUID
	// Query matches against recipe titles when non-empty.
	Query string
	// Offset and Limit paginate the result set.
	Offset int
	Limit  int
}
