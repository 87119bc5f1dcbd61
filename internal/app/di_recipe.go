package app

import (
	"fmt"
	"sync"

	recipeHTTP "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/http"
	"github.com/Recipe-Web-App/recipe-management-service/internal/recipe/repository"
	recipeUseCase "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/usecase"
)

// recipeComponents holds the lazily initialized recipe components.
type recipeComponents struct {
	repoInit    sync.Once
	useCaseInit sync.Once
	handlerInit sync.Once

	repo    recipeUseCase.RecipeRepository
	useCase recipeUseCase.RecipeUseCase
	handler *recipeHTTP.RecipeHandler
}

// RecipeRepository returns the recipe repository for the configured driver.
func (c *Container) RecipeRepository() (recipeUseCase.RecipeRepository, error) {
	var err error
	c.recipeInit.repoInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["recipeRepository"] = dbErr
			return
		}

		switch c.config.DBDriver {
		case "postgres":
			c.recipeInit.repo = repository.NewPostgreSQLRecipeRepository(db)
		case "mysql":
			c.recipeInit.repo = repository.NewMySQLRecipeRepository(db)
		default:
			err = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
			c.initErrors["recipeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recipeRepository"]; exists {
		return nil, storedErr
	}
	return c.recipeInit.repo, nil
}

// RecipeUseCase returns the recipe use case, wrapped with metrics when
// enabled.
func (c *Container) RecipeUseCase() (recipeUseCase.RecipeUseCase, error) {
	var err error
	c.recipeInit.useCaseInit.Do(func() {
		repo, repoErr := c.RecipeRepository()
		if repoErr != nil {
			err = repoErr
			c.initErrors["recipeUseCase"] = repoErr
			return
		}

		txManager, txErr := c.TxManager()
		if txErr != nil {
			err = txErr
			c.initErrors["recipeUseCase"] = txErr
			return
		}

		businessMetrics, merr := c.BusinessMetrics()
		if merr != nil {
			err = merr
			c.initErrors["recipeUseCase"] = merr
			return
		}

		useCase := recipeUseCase.NewRecipeUseCase(repo, txManager, c.Logger())
		c.recipeInit.useCase = recipeUseCase.NewRecipeUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recipeUseCase"]; exists {
		return nil, storedErr
	}
	return c.recipeInit.useCase, nil
}

// RecipeHandler returns the recipe endpoints handler.
func (c *Container) RecipeHandler() (*recipeHTTP.RecipeHandler, error) {
	var err error
	c.recipeInit.handlerInit.Do(func() {
		useCase, ucErr := c.RecipeUseCase()
		if ucErr != nil {
			err = ucErr
			c.initErrors["recipeHandler"] = ucErr
			return
		}
		c.recipeInit.handler = recipeHTTP.NewRecipeHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recipeHandler"]; exists {
		return nil, storedErr
	}
	return c.recipeInit.handler, nil
}
