// Package http provides the HTTP handlers for recipe management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	authHTTP "github.com/Recipe-Web-App/recipe-management-service/internal/auth/http"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	"github.com/Recipe-Web-App/recipe-management-service/internal/httputil"
	recipeDomain "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/domain"
	"github.com/Recipe-Web-App/recipe-management-service/internal/recipe/http/dto"
	recipeUseCase "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/usecase"
)

// RecipeHandler serves the recipe management endpoints.
type RecipeHandler struct {
	useCase recipeUseCase.RecipeUseCase
	logger  *slog.Logger
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(useCase recipeUseCase.RecipeUseCase, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// CreateHandler handles POST /api/v1/recipes.
// Returns 201 Created with the stored recipe.
func (h *RecipeHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	recipe, err := h.useCase.Create(c.Request.Context(), principal, req.Input())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRecipeResponse(recipe))
}

// GetHandler handles GET /api/v1/recipes/:id.
func (h *RecipeHandler) GetHandler(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	recipe, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecipeResponse(recipe))
}

// UpdateHandler handles PUT /api/v1/recipes/:id.
func (h *RecipeHandler) UpdateHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := recipeID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	recipe, err := h.useCase.Update(c.Request.Context(), principal, id, req.Input())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecipeResponse(recipe))
}

// DeleteHandler handles DELETE /api/v1/recipes/:id.
// Returns 204 No Content on success.
func (h *RecipeHandler) DeleteHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := recipeID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), principal, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListHandler handles GET /api/v1/recipes?offset=0&limit=50&q=...&mine=true.
func (h *RecipeHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := recipeDomain.Filter{
		Query:  c.Query("q"),
		Offset: offset,
		Limit:  limit,
	}
	if c.Query("mine") == "true" {
		principal, ok := authHTTP.GetPrincipal(c.Request.Context())
		if !ok || principal.Kind != authDomain.PrincipalKindUser || principal.UserID == uuid.Nil {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
			return
		}
		userID := principal.UserID
		filter.UserID = &userID
	}

	recipes, err := h.useCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewListRecipesResponse(recipes))
}

// recipeID parses the :id path parameter.
func recipeID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid recipe id: must be a positive integer")
	}
	return id, nil
}
