package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/http/dto"
	authUseCase "github.com/Recipe-Web-App/recipe-management-service/internal/auth/usecase"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	"github.com/Recipe-Web-App/recipe-management-service/internal/httputil"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	useCase authUseCase.AuthUseCase
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(useCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// IssueTokenHandler handles POST /api/v1/auth/token.
func (h *AuthHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	token, err := h.useCase.IssueToken(c.Request.Context(), req.Subject, req.Roles)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenResponse(token))
}

// UserInfoHandler handles GET /api/v1/auth/userinfo. The bearer token is
// forwarded to the authorization server's userinfo endpoint.
func (h *AuthHandler) UserInfoHandler(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	info, err := h.useCase.UserInfo(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserInfoResponse(info))
}
