package dto

import (
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/oauth2"
	authUseCase "github.com/Recipe-Web-App/recipe-management-service/internal/auth/usecase"
)

// TokenResponse is the payload returned after a successful token issuance.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// NewTokenResponse maps an issued token to its response payload.
func NewTokenResponse(token *authUseCase.IssuedToken) TokenResponse {
	return TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}
}

// UserInfoResponse is the payload returned by the userinfo endpoint.
type UserInfoResponse struct {
	Subject string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}

// NewUserInfoResponse maps an authorization server userinfo result to its
// response payload.
func NewUserInfoResponse(info *oauth2.UserInfo) UserInfoResponse {
	return UserInfoResponse{
		Subject: info.Subject,
		Name:    info.Name,
		Email:   info.Email,
	}
}
