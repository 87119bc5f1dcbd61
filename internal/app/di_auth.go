package app

import (
	"sync"

	authHTTP "github.com/Recipe-Web-App/recipe-management-service/internal/auth/http"
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/oauth2"
	authService "github.com/Recipe-Web-App/recipe-management-service/internal/auth/service"
	authUseCase "github.com/Recipe-Web-App/recipe-management-service/internal/auth/usecase"
)

// introspectionCacheMaxEntries bounds the introspection cache; one entry per
// distinct live token is far below this in practice.
const introspectionCacheMaxEntries = 10000

// authComponents holds the lazily initialized authentication components.
type authComponents struct {
	cacheInit    sync.Once
	clientInit   sync.Once
	codecInit    sync.Once
	resolverInit sync.Once
	useCaseInit  sync.Once
	handlerInit  sync.Once
	pipelineInit sync.Once

	cache    *oauth2.IntrospectionCache
	client   *oauth2.Client
	codec    authService.TokenCodec
	resolver authUseCase.IdentityResolver
	useCase  authUseCase.AuthUseCase
	handler  *authHTTP.AuthHandler
	pipeline *authHTTP.Pipeline
}

// IntrospectionCache returns the token introspection cache.
func (c *Container) IntrospectionCache() *oauth2.IntrospectionCache {
	c.authInit.cacheInit.Do(func() {
		c.authInit.cache = oauth2.NewIntrospectionCache(
			c.config.IntrospectionCacheTTL,
			c.config.IntrospectionCacheCleanup,
			introspectionCacheMaxEntries,
		)
	})
	return c.authInit.cache
}

// OAuth2Client returns the authorization server client, or nil when the
// OAuth2 integration is disabled.
func (c *Container) OAuth2Client() *oauth2.Client {
	c.authInit.clientInit.Do(func() {
		if !c.config.OAuth2Enabled {
			return
		}
		c.authInit.client = oauth2.NewClient(oauth2.ClientConfig{
			BaseURL:           c.config.OAuth2BaseURL,
			TokenPath:         c.config.OAuth2TokenPath,
			IntrospectionPath: c.config.OAuth2IntrospectionPath,
			UserInfoPath:      c.config.OAuth2UserInfoPath,
			ClientID:          c.config.OAuth2ClientID,
			ClientSecret:      c.config.OAuth2ClientSecret,
			Scopes:            c.config.OAuth2Scopes,
			Timeout:           c.config.OAuth2RequestTimeout,
		}, c.IntrospectionCache(), c.Logger())
	})
	return c.authInit.client
}

// TokenCodec returns the JWT token codec.
func (c *Container) TokenCodec() authService.TokenCodec {
	c.authInit.codecInit.Do(func() {
		var introspector authService.TokenIntrospector
		if client := c.OAuth2Client(); client != nil {
			introspector = client
		}
		c.authInit.codec = authService.NewJWTCodec(authService.JWTCodecConfig{
			Secret:               c.config.JWTSecret,
			Expiration:           c.config.JWTExpiration,
			IntrospectionEnabled: c.config.OAuth2Enabled && c.config.OAuth2IntrospectionEnabled,
		}, introspector, c.Logger())
	})
	return c.authInit.codec
}

// IdentityResolver returns the identity resolver.
func (c *Container) IdentityResolver() authUseCase.IdentityResolver {
	c.authInit.resolverInit.Do(func() {
		c.authInit.resolver = authUseCase.NewIdentityResolver(c.TokenCodec())
	})
	return c.authInit.resolver
}

// AuthUseCase returns the authentication use case, wrapped with metrics when
// enabled.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authInit.useCaseInit.Do(func() {
		useCase := authUseCase.NewAuthUseCase(
			c.TokenCodec(),
			c.OAuth2Client(),
			c.config.JWTExpiration,
			c.Logger(),
		)

		businessMetrics, merr := c.BusinessMetrics()
		if merr != nil {
			err = merr
			c.initErrors["authUseCase"] = merr
			return
		}
		c.authInit.useCase = authUseCase.NewAuthUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authInit.useCase, nil
}

// AuthHandler returns the authentication endpoints handler.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authInit.handlerInit.Do(func() {
		useCase, uerr := c.AuthUseCase()
		if uerr != nil {
			err = uerr
			c.initErrors["authHandler"] = uerr
			return
		}
		c.authInit.handler = authHTTP.NewAuthHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authInit.handler, nil
}

// AuthPipeline returns the request authentication pipeline. Stage order is
// fixed here: dev header (when OAuth2 is disabled), shared service secret,
// OAuth2 service token, then user token.
func (c *Container) AuthPipeline() (*authHTTP.Pipeline, error) {
	var err error
	c.authInit.pipelineInit.Do(func() {
		codec := c.TokenCodec()

		var stages []authHTTP.Stage
		if !c.config.OAuth2Enabled {
			stages = append(stages, authHTTP.NewDevHeaderStage())
		}
		if c.config.ServiceAuthEnabled {
			stages = append(stages, authHTTP.NewServiceSecretStage(c.config.ServiceAuthSecret))
		}
		if c.config.OAuth2Enabled && c.config.OAuth2ServiceEnabled {
			stages = append(stages, authHTTP.NewServiceTokenStage(codec))
		}
		stages = append(stages, authHTTP.NewUserTokenStage(codec, c.IdentityResolver()))

		businessMetrics, merr := c.BusinessMetrics()
		if merr != nil {
			err = merr
			c.initErrors["authPipeline"] = merr
			return
		}

		c.authInit.pipeline = authHTTP.NewPipeline(
			stages,
			c.config.SkipPathPrefixes(),
			businessMetrics,
			c.Logger(),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authPipeline"]; exists {
		return nil, storedErr
	}
	return c.authInit.pipeline, nil
}
