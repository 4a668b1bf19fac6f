// Package storeapi implements the catalog REST resources: categories,
// products, services, profiles and authentication.
package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/repository"
	"github.com/talkincode/storefront/internal/webserver"
	"go.uber.org/zap"
)

const (
	reposKey     = "storeapi.repos"
	mediaKey     = "storeapi.media_url"
	tokensKey    = "storeapi.tokens"
	principalKey = "storeapi.principal"
)

// Register mounts every resource on the server's /api group. mediaURL is the
// base used to resolve stored media references.
func Register(srv *webserver.Server, repos *repository.Repositories, mediaURL string) {
	srv.ApiUse(withContext(repos, mediaURL, srv.Tokens()), loadPrincipal)

	registerAuthRoutes(srv)
	registerCategoryRoutes(srv)
	registerProductRoutes(srv)
	registerServiceRoutes(srv)
	registerProfileRoutes(srv)
}

func withContext(repos *repository.Repositories, mediaURL string, tokens *webserver.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(reposKey, repos)
			c.Set(mediaKey, mediaURL)
			c.Set(tokensKey, tokens)
			return next(c)
		}
	}
}

// loadPrincipal resolves the user behind a verified access token. The user
// is read on every request so deactivation takes effect immediately.
func loadPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := webserver.ClaimsFrom(c)
		if claims == nil {
			return next(c)
		}
		u, err := GetRepos(c).Users.GetByID(c.Request().Context(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found", nil)
		}
		if err != nil {
			zap.L().Error("load principal", zap.Int64("user_id", claims.UserID), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user", nil)
		}
		if !u.IsActive {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "User is inactive", nil)
		}
		c.Set(principalKey, u)
		return next(c)
	}
}

func GetRepos(c echo.Context) *repository.Repositories {
	return c.Get(reposKey).(*repository.Repositories)
}

func mediaURL(c echo.Context) string {
	base, _ := c.Get(mediaKey).(string)
	return base
}

func getTokens(c echo.Context) *webserver.TokenIssuer {
	return c.Get(tokensKey).(*webserver.TokenIssuer)
}

// currentUser returns the authenticated user, nil for anonymous requests
func currentUser(c echo.Context) *domain.User {
	u, _ := c.Get(principalKey).(*domain.User)
	return u
}
