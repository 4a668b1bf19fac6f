package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/repository"
	"github.com/talkincode/storefront/internal/webserver"
	"github.com/talkincode/storefront/pkg/common"
	"go.uber.org/zap"
)

const msgBadCredentials = "No active account found with the given credentials"

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshPayload struct {
	Refresh string `json:"refresh" validate:"required"`
}

type registerPayload struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

func registerAuthRoutes(srv *webserver.Server) {
	srv.ApiPOST("/auth/login/", login, authorize("auth", "login"))
	srv.ApiPOST("/auth/refresh/", refreshToken, authorize("auth", "refresh"))
	srv.ApiPOST("/auth/register/", register, authorize("auth", "register"))
	srv.ApiGET("/auth/me/", me, authorize("auth", "me"))
}

func unauthorized(c echo.Context, message string) error {
	return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse credentials")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	repos := GetRepos(c)
	u, err := repos.Users.GetByUsername(c.Request().Context(), payload.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return unauthorized(c, msgBadCredentials)
	}
	if err != nil {
		return failDatabase(c, "Failed to query user", err)
	}
	if !u.IsActive || !common.CheckPassword(u.Password, payload.Password) {
		return unauthorized(c, msgBadCredentials)
	}

	pair, err := getTokens(c).Issue(u.ID, u.Username)
	if err != nil {
		zap.L().Error("issue token", zap.Int64("user_id", u.ID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", nil)
	}
	if err := repos.Users.TouchLastLogin(c.Request().Context(), u.ID, time.Now()); err != nil {
		zap.L().Warn("update last login", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	return ok(c, pair)
}

func refreshToken(c echo.Context) error {
	var payload refreshPayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse token")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	access, claims, err := getTokens(c).Refresh(payload.Refresh)
	if err != nil {
		return unauthorized(c, "Token is invalid or expired")
	}
	u, err := GetRepos(c).Users.GetByID(c.Request().Context(), claims.UserID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !u.IsActive) {
		return unauthorized(c, msgBadCredentials)
	}
	if err != nil {
		return failDatabase(c, "Failed to query user", err)
	}
	return ok(c, map[string]string{"access": access})
}

func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse registration")
	}
	fe, err := validatePayload(c, &payload)
	if err != nil {
		return handleValidationError(c, err)
	}
	repos := GetRepos(c)
	ctx := c.Request().Context()
	if len(fe["username"]) == 0 {
		taken, err := repos.Users.UsernameExists(ctx, payload.Username)
		if err != nil {
			return failDatabase(c, "Failed to check username", err)
		}
		if taken {
			fe.Add("username", "A user with that username already exists.")
		}
	}
	if len(fe) > 0 {
		return failValidation(c, fe)
	}
	// field rules pass first, as with any object-level check
	if payload.Password != payload.Password2 {
		return failValidation(c, webserver.FieldErrors{"password": {"Passwords do not match."}})
	}

	hash, err := common.HashPassword(payload.Password)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes
		return failValidation(c, webserver.FieldErrors{"password": {"Password could not be accepted."}})
	}
	u := domain.User{
		Username:   payload.Username,
		Email:      strings.TrimSpace(payload.Email),
		Password:   hash,
		FirstName:  strings.TrimSpace(payload.FirstName),
		LastName:   strings.TrimSpace(payload.LastName),
		IsActive:   true,
		DateJoined: time.Now(),
	}
	err = repos.Users.Register(ctx, &u)
	if errors.Is(err, repository.ErrDuplicate) {
		return failValidation(c, webserver.FieldErrors{"username": {"A user with that username already exists."}})
	}
	if err != nil {
		return failDatabase(c, "Failed to register user", err)
	}
	return created(c, map[string]interface{}{
		"message": "Usuario registrado exitosamente",
		"user":    serializeUser(mediaURL(c), u),
	})
}

func me(c echo.Context) error {
	return ok(c, serializeUser(mediaURL(c), *currentUser(c)))
}
