package webserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	// jwtContextKey is where echo-jwt stores the parsed token
	jwtContextKey = "user"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

// Claims are carried by both access and refresh tokens
type Claims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	ids        *snowflake.Node
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, ids *snowflake.Node) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		ids:        ids,
		now:        time.Now,
	}
}

func (t *TokenIssuer) sign(userID int64, username, tokenType string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.ids.Generate().String(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Issue creates a fresh access/refresh pair for the user
func (t *TokenIssuer) Issue(userID int64, username string) (TokenPair, error) {
	access, err := t.sign(userID, username, TokenAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(userID, username, TokenRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse verifies signature, algorithm and expiry of a token
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (t *TokenIssuer) Refresh(refresh string) (string, *Claims, error) {
	claims, err := t.Parse(refresh)
	if err != nil {
		return "", nil, err
	}
	if claims.TokenType != TokenRefresh {
		return "", nil, ErrInvalidToken
	}
	access, err := t.sign(claims.UserID, claims.Username, TokenAccess, t.accessTTL)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}

func (t *TokenIssuer) keyFunc(*jwt.Token) (interface{}, error) {
	return t.secret, nil
}

// Middleware parses the bearer token when one is present. Requests without
// an Authorization header pass through anonymously; the per-route
// authorization decides whether that is acceptable. Refresh tokens are
// rejected here so they can never authenticate a request.
func (t *TokenIssuer) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		ContextKey:    jwtContextKey,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := t.Parse(auth)
			if err != nil {
				return nil, err
			}
			if claims.TokenType != TokenAccess {
				return nil, ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type").SetInternal(err)
		},
	})
}

// ClaimsFrom returns the verified access claims of the request, nil when
// the request is anonymous.
func ClaimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get(jwtContextKey).(*Claims)
	return claims
}
