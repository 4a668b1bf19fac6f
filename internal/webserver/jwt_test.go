package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewTokenIssuer("unit-test-secret", time.Minute, time.Hour, node)
}

func TestIssueAndParse(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(42, "ana")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := issuer.Parse(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)
	assert.Equal(t, "ana", access.Username)
	assert.Equal(t, TokenAccess, access.TokenType)
	assert.NotEmpty(t, access.ID)

	refresh, err := issuer.Parse(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, refresh.TokenType)
}

func TestRefresh(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue(42, "ana")
	require.NoError(t, err)

	access, claims, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)

	parsed, err := issuer.Parse(access)
	require.NoError(t, err)
	assert.Equal(t, TokenAccess, parsed.TokenType)

	// an access token cannot be used as refresh token
	_, _, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue(1, "root")
	require.NoError(t, err)

	_, err = issuer.Parse(pair.Access + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestIssuer(t)
	other.secret = []byte("another-secret")
	_, err = other.Parse(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// expired
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Parse(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue(9, "bob")
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = httpErrorHandler
	e.GET("/whoami", func(c echo.Context) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, claims.Username)
	}, issuer.Middleware())

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous", header: "", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "access token", header: "Bearer " + pair.Access, wantStatus: http.StatusOK, wantBody: "bob"},
		{name: "refresh token", header: "Bearer " + pair.Refresh, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}
