package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
	"github.com/talkincode/storefront/pkg/common"
)

const testPassword = "s3cret-pass"

type testAPI struct {
	t     *testing.T
	srv   *webserver.Server
	store *memStore

	admin      domain.User
	user       domain.User
	adminToken string
	userToken  string
}

type apiError struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.Web.Metrics = false
	cfg.Web.MediaURL = "http://media.test/media/"
	srv, err := webserver.NewServer(&cfg)
	require.NoError(t, err)

	store := newMemStore()
	Register(srv, store.repos(), cfg.Web.MediaURL)

	a := &testAPI{t: t, srv: srv, store: store}
	a.admin = a.addUser("admin", true)
	a.user = a.addUser("ana", false)
	a.adminToken = a.token(a.admin)
	a.userToken = a.token(a.user)
	return a
}

func (a *testAPI) addUser(username string, staff bool) domain.User {
	hash, err := common.HashPassword(testPassword)
	require.NoError(a.t, err)
	u := domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		IsStaff:  staff,
		IsActive: true,
	}
	require.NoError(a.t, a.store.repos().Users.Register(context.Background(), &u))
	return u
}

func (a *testAPI) token(u domain.User) string {
	pair, err := a.srv.Tokens().Issue(u.ID, u.Username)
	require.NoError(a.t, err)
	return pair.Access
}

func (a *testAPI) addCategory(name string, active bool) domain.Category {
	c := domain.Category{Name: name, Active: active}
	require.NoError(a.t, a.store.repos().Categories.Create(context.Background(), &c))
	return c
}

func (a *testAPI) addProduct(categoryID int64, name, price string, edit func(*domain.Product)) domain.Product {
	p := domain.NewProduct()
	p.CategoryID = categoryID
	p.Name = name
	p.Description = name + " description"
	p.Price = decimal.RequireFromString(price)
	if edit != nil {
		edit(&p)
	}
	require.NoError(a.t, a.store.repos().Products.Create(context.Background(), &p))
	return p
}

func (a *testAPI) addService(categoryID int64, name string, edit func(*domain.Service)) domain.Service {
	s := domain.NewService()
	s.CategoryID = categoryID
	s.Name = name
	s.Description = name + " description"
	s.ServiceType = domain.ServiceWeb
	s.ClientRequirements = "brief"
	if edit != nil {
		edit(&s)
	}
	require.NoError(a.t, a.store.repos().Services.Create(context.Background(), &s))
	return s
}

// do sends body (a string or a value marshalled to JSON) with an optional
// bearer token
func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.srv.Echo().ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the data member of the envelope into v and returns
// the pagination meta, if any
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) *webserver.Meta {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
		Meta *webserver.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v), rec.Body.String())
	return env.Meta
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestPrincipalIsReloadedPerRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/auth/me/", a.userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	u := a.store.users[a.user.ID]
	u.IsActive = false
	a.store.users[a.user.ID] = u

	rec = a.do(http.MethodGet, "/api/auth/me/", a.userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Error)

	delete(a.store.users, a.user.ID)
	rec = a.do(http.MethodGet, "/api/categorias/", a.userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMalformedBodyAndID(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/categorias/", a.adminToken, "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Error)

	rec = a.do(http.MethodGet, "/api/productos/abc/", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, rec).Error)
}

func TestWrongTypedMembersAreFieldErrors(t *testing.T) {
	a := newTestAPI(t)
	cat := a.addCategory("Software", true)

	rec := a.do(http.MethodPost, "/api/productos/", a.adminToken, map[string]interface{}{
		"categoria": cat.ID, "nombre": "Editor", "descripcion": "text", "precio": "abc", "stock": "5",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", e.Error)
	assert.Equal(t, []string{"A valid number is required."}, e.Details["precio"])
	assert.Equal(t, []string{"A valid integer is required."}, e.Details["stock"])
	assert.NotContains(t, e.Details, "nombre")
}

func TestParsePagination(t *testing.T) {
	e := echo.New()
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"page=3&perPage=10", 3, 10},
		{"page=0&perPage=-1", 1, 20},
		{"perPage=1000", 1, 100},
		{"pageSize=15", 1, 15},
		{"page=x", 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())
			page, pageSize := parsePagination(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.pageSize, pageSize)
		})
	}
}
