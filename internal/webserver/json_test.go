package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typedPayload struct {
	Name   *string          `json:"nombre"`
	Stock  *int             `json:"stock"`
	Price  *decimal.Decimal `json:"precio"`
	Active *bool            `json:"activo"`
	Skip   string           `json:"-"`
}

func deserialize(t *testing.T, body string, v interface{}) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return jsonSerializer{}.Deserialize(e.NewContext(req, httptest.NewRecorder()), v)
}

func TestDeserializeFieldTypeErrors(t *testing.T) {
	var p typedPayload
	err := deserialize(t, `{"nombre":"ok","stock":"5","precio":"abc","activo":"yes"}`, &p)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	fe, ok := he.Internal.(FieldErrors)
	require.True(t, ok)
	assert.Equal(t, FieldErrors{
		"stock":  {"A valid integer is required."},
		"precio": {"A valid number is required."},
		"activo": {"Must be a valid boolean."},
	}, fe)
}

func TestDeserializeMalformed(t *testing.T) {
	var p typedPayload
	err := deserialize(t, `{"nombre":`, &p)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Malformed JSON body", he.Message)
	_, isFields := he.Internal.(FieldErrors)
	assert.False(t, isFields)
}

func TestDeserializeValid(t *testing.T) {
	var p typedPayload
	require.NoError(t, deserialize(t, `{"nombre":"Editor","stock":5,"precio":"9.90"}`, &p))
	require.NotNil(t, p.Stock)
	assert.Equal(t, 5, *p.Stock)
	assert.Equal(t, "9.9", p.Price.String())
	assert.Nil(t, p.Active)
}
