package storeapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/talkincode/storefront/internal/repository"
	"github.com/talkincode/storefront/internal/webserver"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// maxMoney is the first value that no longer fits decimal(10,2)
var maxMoney = decimal.New(1, 8)

// nullableDecimal records whether a nullable decimal was present in the
// body, so that PATCH can tell "absent" from an explicit null
type nullableDecimal struct {
	Present bool
	Value   decimal.NullDecimal
}

func (n *nullableDecimal) UnmarshalJSON(b []byte) error {
	n.Present = true
	return n.Value.UnmarshalJSON(b)
}

func (n *nullableDecimal) InvalidValueMessage() string {
	return "A valid number is required."
}

// requireText flags a missing or blank required string field
func requireText(fe webserver.FieldErrors, field string, v *string) {
	switch {
	case v == nil:
		fe.Add(field, msgRequired)
	case strings.TrimSpace(*v) == "":
		fe.Add(field, msgBlank)
	}
}

// checkMoney enforces the decimal(10,2) column and a non-negative amount
func checkMoney(fe webserver.FieldErrors, field string, d decimal.Decimal) {
	if d.IsNegative() {
		fe.Add(field, "Ensure this value is greater than or equal to 0.")
	}
	if !d.Equal(d.Round(2)) {
		fe.Add(field, "Ensure that there are no more than 2 decimal places.")
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		fe.Add(field, "Ensure that there are no more than 10 digits in total.")
	}
}

// checkCategory verifies that id references an active category
func checkCategory(ctx context.Context, repos *repository.Repositories, fe webserver.FieldErrors, id int64) error {
	_, err := repos.Categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		fe.Add("categoria", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		return nil
	}
	return err
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

const msgInvalidChoice = "Select a valid choice. %s is not one of the available choices."

// queryFilter parses optional list filters, collecting every malformed
// value under its parameter name
type queryFilter struct {
	c  echo.Context
	fe webserver.FieldErrors
}

func newQueryFilter(c echo.Context) *queryFilter {
	return &queryFilter{c: c, fe: webserver.FieldErrors{}}
}

func (f *queryFilter) raw(name string) string {
	return strings.TrimSpace(f.c.QueryParam(name))
}

func (f *queryFilter) flag(name string) *bool {
	raw := f.raw(name)
	if raw == "" {
		return nil
	}
	b, err := cast.ToBoolE(strings.ToLower(raw))
	if err != nil {
		f.fe.Add(name, fmt.Sprintf("\"%s\" value must be either True or False.", raw))
		return nil
	}
	return &b
}

func (f *queryFilter) id(name string) *int64 {
	raw := f.raw(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		f.fe.Add(name, "Select a valid choice. That choice is not one of the available choices.")
		return nil
	}
	return &v
}

// queryChoice reads a filter restricted to the values of T
func queryChoice[T interface {
	~string
	Valid() bool
}](f *queryFilter, name string) *T {
	raw := f.raw(name)
	if raw == "" {
		return nil
	}
	v := T(raw)
	if !v.Valid() {
		f.fe.Add(name, fmt.Sprintf(msgInvalidChoice, raw))
		return nil
	}
	return &v
}

// queryOrdering splits ?ordering=a,-b into tokens
func queryOrdering(c echo.Context) []string {
	var tokens []string
	for _, t := range strings.Split(c.QueryParam("ordering"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func pageWindow(page, pageSize int) repository.Page {
	return repository.Page{Offset: (page - 1) * pageSize, Limit: pageSize}
}
