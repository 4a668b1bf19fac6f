package webserver

import (
	"io"
	"net/http"
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InvalidValueMessager is implemented by custom JSON field types that
// describe what a value of the wrong type should have been
type InvalidValueMessager interface {
	InvalidValueMessage() string
}

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
	messagerType    = reflect.TypeOf((*InvalidValueMessager)(nil)).Elem()
)

// jsonSerializer plugs json-iterator into echo
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize decodes the request body into i. A well formed object whose
// members have the wrong type yields FieldErrors as the internal error.
func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to read body").SetInternal(err)
	}
	if err := json.Unmarshal(body, i); err != nil {
		if fe := fieldTypeErrors(body, i); len(fe) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid field type").SetInternal(fe)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed JSON body").SetInternal(err)
	}
	return nil
}

// fieldTypeErrors decodes every member of the object in body on its own
// against the matching field of target and reports the ones that fail
func fieldTypeErrors(body []byte, target interface{}) FieldErrors {
	var members map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil
	}
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	fe := FieldErrors{}
	for idx := 0; idx < t.NumField(); idx++ {
		f := t.Field(idx)
		if !f.IsExported() {
			continue
		}
		name := jsonName(f)
		if name == "" {
			continue
		}
		raw, ok := members[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, reflect.New(f.Type).Interface()); err != nil {
			fe.Add(name, invalidValueMessage(f.Type))
		}
	}
	return fe
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

func invalidValueMessage(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if reflect.PtrTo(t).Implements(messagerType) {
		return reflect.New(t).Interface().(InvalidValueMessager).InvalidValueMessage()
	}
	if t == decimalType || t == nullDecimalType {
		return "A valid number is required."
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.String:
		return "Not a valid string."
	}
	return "Invalid value."
}
