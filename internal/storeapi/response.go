package storeapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/storefront/internal/webserver"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, webserver.Response{Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, webserver.Response{Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, webserver.Response{
		Data: data,
		Meta: &webserver.Meta{Total: total, Page: page, PageSize: pageSize},
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, webserver.ErrorResponse{Error: code, Message: message, Details: details})
}

func failValidation(c echo.Context, fe webserver.FieldErrors) error {
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fe)
}

// handleValidationError renders validator output as field-keyed errors
func handleValidationError(c echo.Context, err error) error {
	if fe, isFields := err.(webserver.FieldErrors); isFields {
		return failValidation(c, fe)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", nil)
}

// failBind reports a body that could not be decoded. Members of the wrong
// type are reported per field, anything else as message.
func failBind(c echo.Context, err error, message string) error {
	var fe webserver.FieldErrors
	if errors.As(err, &fe) {
		return failValidation(c, fe)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", message, nil)
}

// validatePayload runs the validator and returns its field errors, never
// nil, so callers can append their own checks. Other failures come back as err.
func validatePayload(c echo.Context, payload interface{}) (webserver.FieldErrors, error) {
	err := c.Validate(payload)
	if err == nil {
		return webserver.FieldErrors{}, nil
	}
	if fe, isFields := err.(webserver.FieldErrors); isFields {
		return fe, nil
	}
	return nil, err
}

// failDatabase logs the cause and answers with an opaque 500
func failDatabase(c echo.Context, message string, err error) error {
	zap.L().Error(message,
		zap.String("uri", c.Request().RequestURI),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err))
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", message, nil)
}

func notFound(c echo.Context) error {
	return fail(c, http.StatusNotFound, "NOT_FOUND", "Not found.", nil)
}

var errInvalidID = errors.New("invalid id")

func invalidID(c echo.Context) error {
	return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID", nil)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// parsePagination accepts perPage (front-end) and pageSize (legacy)
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = defaultPageSize
	raw := c.QueryParam("perPage")
	if raw == "" {
		raw = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(raw); err == nil && ps > 0 {
		pageSize = ps
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}
