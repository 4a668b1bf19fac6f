package storeapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/storefront/internal/domain"
)

// Policy decides who may invoke an action
type Policy int

const (
	AllowAny Policy = iota + 1
	IsAuthenticated
	IsAdmin
)

func (p Policy) String() string {
	switch p {
	case AllowAny:
		return "AllowAny"
	case IsAuthenticated:
		return "IsAuthenticated"
	case IsAdmin:
		return "IsAdmin"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

const (
	ActionList          = "list"
	ActionRetrieve      = "retrieve"
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionPartialUpdate = "partial_update"
	ActionDestroy       = "destroy"
)

// publicRead is the policy set of the catalog resources
var publicRead = map[string]Policy{
	ActionList:          AllowAny,
	ActionRetrieve:      AllowAny,
	ActionCreate:        IsAdmin,
	ActionUpdate:        IsAdmin,
	ActionPartialUpdate: IsAdmin,
	ActionDestroy:       IsAdmin,
}

func withExtra(base map[string]Policy, extra map[string]Policy) map[string]Policy {
	m := make(map[string]Policy, len(base)+len(extra))
	for k, v := range base {
		m[k] = v
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// Permissions is the resource -> action -> policy table consulted before
// every handler
var Permissions = map[string]map[string]Policy{
	"categorias": withExtra(publicRead, map[string]Policy{
		"productos": AllowAny,
		"servicios": AllowAny,
	}),
	"productos": withExtra(publicRead, map[string]Policy{
		"destacados": AllowAny,
		"recientes":  AllowAny,
		"export":     IsAdmin,
	}),
	"servicios": withExtra(publicRead, map[string]Policy{
		"destacados": AllowAny,
	}),
	"perfiles": {
		ActionList:          IsAuthenticated,
		ActionRetrieve:      IsAuthenticated,
		ActionCreate:        IsAuthenticated,
		ActionUpdate:        IsAuthenticated,
		ActionPartialUpdate: IsAuthenticated,
		ActionDestroy:       IsAuthenticated,
		"me":                IsAuthenticated,
	},
	"auth": {
		"login":    AllowAny,
		"refresh":  AllowAny,
		"register": AllowAny,
		"me":       IsAuthenticated,
	},
}

// PolicyFor looks up the policy of an action. Unknown pairs panic so a
// route can never be registered without one.
func PolicyFor(resource, action string) Policy {
	p, ok := Permissions[resource][action]
	if !ok {
		panic(fmt.Sprintf("storeapi: no permission policy for %s.%s", resource, action))
	}
	return p
}

// check evaluates a policy against the (possibly nil) principal and returns
// the status to answer with, 0 when allowed
func (p Policy) check(u *domain.User) int {
	switch p {
	case AllowAny:
		return 0
	case IsAuthenticated:
		if u == nil {
			return http.StatusUnauthorized
		}
		return 0
	case IsAdmin:
		if u == nil {
			return http.StatusUnauthorized
		}
		if !u.IsStaff {
			return http.StatusForbidden
		}
		return 0
	}
	return http.StatusForbidden
}

// authorize resolves the policy at registration time and enforces it per
// request
func authorize(resource, action string) echo.MiddlewareFunc {
	policy := PolicyFor(resource, action)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch policy.check(currentUser(c)) {
			case http.StatusUnauthorized:
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.", nil)
			case http.StatusForbidden:
				return fail(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action.", nil)
			}
			return next(c)
		}
	}
}
