package storeapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/storefront/internal/domain"
)

func TestPolicyCheck(t *testing.T) {
	staff := &domain.User{ID: 1, IsStaff: true, IsActive: true}
	user := &domain.User{ID: 2, IsActive: true}

	tests := []struct {
		policy Policy
		user   *domain.User
		status int
	}{
		{AllowAny, nil, 0},
		{IsAuthenticated, nil, http.StatusUnauthorized},
		{IsAuthenticated, user, 0},
		{IsAdmin, nil, http.StatusUnauthorized},
		{IsAdmin, user, http.StatusForbidden},
		{IsAdmin, staff, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.policy.check(tt.user), "%s %+v", tt.policy, tt.user)
	}
}

func TestPolicyTable(t *testing.T) {
	for _, resource := range []string{"categorias", "productos", "servicios"} {
		assert.Equal(t, AllowAny, PolicyFor(resource, ActionList), resource)
		assert.Equal(t, AllowAny, PolicyFor(resource, ActionRetrieve), resource)
		for _, action := range []string{ActionCreate, ActionUpdate, ActionPartialUpdate, ActionDestroy} {
			assert.Equal(t, IsAdmin, PolicyFor(resource, action), resource+"."+action)
		}
	}
	assert.Equal(t, IsAdmin, PolicyFor("productos", "export"))
	assert.Equal(t, IsAuthenticated, PolicyFor("perfiles", "me"))
	assert.Equal(t, AllowAny, PolicyFor("auth", "register"))

	assert.Panics(t, func() { PolicyFor("productos", "purge") })
	assert.Panics(t, func() { authorize("carritos", ActionList) })
}
