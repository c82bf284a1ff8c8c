package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fly8-hq/fly8-api/internal/models"
)

func newRoleRouter(roles ...models.UserRole) (*gin.Engine, func(role models.UserRole) *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		if role := c.Query("as"); role != "" {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.UserRole(role)})
		}
		c.Next()
	}, RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve := func(role models.UserRole) *httptest.ResponseRecorder {
		target := "/admin"
		if role != "" {
			target += "?as=" + string(role)
		}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	return r, serve
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	_, serve := newRoleRouter(models.RoleSuperAdmin)

	assert.Equal(t, http.StatusOK, serve(models.RoleSuperAdmin).Code)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	_, serve := newRoleRouter(models.RoleSuperAdmin)

	assert.Equal(t, http.StatusForbidden, serve(models.RoleStudent).Code)
	assert.Equal(t, http.StatusForbidden, serve(models.RoleCounselor).Code)
	assert.Equal(t, http.StatusForbidden, serve(models.RoleAgent).Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	_, serve := newRoleRouter(models.RoleSuperAdmin)

	assert.Equal(t, http.StatusUnauthorized, serve("").Code)
}

func TestRequireRolesAcceptsAnyListedRole(t *testing.T) {
	_, serve := newRoleRouter(models.RoleCounselor, models.RoleAgent)

	assert.Equal(t, http.StatusOK, serve(models.RoleCounselor).Code)
	assert.Equal(t, http.StatusOK, serve(models.RoleAgent).Code)
	assert.Equal(t, http.StatusForbidden, serve(models.RoleStudent).Code)
}
