package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleProgress, PermissionUpdateProgress))
	assert.True(t, HasPermission(RoleProgress, PermissionSubmitRequest))
	assert.False(t, HasPermission(RoleProgress, PermissionConfirmProposal))

	assert.True(t, HasPermission(RoleProposal, PermissionConfirmProposal))
	assert.False(t, HasPermission(RoleProposal, PermissionReadProgress))

	assert.False(t, HasPermission("", PermissionReadProposal))
}

func TestCheckPermission(t *testing.T) {
	err := CheckPermission(RoleProposal, PermissionUpdateProgress)
	var denied *PermissionDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, PermissionUpdateProgress, denied.Permission)

	assert.NoError(t, CheckPermission(RoleProgress, PermissionUpdateProgress))
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			c.Set(ContextRoleKey, role)
			c.Next()
		}, RequirePermission(PermissionReadProgress), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	w := httptest.NewRecorder()
	newRouter(RoleProgress).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	newRouter(RoleProposal).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
