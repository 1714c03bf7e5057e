package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	PermissionReadProgress    = "progress:read"
	PermissionUpdateProgress  = "progress:update"
	PermissionReadProposal    = "proposal:read"
	PermissionConfirmProposal = "proposal:confirm"
	PermissionSubmitRequest   = "request:submit"
)

// Roles follow the dashboard tier of the account.
const (
	RoleProposal = "proposal"
	RoleProgress = "progress"
)

// ContextRoleKey is the gin context key the auth middleware stores the role under.
const ContextRoleKey = "role"

var rolePermissions = map[string][]string{
	RoleProposal: {
		PermissionReadProposal,
		PermissionConfirmProposal,
		PermissionSubmitRequest,
	},
	RoleProgress: {
		PermissionReadProgress,
		PermissionUpdateProgress,
		PermissionSubmitRequest,
	},
}

// HasPermission reports whether role grants permission.
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func CheckPermission(role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}

// RequirePermission aborts with 403 unless the role set by the auth
// middleware grants permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRoleKey)
		if err := CheckPermission(role, permission); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
