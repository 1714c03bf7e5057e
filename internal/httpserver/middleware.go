package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clientportal/internal/handler"
	"clientportal/internal/session"
	"clientportal/pkg/rbac"
	"clientportal/pkg/util"
)

// AuthMiddleware resolves the bearer token to its session slot and puts the
// logged-in account and its role on the context. The slot is the source of
// truth: a valid token whose slot is empty or expired is rejected.
func AuthMiddleware(gate *session.Gate, slots session.SlotStore, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		sid, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		account, ok := gate.Bind(slots.Slot(sid)).CurrentAccount(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(handler.ContextAccountKey, account)
		c.Set(rbac.ContextRoleKey, string(account.Tier))
		c.Next()
	}
}
