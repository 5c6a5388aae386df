package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/domain/model"
)

const (
	// ActorContextKey is a gin context key for the resolved acting identity.
	ActorContextKey = "actor"

	actorIDHeader   = "X-Actor-ID"
	actorRoleHeader = "X-Actor-Role"
)

// ActorRequired resolves the acting identity from the headers set by the
// upstream authentication proxy. Requests without a verified identity never
// reach the handlers.
func ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader(actorIDHeader)
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		role, err := model.ParseRole(c.GetHeader(actorRoleHeader))
		if err != nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(ActorContextKey, model.Actor{UserID: userID, Role: role})
		c.Next()
	}
}
