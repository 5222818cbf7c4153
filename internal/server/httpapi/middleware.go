package httpapi

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/server/auth"
)

// Context keys set by the auth middleware.
const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// requireRole validates the bearer token and checks the Role claim. The
// subject id lands in the request context for handlers.
func (s *Server) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(c, common.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) {
				err = common.ErrInvalidToken
			}
			writeError(c, err)
			return
		}
		if claims.Role != role {
			writeError(c, common.ErrUnauthorized)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}
