package middleware

import (
	"net/http"
	"strings"

	"wanderly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthUserMiddleware requires a bearer token, resolves the user id from it
// and stores both on the context for the cart handlers.
func JWTAuthUserMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			return
		}

		userID, err := utils.ExtractUserIDFromToken(tokenString, secret)
		if err != nil {
			zap.L().Debug("rejected bearer token", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}

		c.Set(utils.ContextUserIDKey, userID)
		c.Set(utils.ContextTokenKey, tokenString)
		c.Next()
	}
}
