package middleware

import (
	"net/http"
	"strings"

	"medtracker/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey     = "authUser"
	AuthUsernameKey = "authUsername"
)

// JWTAuthMiddleware creates a middleware for JWT authentication.
// Every failure answers 401 without saying which check failed.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return authenticate(jwtUtil, false)
}

// WebSocketAuthMiddleware is JWTAuthMiddleware that also accepts the token in
// the "token" query parameter, since browsers cannot set headers on upgrade.
func WebSocketAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return authenticate(jwtUtil, true)
}

func authenticate(jwtUtil *utils.JWTUtil, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok && allowQuery {
			tokenString = c.Query("token")
			ok = tokenString != ""
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
