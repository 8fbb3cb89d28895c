package middleware

import (
	"net/http"
	"strings"

	"hotel-frontdesk/access"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const ClaimsKey = "claims"

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.AbortJSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequirePermission rejects callers whose role lacks op in the capability table.
func RequirePermission(table *access.Table, op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !table.Allows(claims.Role, op) {
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("role", claims.Role).
				Str("permission", op).
				Msg("permission denied")
			utils.AbortJSONError(c, http.StatusForbidden, "permission denied: "+op)
			return
		}
		c.Next()
	}
}

// GetClaims returns the token claims, or nil on an unauthenticated route.
func GetClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
