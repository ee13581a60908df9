package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/harshWarbhe/revticket/pkg/response"
)

const (
	// AuthorizationHeader is the header carrying the bearer token
	AuthorizationHeader = "Authorization"
	// ContextKeyUserID is the gin context key for the authenticated user
	ContextKeyUserID = "user_id"
	// ContextKeyUserRole is the gin context key for the user's role
	ContextKeyUserRole = "user_role"
)

// Claims are the JWT claims issued by the auth service
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the user identity
// in the gin context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthorizationHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorBody("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorBody("INVALID_TOKEN", "Authorization header must be a bearer token"))
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorBody("INVALID_TOKEN", "Token is invalid or expired"))
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has the role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := GetUserRole(c)
		if !ok || got != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorBody("FORBIDDEN", "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetUserRole extracts the authenticated user's role from gin context
func GetUserRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
