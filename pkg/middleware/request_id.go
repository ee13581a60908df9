package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header carrying the request ID
	RequestIDHeader = "X-Request-ID"
	// ContextKeyRequestID is the gin context key for the request ID
	ContextKeyRequestID = "request_id"
)

// RequestID attaches a request ID to every request, reusing the caller's
// if one is present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID extracts the request ID from gin context
func GetRequestID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyRequestID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
