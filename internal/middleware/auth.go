package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/response"
)

// APIKeyHeader carries the chat API key.
const APIKeyHeader = "X-API-Key"

// Auth checks the configured API key, taken from the X-API-Key header
// or an Authorization bearer token. With no key configured the check
// is disabled so local development needs no credentials.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.cfg.APIKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if key != m.cfg.APIKey {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
