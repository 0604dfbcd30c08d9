package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes bounds JSON request bodies
const DefaultMaxBodyBytes = int64(1 << 20)

// SizeLimit caps the request body at maxBodyBytes. Reading past the limit
// fails with *http.MaxBytesError.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}
