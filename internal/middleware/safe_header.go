package middleware

import "github.com/gin-gonic/gin"

// apiHeaders are sent with every JSON response; nothing served here is meant to be framed or cached
var apiHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Referrer-Policy":         "no-referrer",
	"Cache-Control":           "no-store",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// SafeHeader adds security headers to each response. hsts enables
// Strict-Transport-Security and should only be set behind TLS.
func SafeHeader(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range apiHeaders {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Next()
	}
}
