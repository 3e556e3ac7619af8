package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders returns middleware that sets security-related HTTP headers
// for the single-page frontend and the API.
func SecurityHeaders(isDevelopment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", buildCSP(isDevelopment))

		if !isDevelopment {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")

		c.Next()
	}
}

func buildCSP(isDevelopment bool) string {
	directives := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"font-src 'self' data:",
		"connect-src 'self'",
		"frame-src 'none'",
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	if isDevelopment {
		// Hot reloading needs eval and websockets.
		directives[1] = "script-src 'self' 'unsafe-inline' 'unsafe-eval'"
		directives[5] = "connect-src 'self' ws: wss:"
	}
	return strings.Join(directives, "; ")
}
