package middleware

import (
	"strings"

	"github.com/TechHelpSeniors/techhelp-proxy/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the browser hardening headers on every
// response. HSTS is only sent in production, where Render terminates TLS.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		// API answers carry personal data or relay upstream state.
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
