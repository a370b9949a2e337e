package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityConfig controls the hardening headers applied to every response.
type SecurityConfig struct {
	// HSTSMaxAgeSeconds sets Strict-Transport-Security max-age. Zero disables
	// the header entirely (useful behind plain-HTTP local setups).
	HSTSMaxAgeSeconds int

	// HSTSIncludeSubdomains appends includeSubDomains to the HSTS header.
	HSTSIncludeSubdomains bool

	// ContentSecurityPolicy is emitted verbatim when non-empty. The API
	// serves JSON only, so a restrictive default-src 'none' policy is safe.
	ContentSecurityPolicy string

	// FrameOptions is the X-Frame-Options value, defaulting to DENY.
	FrameOptions string
}

// SecurityHeaders applies conservative browser-hardening headers.
//
// The API itself is JSON-only, but the Swagger UI and any error pages still
// render in browsers, so clickjacking and MIME-sniffing protections apply.
func SecurityHeaders(cfg SecurityConfig) gin.HandlerFunc {
	frame := cfg.FrameOptions
	if frame == "" {
		frame = "DENY"
	}
	hsts := ""
	if cfg.HSTSMaxAgeSeconds > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAgeSeconds)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", frame)
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		if hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		if cfg.ContentSecurityPolicy != "" {
			h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
		}
		c.Next()
	}
}
