package middleware

import (
	"net/http"

	"contact-relay/config"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Accept"
)

// CORSPolicy decides which Access-Control-Allow-Origin to send.
//
// Fixed mode sends the configured origin. With an allow-list of more than
// one entry the request Origin is echoed when it is listed, otherwise the
// first entry is sent. With nothing configured the origin is "*".
//
// Reflect mode echoes whatever Origin the browser sent. That accepts calls
// from any site, so it must never be combined with credentialed requests;
// no Allow-Credentials header is ever sent.
type CORSPolicy struct {
	Mode    string
	Origins []string
}

// NewCORSPolicy builds the policy from configuration.
func NewCORSPolicy(cfg *config.Config) CORSPolicy {
	return CORSPolicy{Mode: cfg.CORSMode, Origins: cfg.CORSAllowedOrigins}
}

// Apply writes the CORS headers for a request carrying origin.
func (p CORSPolicy) Apply(h http.Header, origin string) {
	allow, vary := p.allowOrigin(origin)
	h.Set("Access-Control-Allow-Origin", allow)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Max-Age", "86400")
	if vary {
		h.Add("Vary", "Origin")
	}
}

func (p CORSPolicy) allowOrigin(origin string) (string, bool) {
	if p.Mode == config.CORSModeReflect {
		if origin == "" {
			return "*", true
		}
		return origin, true
	}

	switch len(p.Origins) {
	case 0:
		return "*", false
	case 1:
		return p.Origins[0], false
	}
	for _, o := range p.Origins {
		if o == origin {
			return origin, true
		}
	}
	return p.Origins[0], true
}

// CORSMiddleware applies the policy to every gin route and answers
// preflights directly. Preflights carry the same security headers as the
// contact replies; register RequestID() before it so they carry the id too.
func CORSMiddleware(policy CORSPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy.Apply(c.Writer.Header(), c.Request.Header.Get("Origin"))

		if c.Request.Method == http.MethodOptions {
			ApplySecurityHeaders(c.Writer.Header())
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
