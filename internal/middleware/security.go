package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/response"
)

// RateLimit enforces a per-source token bucket. Sources idle longer
// than sourceTTL fall out of the tracking window.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		source := extractIP(c.Request)

		limiter, ok := m.limiters.Get(source)
		if !ok {
			limiter = rate.NewLimiter(m.rate, m.burst)
			m.limiters.Add(source, limiter)
		}

		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "middleware: rate limit exceeded for %s", source)
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPWhitelist restricts callers to the configured addresses. Entries
// may be plain IPs or CIDR ranges. An empty list allows everyone.
func (m Middleware) IPWhitelist() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.cfg.AllowedIPs) == 0 {
			c.Next()
			return
		}

		ip := extractIP(c.Request)
		if !ipAllowed(ip, m.cfg.AllowedIPs) {
			m.l.Warnf(c.Request.Context(), "middleware: IP %s not whitelisted", ip)
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func ipAllowed(ip string, allowed []string) bool {
	for _, entry := range allowed {
		if ip == entry {
			return true
		}
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				continue
			}
			if ipNet.Contains(net.ParseIP(ip)) {
				return true
			}
		}
	}
	return false
}

// extractIP prefers proxy headers so limits key on the real client
// behind a load balancer.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}
