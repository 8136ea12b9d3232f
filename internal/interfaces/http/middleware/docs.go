package middleware

import (
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/squizz-sync/backend/internal/interfaces/http/dto"
)

// DocsConfig controls access to the API documentation endpoint
type DocsConfig struct {
	Enabled        bool
	RequireSession bool     // run the session check before serving
	AllowedIPs     []string // addresses or CIDR prefixes; empty allows all
}

// DocsProtection guards /swagger. A disabled endpoint answers 404, a client
// outside AllowedIPs 403, and with RequireSession the request must also pass
// sessionAuth. Unparseable AllowedIPs entries are ignored.
func DocsProtection(cfg DocsConfig, sessionAuth gin.HandlerFunc) gin.HandlerFunc {
	prefixes := parseAllowedIPs(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeNotFound), dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}

		if len(cfg.AllowedIPs) > 0 && !ipAllowed(c.ClientIP(), prefixes) {
			c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeForbidden), dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", GetRequestID(c)))
			return
		}

		if cfg.RequireSession && sessionAuth != nil {
			sessionAuth(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

func parseAllowedIPs(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				prefixes = append(prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

func ipAllowed(clientIP string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
