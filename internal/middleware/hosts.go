package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AllowedHosts rejects requests whose Host header is not on the list. An
// empty list means no restriction.
func AllowedHosts(hosts []string) fiber.Handler {
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = true
		}
	}
	return func(c *fiber.Ctx) error {
		if len(allowed) == 0 {
			return c.Next()
		}
		host := strings.ToLower(c.Hostname())
		if i := strings.Index(host, ":"); i >= 0 {
			host = host[:i]
		}
		if host != "" && !allowed[host] {
			return c.Status(fiber.StatusBadRequest).SendString("Bad Request (host not allowed)")
		}
		return c.Next()
	}
}
