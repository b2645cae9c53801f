package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != fiber.MethodGet {
			return err
		}

		// Don't override if already set
		if existing := string(c.Response().Header.Peek(fiber.HeaderCacheControl)); existing != "" {
			return err
		}

		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "public, max-age=10"

	case path == "/metrics":
		return "no-cache"

	case path == "/graphql":
		return "private, max-age=0"

	case path == "/v1/counties/geometry":
		return "public, max-age=86400" // boundaries are static

	case strings.HasPrefix(path, "/v1/colors/"), path == "/v1/viewstate/limits":
		return "public, max-age=3600"

	case strings.HasPrefix(path, "/v1/earthquakes"), path == "/v1/quakes":
		return "public, max-age=60" // feed refreshes every few minutes

	case path == "/v1/flights/active", strings.HasSuffix(path, "/position"):
		return "no-cache"

	case strings.HasSuffix(path, "/path"):
		return "public, max-age=3600"

	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=300"
	}
	return ""
}
