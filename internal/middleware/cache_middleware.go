package middleware

import "github.com/gin-gonic/gin"

// NoCacheMiddleware marks every response as uncacheable. Scanner devices on
// the shop floor aggressively cache API responses otherwise.
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
