package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses as publicly cacheable for maxAgeSeconds.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := "no-cache"
	if maxAgeSeconds > 0 {
		value = fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// NoSniff stops browsers from reinterpreting served uploads as another content type.
func NoSniff() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}
