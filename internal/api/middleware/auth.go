package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/b2b-starter/workspace-api/internal/models"
)

// InternalAPIKey validates the shared x-internal-api-key header on every
// request except /health. When no key is configured the check is skipped,
// which is only acceptable behind a trusted gateway.
func InternalAPIKey(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		log.Println("⚠️ [Auth] INTERNAL_API_KEY is not set, requests are unauthenticated")
	}

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		if apiKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("x-internal-api-key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			log.Printf("❌ [Auth] Invalid API key - Path: %s", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, models.APIError{Code: "UNAUTHORIZED", Message: "Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequestLogger logs all incoming requests with details
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		statusEmoji := "✅"
		if status >= 400 && status < 500 {
			statusEmoji = "⚠️"
		} else if status >= 500 {
			statusEmoji = "❌"
		}

		log.Printf("%s [%s] %s %d - %v", statusEmoji, method, path, status, duration)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Printf("❌ [Error] %v", e.Err)
			}
		}
	}
}
