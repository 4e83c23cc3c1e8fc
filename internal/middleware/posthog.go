package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains routes that should not be tracked.
var pathsToSkip = map[string]bool{
	"/health":                  true,
	"/api/v1/me/ledger/stream": true,
}

// PosthogMiddleware reports successful authenticated API calls as analytics events.
func PosthogMiddleware(sink utils.AnalyticsSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sink == nil || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		username, exists := GetUsernameFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/me/deposit" -> "api_v1_me_deposit"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		sink.Enqueue(username, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}
