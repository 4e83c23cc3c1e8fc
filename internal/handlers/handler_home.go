package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// healthHandler godoc
// @Summary Show the status of server.
// @Description Reports whether the server and its store are reachable.
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func healthHandler(health portssvc.HealthSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			if err := health.Ping(c.Request.Context()); err != nil {
				respondError(c, err, "Health check failed")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}
