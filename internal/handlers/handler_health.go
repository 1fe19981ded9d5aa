package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// getHealth godoc
// @Summary Show the status of server.
// @Description Liveness plus the store connectivity and offline queue counts.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func getHealth(syncService portssvc.SyncSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := syncService.Status(c.Request.Context())
		if err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Health check could not read queue status", "error", err)
			c.JSON(http.StatusOK, gin.H{"status": "OK", "online": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "online": status.Online, "queue": status})
	}
}
