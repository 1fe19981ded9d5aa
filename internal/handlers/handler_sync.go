package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newSyncHandler(s portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: s}
}

// registerSyncRoutes registers the offline queue surface.
func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.status)
		sync.POST("/process", h.process)
		sync.POST("/sweep", h.sweep)
		sync.POST("/operations", h.enqueue)
		sync.GET("/operations", h.listOperations)
		sync.POST("/operations/:id/retry", h.retry)
	}
}

// enqueue godoc
// @Summary Submit an operation that tolerates being offline
// @Description Runs now when the store is reachable, otherwise queues it for replay
// @Tags sync
// @Accept  json
// @Produce  json
// @Param   operation body dto.EnqueueOperationRequest true "Operation"
// @Success 201 {object} dto.EnqueueResult "Executed"
// @Success 202 {object} dto.EnqueueResult "Queued"
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /sync/operations [post]
func (h *syncHandler) enqueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EnqueueOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "EnqueueOperation", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.syncService.EnqueueOrExecute(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to submit operation")
		return
	}

	logger.Info("Operation submitted", slog.String("operation_id", result.OperationID), slog.Bool("queued", result.Queued))
	status := http.StatusCreated
	if result.Queued {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

// listOperations godoc
// @Summary List queued operations
// @Tags sync
// @Produce  json
// @Success 200 {array} domain.QueuedOperation
// @Security BearerAuth
// @Router /sync/operations [get]
func (h *syncHandler) listOperations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ops, err := h.syncService.ListOperations(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list operations")
		return
	}
	c.JSON(http.StatusOK, ops)
}

// retry godoc
// @Summary Retry a failed operation
// @Tags sync
// @Produce  json
// @Param   id path string true "Operation ID"
// @Success 200 {object} domain.QueuedOperation
// @Failure 400 {object} map[string]string "Operation is not failed"
// @Failure 404 {object} map[string]string "Operation not found"
// @Security BearerAuth
// @Router /sync/operations/{id}/retry [post]
func (h *syncHandler) retry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	op, err := h.syncService.RetryOperation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retry operation")
		return
	}
	c.JSON(http.StatusOK, op)
}

// process godoc
// @Summary Replay the queue now
// @Tags sync
// @Produce  json
// @Success 200 {object} dto.SyncBatchResult
// @Failure 503 {object} map[string]string "Offline"
// @Security BearerAuth
// @Router /sync/process [post]
func (h *syncHandler) process(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	result, err := h.syncService.ProcessQueue(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to process queue")
		return
	}
	c.JSON(http.StatusOK, result)
}

// sweep godoc
// @Summary Drop expired or exhausted operations
// @Tags sync
// @Produce  json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /sync/sweep [post]
func (h *syncHandler) sweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	removed, err := h.syncService.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to sweep queue")
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// status godoc
// @Summary Queue and connectivity snapshot
// @Tags sync
// @Produce  json
// @Success 200 {object} dto.QueueStatus
// @Security BearerAuth
// @Router /sync/status [get]
func (h *syncHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, err := h.syncService.Status(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to read queue status")
		return
	}
	c.JSON(http.StatusOK, status)
}
