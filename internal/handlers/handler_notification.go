package handlers

import (
	"net/http"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

func registerNotificationRoutes(rg *gin.RouterGroup, ns portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(ns)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:id/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List notifications
// @Description The caller's own feed, or the administrators' feed with feed=admins
// @Tags notifications
// @Produce  json
// @Param   feed query string false "admins"
// @Success 200 {array} domain.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recipient, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	if c.Query("feed") == string(domain.RecipientAdmins) {
		recipient = domain.RecipientAdmins
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), recipient)
	if err != nil {
		respondError(c, logger, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// markRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce  json
// @Param   id path string true "Notification ID"
// @Success 200 {object} domain.Notification
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reader, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), reader)
	if err != nil {
		respondError(c, logger, err, "Failed to mark notification as read")
		return
	}
	c.JSON(http.StatusOK, n)
}
