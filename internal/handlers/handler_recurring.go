package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type recurringHandler struct {
	scheduler portssvc.SchedulerSvcFacade
}

func newRecurringHandler(s portssvc.SchedulerSvcFacade) *recurringHandler {
	return &recurringHandler{scheduler: s}
}

// registerRecurringRoutes registers recurring expense administration and the manual scheduler trigger.
func registerRecurringRoutes(rg *gin.RouterGroup, scheduler portssvc.SchedulerSvcFacade) {
	h := newRecurringHandler(scheduler)

	recurring := rg.Group("/recurring-expenses")
	{
		recurring.POST("", h.createRecurringExpense)
		recurring.GET("", h.listRecurringExpenses)
		recurring.POST("/run", h.runScheduler)
		recurring.GET("/:id", h.getRecurringExpense)
		recurring.PATCH("/:id", h.updateRecurringExpense)
		recurring.DELETE("/:id", h.deleteRecurringExpense)
	}
}

// createRecurringExpense godoc
// @Summary Create a recurring expense
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateRecurringExpenseRequest true "Recurring expense"
// @Success 201 {object} domain.RecurringExpense
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /recurring-expenses [post]
func (h *recurringHandler) createRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateRecurringExpense", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	expense, err := h.scheduler.CreateRecurringExpense(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create recurring expense")
		return
	}
	logger.Info("Recurring expense created", slog.String("expense_id", expense.ID))
	c.JSON(http.StatusCreated, expense)
}

// listRecurringExpenses godoc
// @Summary List recurring expenses
// @Tags recurring
// @Produce  json
// @Success 200 {array} domain.RecurringExpense
// @Security BearerAuth
// @Router /recurring-expenses [get]
func (h *recurringHandler) listRecurringExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenses, err := h.scheduler.ListRecurringExpenses(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list recurring expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// getRecurringExpense godoc
// @Summary Get a recurring expense
// @Tags recurring
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} domain.RecurringExpense
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /recurring-expenses/{id} [get]
func (h *recurringHandler) getRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expense, err := h.scheduler.GetRecurringExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve recurring expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// updateRecurringExpense godoc
// @Summary Update a recurring expense
// @Description Fields left out are unchanged; activation or a new day recomputes the next execution
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.UpdateRecurringExpenseRequest true "Changes"
// @Success 200 {object} domain.RecurringExpense
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /recurring-expenses/{id} [patch]
func (h *recurringHandler) updateRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "UpdateRecurringExpense", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	expense, err := h.scheduler.UpdateRecurringExpense(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update recurring expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// deleteRecurringExpense godoc
// @Summary Delete a recurring expense
// @Tags recurring
// @Param   id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /recurring-expenses/{id} [delete]
func (h *recurringHandler) deleteRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	if err := h.scheduler.DeleteRecurringExpense(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, logger, err, "Failed to delete recurring expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// runScheduler godoc
// @Summary Run the scheduler now
// @Description Executes overdue expenses and sends upcoming notices
// @Tags recurring
// @Produce  json
// @Success 200 {object} dto.SchedulerRunResult
// @Failure 409 {object} map[string]string "A pass is already running"
// @Security BearerAuth
// @Router /recurring-expenses/run [post]
func (h *recurringHandler) runScheduler(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.scheduler.RunOnce(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to run scheduler")
		return
	}
	logger.Info("Scheduler pass finished",
		slog.Int("executed", len(result.Overdue.Executed)),
		slog.Int("failed", len(result.Overdue.Failed)),
		slog.Int("upcoming_notified", result.UpcomingNotified))
	c.JSON(http.StatusOK, result)
}
