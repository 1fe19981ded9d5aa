package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the mutators and the ledger reads.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/deposits", h.deposit)
	rg.POST("/transfers", h.transfer)
	rg.POST("/expenses", h.personalExpense)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
	}
}

// deposit godoc
// @Summary Deposit money
// @Description Credits Casa or a personal account. Supplying txID makes retries safe.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 503 {object} map[string]string "Store unreachable"
// @Security BearerAuth
// @Router /deposits [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Deposit", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	tx, err := h.ledgerService.Deposit(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record deposit")
		return
	}
	logger.Info("Deposit recorded", slog.String("transaction_id", tx.ID))
	c.JSON(http.StatusCreated, tx)
}

// transfer godoc
// @Summary Transfer money
// @Description Moves money between two different accounts
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Insufficient funds"
// @Failure 503 {object} map[string]string "Store unreachable"
// @Security BearerAuth
// @Router /transfers [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Transfer", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	tx, err := h.ledgerService.Transfer(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record transfer")
		return
	}
	logger.Info("Transfer recorded", slog.String("transaction_id", tx.ID))
	c.JSON(http.StatusCreated, tx)
}

// personalExpense godoc
// @Summary Record a personal expense
// @Description Debits the caller's personal account unless user names another member
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   expense body dto.PersonalExpenseRequest true "Expense"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /expenses [post]
func (h *ledgerHandler) personalExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PersonalExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "PersonalExpense", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	if req.User == "" {
		req.User = actor
	}

	tx, err := h.ledgerService.PersonalExpense(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record expense")
		return
	}
	logger.Info("Expense recorded", slog.String("transaction_id", tx.ID))
	c.JSON(http.StatusCreated, tx)
}

// getTransaction godoc
// @Summary Get a ledger entry
// @Tags ledger
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tx, err := h.ledgerService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// listTransactions godoc
// @Summary List ledger entries
// @Description Newest first, paged with nextToken
// @Tags ledger
// @Produce  json
// @Param   account query string false "Account reference (casa or personal:{userID})"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams

	if raw := c.Query("account"); raw != "" {
		ref, err := parseAccountRef(raw)
		if err != nil {
			respondError(c, logger, err, "Invalid account reference")
			return
		}
		params.Account = &ref
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, logger, "limit", err)
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}
