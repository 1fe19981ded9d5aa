package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to balances.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.openAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:ref", h.getAccount)
	}
}

// openAccount godoc
// @Summary Open a personal account
// @Description Creates a member's personal account with a zero balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.OpenAccountRequest true "Member to open"
// @Success 201 {object} domain.Account
// @Failure 400 {object} map[string]string "Invalid member id"
// @Failure 409 {object} map[string]string "Account already exists"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) openAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "OpenAccount", err)
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.OpenAccount(c.Request.Context(), domain.Personal(req.UserID), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to open account")
		return
	}

	logger.Info("Account opened", slog.String("account", account.Ref.String()))
	c.JSON(http.StatusCreated, account)
}

// getAccount godoc
// @Summary Get a balance
// @Description Returns Casa ("casa") or a personal account ("personal:{userID}")
// @Tags accounts
// @Produce  json
// @Param   ref path string true "Account reference"
// @Success 200 {object} domain.Account
// @Failure 400 {object} map[string]string "Malformed reference"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{ref} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ref, err := parseAccountRef(c.Param("ref"))
	if err != nil {
		respondError(c, logger, err, "Invalid account reference")
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), ref)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// listAccounts godoc
// @Summary List personal accounts
// @Tags accounts
// @Produce  json
// @Success 200 {array} domain.Account
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.accountService.ListPersonalAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}
