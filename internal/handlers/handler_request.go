package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type requestHandler struct {
	requestService portssvc.RequestSvcFacade
}

func newRequestHandler(rs portssvc.RequestSvcFacade) *requestHandler {
	return &requestHandler{requestService: rs}
}

// registerRequestRoutes registers the spend request workflow.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := newRequestHandler(requestService)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listRequests)
		requests.GET("/:id", h.getRequest)
		requests.POST("/:id/approve", h.approveRequest)
		requests.POST("/:id/reject", h.rejectRequest)
	}
}

// createRequest godoc
// @Summary Ask for money from Casa
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateRequestRequest true "Request"
// @Success 201 {object} domain.Request
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /requests [post]
func (h *requestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateRequest", err)
		return
	}
	requester, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), req, requester)
	if err != nil {
		respondError(c, logger, err, "Failed to create request")
		return
	}
	logger.Info("Request created", slog.String("request_id", request.ID))
	c.JSON(http.StatusCreated, request)
}

// listRequests godoc
// @Summary List spend requests
// @Tags requests
// @Produce  json
// @Param   status query string false "pending, approved or rejected"
// @Success 200 {array} domain.Request
// @Security BearerAuth
// @Router /requests [get]
func (h *requestHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListRequestsParams
	if raw := c.Query("status"); raw != "" {
		status := domain.RequestStatus(raw)
		switch status {
		case domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
		default:
			respondError(c, logger, apperrors.Validationf("unknown status %q", raw), "Invalid status filter")
			return
		}
		params.Status = &status
	}

	requests, err := h.requestService.ListRequests(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// getRequest godoc
// @Summary Get a spend request
// @Tags requests
// @Produce  json
// @Param   id path string true "Request ID"
// @Success 200 {object} domain.Request
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *requestHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	request, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve request")
		return
	}
	c.JSON(http.StatusOK, request)
}

// approveRequest godoc
// @Summary Approve a pending request
// @Description Pays the requester from Casa
// @Tags requests
// @Produce  json
// @Param   id path string true "Request ID"
// @Success 200 {object} domain.Request
// @Failure 400 {object} map[string]string "Request is not pending"
// @Failure 409 {object} map[string]string "Casa cannot cover the amount"
// @Security BearerAuth
// @Router /requests/{id}/approve [post]
func (h *requestHandler) approveRequest(c *gin.Context) {
	h.settle(c, dto.SettleRequestRequest{RequestID: c.Param("id"), Decision: domain.DecisionApprove})
}

// rejectRequest godoc
// @Summary Reject a pending request
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   body body dto.RejectRequestBody true "Reason"
// @Success 200 {object} domain.Request
// @Failure 400 {object} map[string]string "Missing reason or request is not pending"
// @Security BearerAuth
// @Router /requests/{id}/reject [post]
func (h *requestHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var body dto.RejectRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, logger, "RejectRequest", err)
		return
	}
	h.settle(c, dto.SettleRequestRequest{RequestID: c.Param("id"), Decision: domain.DecisionReject, Reason: body.Reason})
}

func (h *requestHandler) settle(c *gin.Context, req dto.SettleRequestRequest) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("request_id", req.RequestID), slog.String("decision", string(req.Decision)))
	admin, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.SettleRequest(c.Request.Context(), req, admin)
	if err != nil {
		respondError(c, logger, err, "Failed to settle request")
		return
	}
	logger.Info("Request settled", slog.String("status", string(request.Status)))
	c.JSON(http.StatusOK, request)
}
