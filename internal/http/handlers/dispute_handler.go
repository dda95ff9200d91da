package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/http/handlers/common"
	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/store/orders"
)

type DisputeHandler struct {
	store *orders.Store
}

func NewDisputeHandler(store *orders.Store) *DisputeHandler {
	return &DisputeHandler{store: store}
}

// InitiateDispute POST /api/orders/:id/dispute
func (h *DisputeHandler) InitiateDispute(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.InitiateDisputeRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	dispute, err := h.store.InitiateDispute(c.Request.Context(), orderID, req.Argument)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dispute, orders.MsgDisputeInitiated)
}

// GetDispute GET /api/disputes/:id
func (h *DisputeHandler) GetDispute(c *gin.Context) {
	disputeID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dispute, err := h.store.FetchDispute(c.Request.Context(), disputeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dispute)
}

// ResolveDispute POST /api/disputes/:id/resolve (только администратор)
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	disputeID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ResolveDisputeRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	dispute, err := h.store.ResolveDispute(c.Request.Context(), disputeID, req.Resolution, req.AdminNotes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, dispute, orders.MsgDisputeResolved)
}
