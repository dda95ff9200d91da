package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/http/handlers/common"
	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/store/orders"
)

// OrderHandler открывает переходы стора заказов представлениям.
type OrderHandler struct {
	store *orders.Store
}

func NewOrderHandler(store *orders.Store) *OrderHandler {
	return &OrderHandler{store: store}
}

// ListClientOrders GET /api/orders/client
func (h *OrderHandler) ListClientOrders(c *gin.Context) {
	list, err := h.store.FetchClientOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListAvailableOrders GET /api/orders/available
func (h *OrderHandler) ListAvailableOrders(c *gin.Context) {
	list, err := h.store.FetchAvailableOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListTechnicianOrders GET /api/orders/technician
func (h *OrderHandler) ListTechnicianOrders(c *gin.Context) {
	list, err := h.store.FetchTechnicianOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// CreateOrder POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.CreateOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order, orders.MsgOrderCreated)
}

// MakeDirectOffer POST /api/orders/direct-hire
func (h *OrderHandler) MakeDirectOffer(c *gin.Context) {
	var req dto.DirectOfferRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.MakeDirectOffer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order, orders.MsgDirectOfferSent)
}

// GetOrder GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.FetchSingleOrder(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// GetPublicOrder GET /api/orders/:id/public
func (h *OrderHandler) GetPublicOrder(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.FetchPublicOrderDetail(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// ClearCurrentOrder DELETE /api/orders/current
func (h *OrderHandler) ClearCurrentOrder(c *gin.Context) {
	h.store.ClearCurrentOrder()
	c.Status(http.StatusNoContent)
}

// UpdateOrder PATCH /api/orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateOrderRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.UpdateOrder(c.Request.Context(), orderID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, order, orders.MsgOrderUpdated)
}

// SubmitOffer POST /api/orders/:id/offers
func (h *OrderHandler) SubmitOffer(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SubmitOfferRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	offer, err := h.store.SubmitOffer(c.Request.Context(), orderID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offer, orders.MsgOfferSubmitted)
}

// AcceptOffer POST /api/orders/:id/offers/:offerId/accept
func (h *OrderHandler) AcceptOffer(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	offerID, err := common.ParseIDParam(c, "offerId")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.AcceptOffer(c.Request.Context(), orderID, offerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, order, orders.MsgOfferAccepted)
}

// CancelOrder POST /api/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CancelOrderRequest
	if err := common.BindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.store.CancelOrder(c.Request.Context(), orderID, req.CancellationReason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, order, orders.MsgOrderCancelled)
}

// ReleaseFunds POST /api/orders/:id/release-funds
func (h *OrderHandler) ReleaseFunds(c *gin.Context) {
	h.statusTransition(c, h.store.ReleaseFunds, orders.MsgFundsReleased)
}

// ConfirmEscrow POST /api/orders/:id/confirm-escrow
func (h *OrderHandler) ConfirmEscrow(c *gin.Context) {
	h.statusTransition(c, h.store.ConfirmEscrow, orders.MsgEscrowConfirmed)
}

// StartWork POST /api/orders/:id/start-work
func (h *OrderHandler) StartWork(c *gin.Context) {
	h.statusTransition(c, h.store.StartWork, orders.MsgWorkStarted)
}

// MarkJobDone POST /api/orders/:id/mark-done
func (h *OrderHandler) MarkJobDone(c *gin.Context) {
	h.statusTransition(c, h.store.MarkJobDone, orders.MsgJobDone)
}

func (h *OrderHandler) statusTransition(c *gin.Context, op orderTransition, message string) {
	orderID, err := common.ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := op(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, order, message)
}
