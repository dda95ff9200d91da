package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/store/balance"
	"github.com/homefix/marketplace-client/internal/store/orders"
)

// StateHandler снимок обоих сторов и сброс транзиентных полей.
type StateHandler struct {
	orders  *orders.Store
	balance *balance.Store
}

func NewStateHandler(ordersStore *orders.Store, balanceStore *balance.Store) *StateHandler {
	return &StateHandler{orders: ordersStore, balance: balanceStore}
}

// StateView ответ GET /api/state.
type StateView struct {
	Orders  orders.View   `json:"orders"`
	Balance balance.State `json:"balance"`
}

// Get GET /api/state
func (h *StateHandler) Get(c *gin.Context) {
	response.Success(c, StateView{
		Orders:  h.orders.State().View(),
		Balance: h.balance.State(),
	})
}

// ClearError DELETE /api/state/error
func (h *StateHandler) ClearError(c *gin.Context) {
	h.orders.ClearError()
	h.balance.ClearError()
	c.Status(http.StatusNoContent)
}

// ClearMessage DELETE /api/state/message
func (h *StateHandler) ClearMessage(c *gin.Context) {
	h.orders.ClearMessage()
	h.balance.ClearMessage()
	c.Status(http.StatusNoContent)
}
