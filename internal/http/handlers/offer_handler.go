package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/http/handlers/common"
	"github.com/homefix/marketplace-client/internal/http/middleware"
	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/store/orders"
)

// OfferHandler переходы предложений: правка клиентом и ответ техника на прямое предложение.
type OfferHandler struct {
	store   *orders.Store
	session middleware.SessionReader
}

func NewOfferHandler(store *orders.Store, session middleware.SessionReader) *OfferHandler {
	return &OfferHandler{store: store, session: session}
}

// ListTechnicianClientOffers GET /api/technician/client-offers
func (h *OfferHandler) ListTechnicianClientOffers(c *gin.Context) {
	list, err := h.store.FetchTechnicianClientOffers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// UpdateOffer PATCH /api/offers/:offerId
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	offerID, err := common.ParseIDParam(c, "offerId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateOfferRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	offer, err := h.store.UpdateClientOffer(c.Request.Context(), offerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, offer, orders.MsgOfferUpdated)
}

// RespondToOffer POST /api/offers/:offerId/respond
// Техником выступает текущий пользователь сессии.
func (h *OfferHandler) RespondToOffer(c *gin.Context) {
	offerID, err := common.ParseIDParam(c, "offerId")
	if err != nil {
		response.Error(c, err)
		return
	}

	user := h.session.User()
	if user == nil {
		response.Unauthorized(c, "профиль пользователя ещё не загружен")
		return
	}

	var req dto.RespondToOfferRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	offer, err := h.store.RespondToClientOffer(c.Request.Context(), user.ID, offerID, req.Action, req.RejectionReason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, offer, orders.RespondMessage(req.Action))
}
