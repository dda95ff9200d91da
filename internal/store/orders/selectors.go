package orders

import "github.com/homefix/marketplace-client/internal/models"

// Order собирает заказ вместе с предложениями из нормализованных таблиц.
func (s State) Order(id int64) (models.Order, bool) {
	rec, ok := s.Orders[id]
	if !ok {
		return models.Order{}, false
	}

	order := rec.Order
	if len(rec.OfferIDs) > 0 {
		order.ProjectOffers = make([]models.ProjectOffer, 0, len(rec.OfferIDs))
		for _, offerID := range rec.OfferIDs {
			if offer, ok := s.Offers[offerID]; ok {
				order.ProjectOffers = append(order.ProjectOffers, offer)
			}
		}
	}
	if rec.AssociatedOfferID != 0 {
		if offer, ok := s.Offers[rec.AssociatedOfferID]; ok {
			order.AssociatedOffer = &offer
		}
	}
	return order, true
}

// Offer предложение с кратким родительским заказом (без вложенных предложений).
func (s State) Offer(id int64) (models.ProjectOffer, bool) {
	offer, ok := s.Offers[id]
	if !ok {
		return models.ProjectOffer{}, false
	}
	if rec, ok := s.Orders[offer.OrderID]; ok {
		detail := rec.Order
		offer.OrderDetail = &detail
	}
	return offer, true
}

func (s State) ordersByID(ids []int64) []models.Order {
	list := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := s.Order(id); ok {
			list = append(list, order)
		}
	}
	return list
}

func (s State) ClientOrderList() []models.Order {
	return s.ordersByID(s.ClientOrders)
}

func (s State) AvailableOrderList() []models.Order {
	return s.ordersByID(s.AvailableOrders)
}

func (s State) TechnicianOrderList() []models.Order {
	return s.ordersByID(s.TechnicianOrders)
}

func (s State) TechnicianClientOfferList() []models.ProjectOffer {
	list := make([]models.ProjectOffer, 0, len(s.TechnicianClientOffers))
	for _, id := range s.TechnicianClientOffers {
		if offer, ok := s.Offer(id); ok {
			list = append(list, offer)
		}
	}
	return list
}

// CurrentOrder заказ в слоте просмотра или nil.
func (s State) CurrentOrder() *models.Order {
	if s.CurrentOrderID == 0 {
		return nil
	}
	order, ok := s.Order(s.CurrentOrderID)
	if !ok {
		return nil
	}
	return &order
}

func (s State) CurrentDispute() *models.Dispute {
	if s.CurrentDisputeID == 0 {
		return nil
	}
	dispute, ok := s.Disputes[s.CurrentDisputeID]
	if !ok {
		return nil
	}
	return &dispute
}

// View денормализованное представление состояния для интерфейса.
type View struct {
	ClientOrders           []models.Order        `json:"client_orders"`
	AvailableOrders        []models.Order        `json:"available_orders"`
	TechnicianOrders       []models.Order        `json:"technician_orders"`
	TechnicianClientOffers []models.ProjectOffer `json:"technician_client_offers"`
	CurrentOrder           *models.Order         `json:"current_order"`
	CurrentDispute         *models.Dispute       `json:"current_dispute"`
	Loading                bool                  `json:"loading"`
	Error                  *StoreError           `json:"error"`
	Message                string                `json:"message"`
}

func (s State) View() View {
	return View{
		ClientOrders:           s.ClientOrderList(),
		AvailableOrders:        s.AvailableOrderList(),
		TechnicianOrders:       s.TechnicianOrderList(),
		TechnicianClientOffers: s.TechnicianClientOfferList(),
		CurrentOrder:           s.CurrentOrder(),
		CurrentDispute:         s.CurrentDispute(),
		Loading:                s.Loading,
		Error:                  s.Error,
		Message:                s.Message,
	}
}
