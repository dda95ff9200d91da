package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
	"github.com/homefix/marketplace-client/internal/models"
)

func money(v float64) *valueobject.Money {
	m := valueobject.Money(v)
	return &m
}

func pendingOrderWithOffer() models.Order {
	return models.Order{
		ID:          10,
		OrderType:   valueobject.OrderTypeServiceRequest,
		OrderStatus: valueobject.OrderStatusPending,
		ProjectOffers: []models.ProjectOffer{{
			ID:             100,
			OfferedPrice:   120,
			Status:         valueobject.OfferStatusPending,
			OfferInitiator: valueobject.OfferInitiatorTechnician,
		}},
	}
}

func TestReduce_NormalizesNestedOffers(t *testing.T) {
	s := Reduce(NewState(), ClientOrdersLoaded{Orders: []models.Order{pendingOrderWithOffer()}})

	require.Contains(t, s.Offers, int64(100))
	assert.Equal(t, int64(10), s.Offers[100].OrderID)
	assert.Nil(t, s.Orders[10].Order.ProjectOffers)
	assert.Equal(t, []int64{100}, s.Orders[10].OfferIDs)

	order, ok := s.Order(10)
	require.True(t, ok)
	require.Len(t, order.ProjectOffers, 1)
	assert.Equal(t, int64(100), order.ProjectOffers[0].ID)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := Reduce(NewState(), ClientOrdersLoaded{Orders: []models.Order{pendingOrderWithOffer()}})

	updated := before.Offers[100]
	updated.OfferedPrice = 99
	after := Reduce(before, OfferSaved{Offer: updated})

	assert.Equal(t, valueobject.Money(120), before.Offers[100].OfferedPrice)
	assert.Equal(t, valueobject.Money(99), after.Offers[100].OfferedPrice)
}

func TestReduce_OfferUpdateVisibleEverywhere(t *testing.T) {
	s := Reduce(NewState(), ClientOrdersLoaded{Orders: []models.Order{pendingOrderWithOffer()}})
	s = Reduce(s, RequestStarted{})
	s = Reduce(s, CurrentOrderLoaded{Order: pendingOrderWithOffer()})

	offer := s.Offers[100]
	offer.OfferDescription = "Приеду завтра утром"
	s = Reduce(s, OfferSaved{Offer: offer, Message: "Предложение обновлено"})

	list := s.ClientOrderList()
	require.Len(t, list, 1)
	assert.Equal(t, "Приеду завтра утром", list[0].ProjectOffers[0].OfferDescription)

	current := s.CurrentOrder()
	require.NotNil(t, current)
	assert.Equal(t, "Приеду завтра утром", current.ProjectOffers[0].OfferDescription)
	assert.Equal(t, "Предложение обновлено", s.Message)
}

func TestReduce_OfferLinkedToCachedOrder(t *testing.T) {
	s := Reduce(NewState(), CurrentOrderLoaded{Order: models.Order{ID: 5, OrderStatus: valueobject.OrderStatusOpen}})

	s = Reduce(s, OfferSaved{Offer: models.ProjectOffer{ID: 50, OrderID: 5, Status: valueobject.OfferStatusPending}})

	assert.Equal(t, []int64{50}, s.Orders[5].OfferIDs)
}

func TestReduce_OrderWithoutOffersKeepsKnownOffers(t *testing.T) {
	s := Reduce(NewState(), ClientOrdersLoaded{Orders: []models.Order{pendingOrderWithOffer()}})

	s = Reduce(s, OrderSaved{Order: models.Order{ID: 10, OrderStatus: valueobject.OrderStatusCancelled}})

	assert.Equal(t, valueobject.OrderStatusCancelled, s.Orders[10].Order.OrderStatus)
	assert.Equal(t, []int64{100}, s.Orders[10].OfferIDs)
}

func TestReduce_LoadingTracksInFlight(t *testing.T) {
	s := Reduce(NewState(), RequestStarted{})
	s = Reduce(s, RequestStarted{})
	assert.True(t, s.Loading)

	s = Reduce(s, RequestFailed{Err: &StoreError{Message: "ошибка"}})
	assert.True(t, s.Loading)
	assert.Equal(t, "ошибка", s.Error.Message)

	s = Reduce(s, RequestAborted{})
	assert.False(t, s.Loading)
	assert.Equal(t, 0, s.InFlight)

	// лишнее завершение не уводит счётчик в минус
	s = Reduce(s, RequestAborted{})
	assert.Equal(t, 0, s.InFlight)
}

func TestReduce_ErrorAndMessageClearedExplicitly(t *testing.T) {
	s := Reduce(NewState(), RequestFailed{Err: &StoreError{Message: "ошибка"}})
	s = Reduce(s, ClientOrdersRefreshed{})
	assert.NotNil(t, s.Error)

	s = Reduce(s, ErrorCleared{})
	assert.Nil(t, s.Error)

	s = Reduce(s, OrderCreated{Order: models.Order{ID: 1}, Message: "Заказ успешно создан"})
	assert.Equal(t, "Заказ успешно создан", s.Message)
	s = Reduce(s, MessageCleared{})
	assert.Empty(t, s.Message)
}

func TestReduce_CurrentOrderOnlyClearedExplicitly(t *testing.T) {
	s := Reduce(NewState(), CurrentOrderLoaded{Order: models.Order{ID: 3}})
	s = Reduce(s, ClientOrdersLoaded{Orders: []models.Order{{ID: 4}}})
	assert.Equal(t, int64(3), s.CurrentOrderID)

	s = Reduce(s, CurrentOrderCleared{})
	assert.Nil(t, s.CurrentOrder())
	assert.Contains(t, s.Orders, int64(3))
}

func TestReduce_OrderCreatedAppendsOnce(t *testing.T) {
	order := models.Order{ID: 1, ExpectedPrice: money(150)}
	s := Reduce(NewState(), OrderCreated{Order: order})
	s = Reduce(s, OrderCreated{Order: order})
	assert.Equal(t, []int64{1}, s.ClientOrders)
}

func TestReduce_TechnicianClientOffersCarryOrderDetail(t *testing.T) {
	offers := []models.ProjectOffer{{
		ID:             7,
		Status:         valueobject.OfferStatusPending,
		OfferInitiator: valueobject.OfferInitiatorClient,
		OrderDetail: &models.Order{
			ID:          70,
			OrderType:   valueobject.OrderTypeDirectHire,
			OrderStatus: valueobject.OrderStatusAwaitingTechnicianResponse,
		},
	}}
	s := Reduce(NewState(), TechnicianClientOffersLoaded{Offers: offers})

	list := s.TechnicianClientOfferList()
	require.Len(t, list, 1)
	require.NotNil(t, list[0].OrderDetail)
	assert.Equal(t, int64(70), list[0].OrderDetail.ID)
	assert.Equal(t, int64(70), list[0].OrderID)
	assert.Nil(t, s.Offers[7].OrderDetail)
}

func TestReduce_ResetClearsEverything(t *testing.T) {
	s := Reduce(NewState(), ClientOrdersLoaded{Orders: []models.Order{pendingOrderWithOffer()}})
	s = Reduce(s, Reset{})
	assert.Empty(t, s.Orders)
	assert.Empty(t, s.ClientOrders)
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	store := NewStore(nil)
	var events []Event
	unsubscribe := store.Subscribe(func(e Event) {
		events = append(events, e)
	})

	store.ClearError()
	unsubscribe()
	store.ClearMessage()

	require.Len(t, events, 1)
	assert.Equal(t, "orders/errorCleared", events[0].Action)
	assert.Equal(t, uint64(1), events[0].Seq)
}
