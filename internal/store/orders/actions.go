package orders

import "github.com/homefix/marketplace-client/internal/models"

// Action входное событие редьюсера.
type Action interface {
	Type() string
}

// completion помечает действия, завершающие запрос: они уменьшают счётчик InFlight.
type completion struct{}

func (completion) settles() {}

type settler interface {
	settles()
}

// RequestStarted запрос ушёл на сервер.
type RequestStarted struct{}

// RequestAborted запрос отменён вместе с представлением, результат отброшен.
type RequestAborted struct{ completion }

// RequestFailed сервер или транспорт вернули ошибку.
type RequestFailed struct {
	completion
	Err *StoreError
}

type ClientOrdersLoaded struct {
	completion
	Orders []models.Order
}

type AvailableOrdersLoaded struct {
	completion
	Orders []models.Order
}

type TechnicianOrdersLoaded struct {
	completion
	Orders []models.Order
}

type TechnicianClientOffersLoaded struct {
	completion
	Offers []models.ProjectOffer
}

// OrderCreated новый заказ клиента (заявка или прямой найм).
type OrderCreated struct {
	completion
	Order   models.Order
	Message string
}

// CurrentOrderLoaded заполняет слот просматриваемого заказа.
type CurrentOrderLoaded struct {
	completion
	Order models.Order
}

// OrderSaved заказ, возвращённый сервером после перехода. Заменяет кэшированную версию.
type OrderSaved struct {
	completion
	Order   models.Order
	Message string
}

// OfferSaved предложение после создания, правки или ответа техника.
// Order заполняется, если сервер (или повторный запрос) вернул родительский заказ.
type OfferSaved struct {
	completion
	Offer   models.ProjectOffer
	Order   *models.Order
	Message string
}

// DisputeSaved спор и, если известен, заказ после изменения его статуса.
type DisputeSaved struct {
	completion
	Dispute models.Dispute
	Order   *models.Order
	Message string
}

// ClientOrdersRefreshed фоновое обновление списка клиента. Не трогает InFlight и ошибки.
type ClientOrdersRefreshed struct {
	Orders []models.Order
}

type CurrentOrderCleared struct{}

type ErrorCleared struct{}

type MessageCleared struct{}

// Reset очищает кэш при выходе пользователя.
type Reset struct{}

func (RequestStarted) Type() string               { return "orders/requestStarted" }
func (RequestAborted) Type() string               { return "orders/requestAborted" }
func (RequestFailed) Type() string                { return "orders/requestFailed" }
func (ClientOrdersLoaded) Type() string           { return "orders/clientOrdersLoaded" }
func (AvailableOrdersLoaded) Type() string        { return "orders/availableOrdersLoaded" }
func (TechnicianOrdersLoaded) Type() string       { return "orders/technicianOrdersLoaded" }
func (TechnicianClientOffersLoaded) Type() string { return "orders/technicianClientOffersLoaded" }
func (OrderCreated) Type() string                 { return "orders/orderCreated" }
func (CurrentOrderLoaded) Type() string           { return "orders/currentOrderLoaded" }
func (OrderSaved) Type() string                   { return "orders/orderSaved" }
func (OfferSaved) Type() string                   { return "orders/offerSaved" }
func (DisputeSaved) Type() string                 { return "orders/disputeSaved" }
func (ClientOrdersRefreshed) Type() string        { return "orders/clientOrdersRefreshed" }
func (CurrentOrderCleared) Type() string          { return "orders/currentOrderCleared" }
func (ErrorCleared) Type() string                 { return "orders/errorCleared" }
func (MessageCleared) Type() string               { return "orders/messageCleared" }
func (Reset) Type() string                        { return "orders/reset" }
