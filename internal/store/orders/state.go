package orders

import (
	"errors"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
	"github.com/homefix/marketplace-client/internal/models"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// StoreError ошибка последнего перехода. Живёт в состоянии до явного ClearError.
type StoreError struct {
	Message string             `json:"message"`
	Code    apperror.ErrorCode `json:"code,omitempty"`
}

// NewStoreError приводит любую ошибку к форме {message}.
func NewStoreError(err error) *StoreError {
	if err == nil {
		return nil
	}
	se := &StoreError{Message: apperror.MessageOf(err)}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		se.Code = appErr.Code
	}
	return se
}

// OrderRecord нормализованная запись заказа: предложения хранятся только ссылками
// на таблицу Offers.
type OrderRecord struct {
	Order             models.Order
	OfferIDs          []int64
	AssociatedOfferID int64
}

// State нормализованный кэш заказов, предложений и споров.
// Значение State неизменяемо: редьюсер всегда возвращает новую копию изменённых таблиц.
type State struct {
	Orders   map[int64]OrderRecord
	Offers   map[int64]models.ProjectOffer
	Disputes map[int64]models.Dispute

	ClientOrders           []int64
	AvailableOrders        []int64
	TechnicianOrders       []int64
	TechnicianClientOffers []int64

	CurrentOrderID   int64
	CurrentDisputeID int64

	InFlight int
	Loading  bool
	Error    *StoreError
	Message  string
}

// NewState возвращает пустое состояние.
func NewState() State {
	return State{
		Orders:   map[int64]OrderRecord{},
		Offers:   map[int64]models.ProjectOffer{},
		Disputes: map[int64]models.Dispute{},
	}
}

// OrderStatus статус заказа из кэша.
func (s State) OrderStatus(id int64) (valueobject.OrderStatus, bool) {
	rec, ok := s.Orders[id]
	if !ok {
		return "", false
	}
	return rec.Order.OrderStatus, true
}
