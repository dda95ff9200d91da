package valueobject

import "github.com/homefix/marketplace-client/internal/pkg/apperror"

type OrderStatus string

const (
	OrderStatusOpen                             OrderStatus = "OPEN"
	OrderStatusPending                          OrderStatus = "PENDING"
	OrderStatusAwaitingTechnicianResponse       OrderStatus = "AWAITING_TECHNICIAN_RESPONSE"
	OrderStatusAwaitingClientEscrowConfirmation OrderStatus = "AWAITING_CLIENT_ESCROW_CONFIRMATION"
	OrderStatusAccepted                         OrderStatus = "ACCEPTED"
	OrderStatusInProgress                       OrderStatus = "IN_PROGRESS"
	OrderStatusAwaitingRelease                  OrderStatus = "AWAITING_RELEASE"
	OrderStatusCompleted                        OrderStatus = "COMPLETED"
	OrderStatusDisputed                         OrderStatus = "DISPUTED"
	OrderStatusCancelled                        OrderStatus = "CANCELLED"
	OrderStatusRefunded                         OrderStatus = "REFUNDED"
)

// orderTransitions описывает структурно допустимые переходы заказа.
// Источник истины сервер, таблица используется только для UI-гардов.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusOpen:                             {OrderStatusPending, OrderStatusCancelled},
	OrderStatusPending:                          {OrderStatusAccepted, OrderStatusAwaitingClientEscrowConfirmation, OrderStatusCancelled},
	OrderStatusAwaitingTechnicianResponse:       {OrderStatusAccepted, OrderStatusAwaitingClientEscrowConfirmation, OrderStatusCancelled},
	OrderStatusAwaitingClientEscrowConfirmation: {OrderStatusAccepted},
	OrderStatusAccepted:                         {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress:                       {OrderStatusAwaitingRelease},
	OrderStatusAwaitingRelease:                  {OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusDisputed:                         {OrderStatusCompleted, OrderStatusRefunded},
	OrderStatusCompleted:                        {},
	OrderStatusCancelled:                        {},
	OrderStatusRefunded:                         {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal сообщает, что заказ больше не меняет статус.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// IsAwaiting сообщает, что заказ ещё ждёт согласования предложения.
func (s OrderStatus) IsAwaiting() bool {
	switch s {
	case OrderStatusOpen, OrderStatusPending, OrderStatusAwaitingTechnicianResponse:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	for _, status := range orderTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

type OrderType string

const (
	OrderTypeServiceRequest OrderType = "service_request"
	OrderTypeDirectHire     OrderType = "direct_hire"
)

func (t OrderType) IsValid() bool {
	return t == OrderTypeServiceRequest || t == OrderTypeDirectHire
}

// InitialStatus возвращает статус, с которого сервер начинает заказ данного типа.
func (t OrderType) InitialStatus() OrderStatus {
	if t == OrderTypeDirectHire {
		return OrderStatusAwaitingTechnicianResponse
	}
	return OrderStatusOpen
}

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected:
		return true
	}
	return false
}

type OfferInitiator string

const (
	OfferInitiatorClient     OfferInitiator = "client"
	OfferInitiatorTechnician OfferInitiator = "technician"
)

// OfferAction ответ техника на прямое предложение клиента.
type OfferAction string

const (
	OfferActionAccept OfferAction = "accept"
	OfferActionReject OfferAction = "reject"
)

func (a OfferAction) IsValid() bool {
	return a == OfferActionAccept || a == OfferActionReject
}

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusInReview DisputeStatus = "IN_REVIEW"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

type DisputeResolution string

const (
	ResolutionPayTechnician DisputeResolution = "PAY_TECHNICIAN"
	ResolutionRefundClient  DisputeResolution = "REFUND_CLIENT"
	ResolutionSplitPayment  DisputeResolution = "SPLIT_PAYMENT"
)

func (r DisputeResolution) IsValid() bool {
	switch r {
	case ResolutionPayTechnician, ResolutionRefundClient, ResolutionSplitPayment:
		return true
	}
	return false
}

// ResultingOrderStatus статус заказа, который сервер выставляет после решения спора.
func (r DisputeResolution) ResultingOrderStatus() OrderStatus {
	if r == ResolutionRefundClient {
		return OrderStatusRefunded
	}
	return OrderStatusCompleted
}

type TransactionType string

const (
	TransactionDeposit           TransactionType = "DEPOSIT"
	TransactionWithdrawal        TransactionType = "WITHDRAWAL"
	TransactionEscrowFunding     TransactionType = "ESCROW_FUNDING"
	TransactionEscrowRelease     TransactionType = "ESCROW_RELEASE"
	TransactionDisputeSettlement TransactionType = "DISPUTE_SETTLEMENT"
	TransactionServicePayment    TransactionType = "SERVICE_PAYMENT"
	TransactionServiceRefund     TransactionType = "SERVICE_REFUND"
)
