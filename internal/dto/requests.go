package dto

import "github.com/homefix/marketplace-client/internal/domain/valueobject"

// CreateOrderRequest тело POST /orders/ для открытой заявки.
type CreateOrderRequest struct {
	OrderType          valueobject.OrderType `json:"order_type,omitempty"`
	ProblemDescription string                `json:"problem_description" binding:"required"`
	RequestedLocation  string                `json:"requested_location" binding:"required"`
	ScheduledDate      string                `json:"scheduled_date,omitempty"`
	ScheduledTimeStart string                `json:"scheduled_time_start,omitempty"`
	ScheduledTimeEnd   string                `json:"scheduled_time_end,omitempty"`
	ExpectedPrice      *valueobject.Money    `json:"expected_price,omitempty"`
}

// DirectOfferRequest тело POST /orders/direct-hire/: клиент сразу предлагает работу технику.
type DirectOfferRequest struct {
	TechnicianID       int64             `json:"technician_id" binding:"required"`
	ProblemDescription string            `json:"problem_description" binding:"required"`
	RequestedLocation  string            `json:"requested_location" binding:"required"`
	ScheduledDate      string            `json:"scheduled_date,omitempty"`
	ScheduledTimeStart string            `json:"scheduled_time_start,omitempty"`
	ScheduledTimeEnd   string            `json:"scheduled_time_end,omitempty"`
	OfferedPrice       valueobject.Money `json:"offered_price" binding:"required"`
	OfferDescription   string            `json:"offer_description,omitempty"`
}

// SubmitOfferRequest отклик техника на открытую заявку.
type SubmitOfferRequest struct {
	OfferedPrice     valueobject.Money `json:"offered_price" binding:"required"`
	OfferDescription string            `json:"offer_description"`
}

// UpdateOrderRequest частичное обновление заказа. Пустые поля не отправляются.
type UpdateOrderRequest struct {
	ProblemDescription *string            `json:"problem_description,omitempty"`
	RequestedLocation  *string            `json:"requested_location,omitempty"`
	ScheduledDate      *string            `json:"scheduled_date,omitempty"`
	ScheduledTimeStart *string            `json:"scheduled_time_start,omitempty"`
	ScheduledTimeEnd   *string            `json:"scheduled_time_end,omitempty"`
	ExpectedPrice      *valueobject.Money `json:"expected_price,omitempty"`
}

// UpdateOfferRequest частичное обновление предложения.
type UpdateOfferRequest struct {
	OfferedPrice     *valueobject.Money `json:"offered_price,omitempty"`
	OfferDescription *string            `json:"offer_description,omitempty"`
}

// CancelOrderRequest тело POST /orders/{id}/cancel-order/.
type CancelOrderRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}

// InitiateDisputeRequest тело POST /orders/{id}/initiate-dispute/.
type InitiateDisputeRequest struct {
	Argument string `json:"argument" binding:"required"`
}

// ResolveDisputeRequest тело POST /disputes/{id}/resolve-dispute/.
type ResolveDisputeRequest struct {
	Resolution valueobject.DisputeResolution `json:"resolution" binding:"required"`
	AdminNotes string                        `json:"admin_notes"`
}

// RespondToOfferRequest ответ техника на прямое предложение клиента.
type RespondToOfferRequest struct {
	Action          valueobject.OfferAction `json:"action" binding:"required"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
}

// StartSessionRequest передаёт мосту токен, полученный при входе.
type StartSessionRequest struct {
	Token string `json:"token" binding:"required"`
}
