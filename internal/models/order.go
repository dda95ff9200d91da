package models

import (
	"time"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
)

// Order описывает заказ на услугу: открытую заявку или прямой найм техника.
type Order struct {
	ID                 int64                   `json:"id"`
	OrderType          valueobject.OrderType   `json:"order_type"`
	OrderStatus        valueobject.OrderStatus `json:"order_status"`
	ProblemDescription string                  `json:"problem_description"`
	RequestedLocation  string                  `json:"requested_location"`
	ScheduledDate      string                  `json:"scheduled_date,omitempty"`
	ScheduledTimeStart string                  `json:"scheduled_time_start,omitempty"`
	ScheduledTimeEnd   string                  `json:"scheduled_time_end,omitempty"`
	ExpectedPrice      *valueobject.Money      `json:"expected_price,omitempty"`
	FinalPrice         *valueobject.Money      `json:"final_price,omitempty"`
	ClientUser         *UserRef                `json:"client_user,omitempty"`
	TechnicianUser     *UserRef                `json:"technician_user,omitempty"`
	ProjectOffers      []ProjectOffer          `json:"project_offers,omitempty"`
	AssociatedOffer    *ProjectOffer           `json:"associated_offer,omitempty"`
	CancellationReason string                  `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// ProjectOffer отклик техника на заявку или прямое предложение клиента технику.
type ProjectOffer struct {
	ID               int64                      `json:"id"`
	OrderID          int64                      `json:"order"`
	TechnicianUser   *UserRef                   `json:"technician_user,omitempty"`
	OfferedPrice     valueobject.Money          `json:"offered_price"`
	OfferDescription string                     `json:"offer_description"`
	Status           valueobject.OfferStatus    `json:"status"`
	OfferInitiator   valueobject.OfferInitiator `json:"offer_initiator"`
	RejectionReason  string                     `json:"rejection_reason,omitempty"`
	OrderDetail      *Order                     `json:"order_detail,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}
