package models

import (
	"time"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
)

// UserBalance три неотрицательных баланса текущего пользователя.
type UserBalance struct {
	AvailableBalance valueobject.Money `json:"available_balance"`
	InEscrowBalance  valueobject.Money `json:"in_escrow_balance"`
	PendingBalance   valueobject.Money `json:"pending_balance"`
}

// Transaction запись неизменяемого журнала движения средств.
type Transaction struct {
	ID              int64                       `json:"id"`
	Amount          valueobject.Money           `json:"amount"`
	Currency        string                      `json:"currency"`
	TransactionType valueobject.TransactionType `json:"transaction_type"`
	SenderUser      *UserRef                    `json:"sender_user,omitempty"`
	ReceiverUser    *UserRef                    `json:"receiver_user,omitempty"`
	OrderID         *int64                      `json:"order,omitempty"`
	DisputeID       *int64                      `json:"dispute,omitempty"`
	Description     string                      `json:"description,omitempty"`
	Timestamp       time.Time                   `json:"timestamp"`
}
