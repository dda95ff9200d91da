package models

import (
	"time"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
)

// Dispute спор по сданной работе. Решение выносит только администратор.
type Dispute struct {
	ID                 int64                          `json:"id"`
	OrderID            int64                          `json:"order"`
	Initiator          *UserRef                       `json:"initiator,omitempty"`
	ClientArgument     string                         `json:"client_argument,omitempty"`
	TechnicianArgument string                         `json:"technician_argument,omitempty"`
	Status             valueobject.DisputeStatus      `json:"status"`
	Resolution         *valueobject.DisputeResolution `json:"resolution,omitempty"`
	AdminNotes         string                         `json:"admin_notes,omitempty"`
	CreatedAt          time.Time                      `json:"created_at"`
	ResolvedAt         *time.Time                     `json:"resolved_at,omitempty"`
}
