package handlers

import (
	"context"

	"github.com/homefix/marketplace-client/internal/models"
)

// orderTransition переход заказа без тела запроса.
type orderTransition func(ctx context.Context, orderID int64) (*models.Order, error)
