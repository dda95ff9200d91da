package apiclient

import (
	"context"
	"net/http"

	"github.com/homefix/marketplace-client/internal/models"
)

// GetCurrentUser возвращает профиль владельца токена.
func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
