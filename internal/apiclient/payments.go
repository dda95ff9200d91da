package apiclient

import (
	"context"
	"net/http"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/models"
)

// GetBalance возвращает балансы текущего пользователя.
func (c *Client) GetBalance(ctx context.Context) (*models.UserBalance, error) {
	var balance models.UserBalance
	if err := c.do(ctx, http.MethodGet, "/payments/balance/", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// TransferPendingToAvailable переводит ожидающие средства в доступные.
// Ответ содержит только сообщение, новые балансы нужно запросить заново.
func (c *Client) TransferPendingToAvailable(ctx context.Context) (string, error) {
	var resp dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/payments/transfer-pending-to-available/", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Detail, nil
}

// ListMyTransactions возвращает первую страницу журнала операций пользователя.
func (c *Client) ListMyTransactions(ctx context.Context) ([]models.Transaction, error) {
	var page dto.Page[models.Transaction]
	if err := c.do(ctx, http.MethodGet, "/transactions/me/", c.pageQuery(), nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []models.Transaction{}, nil
	}
	return page.Results, nil
}
