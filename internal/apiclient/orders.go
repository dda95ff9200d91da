package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/models"
)

func (c *Client) pageQuery() url.Values {
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(c.pageSize))
	return q
}

// CreateOrder создаёт открытую заявку клиента.
func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders/", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateDirectOffer создаёт заказ прямого найма вместе с предложением технику.
func (c *Client) CreateDirectOffer(ctx context.Context, req dto.DirectOfferRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders/direct-hire/", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListClientOrders возвращает первую страницу заказов текущего клиента.
func (c *Client) ListClientOrders(ctx context.Context) ([]models.Order, error) {
	return c.listOrders(ctx, "/orders/")
}

// ListAvailableOrders возвращает открытые заявки, доступные технику.
func (c *Client) ListAvailableOrders(ctx context.Context) ([]models.Order, error) {
	return c.listOrders(ctx, "/orders/available/")
}

// ListTechnicianOrders возвращает заказы, где текущий пользователь исполнитель.
func (c *Client) ListTechnicianOrders(ctx context.Context) ([]models.Order, error) {
	return c.listOrders(ctx, "/orders/technician/")
}

func (c *Client) listOrders(ctx context.Context, path string) ([]models.Order, error) {
	var page dto.Page[models.Order]
	if err := c.do(ctx, http.MethodGet, path, c.pageQuery(), nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []models.Order{}, nil
	}
	return page.Results, nil
}

// ListTechnicianClientOffers возвращает прямые предложения клиентов текущему технику.
func (c *Client) ListTechnicianClientOffers(ctx context.Context) ([]models.ProjectOffer, error) {
	var page dto.Page[models.ProjectOffer]
	if err := c.do(ctx, http.MethodGet, "/technicians/me/client-offers/", c.pageQuery(), nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []models.ProjectOffer{}, nil
	}
	return page.Results, nil
}

// GetOrder возвращает заказ с точки зрения участника.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/", orderID), nil)
}

// GetPublicOrder возвращает публичную карточку заказа.
func (c *Client) GetPublicOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/public/", orderID), nil)
}

// SubmitOffer отправляет отклик техника. Сервер возвращает предложение с вложенным заказом.
func (c *Client) SubmitOffer(ctx context.Context, orderID int64, req dto.SubmitOfferRequest) (*models.ProjectOffer, error) {
	var offer models.ProjectOffer
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/offers/", orderID), nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// AcceptOffer принимает предложение и возвращает заказ после перехода.
func (c *Client) AcceptOffer(ctx context.Context, orderID, offerID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/accept-offer/%d/", orderID, offerID), nil)
}

// UpdateOffer частично обновляет предложение.
func (c *Client) UpdateOffer(ctx context.Context, offerID int64, req dto.UpdateOfferRequest) (*models.ProjectOffer, error) {
	var offer models.ProjectOffer
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/project-offers/%d/", offerID), nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// UpdateOrder частично обновляет заказ.
func (c *Client) UpdateOrder(ctx context.Context, orderID int64, req dto.UpdateOrderRequest) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/", orderID), req)
}

// CancelOrder отменяет заказ с указанием причины.
func (c *Client) CancelOrder(ctx context.Context, orderID int64, reason string) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/cancel-order/", orderID),
		dto.CancelOrderRequest{CancellationReason: reason})
}

// ReleaseFunds выплачивает технику средства из эскроу.
func (c *Client) ReleaseFunds(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/release-funds/", orderID), nil)
}

// ConfirmEscrow подтверждает резервирование средств клиентом.
func (c *Client) ConfirmEscrow(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/confirm-escrow/", orderID), nil)
}

func (c *Client) StartWork(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/start-work/", orderID), nil)
}

func (c *Client) MarkJobDone(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/mark-done/", orderID), nil)
}

// InitiateDispute открывает спор по заказу.
func (c *Client) InitiateDispute(ctx context.Context, orderID int64, argument string) (*dto.DisputeResponse, error) {
	var resp dto.DisputeResponse
	path := fmt.Sprintf("/orders/%d/initiate-dispute/", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, dto.InitiateDisputeRequest{Argument: argument}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDispute(ctx context.Context, disputeID int64) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/disputes/%d/", disputeID), nil, nil, &dispute); err != nil {
		return nil, err
	}
	return &dispute, nil
}

// ResolveDispute выносит решение администратора по спору.
func (c *Client) ResolveDispute(ctx context.Context, disputeID int64, req dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	var resp dto.DisputeResponse
	path := fmt.Sprintf("/disputes/%d/resolve-dispute/", disputeID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RespondToClientOffer отправляет ответ техника на прямое предложение клиента.
func (c *Client) RespondToClientOffer(ctx context.Context, technicianID, offerID int64, req dto.RespondToOfferRequest) (*models.ProjectOffer, error) {
	var offer models.ProjectOffer
	path := fmt.Sprintf("/technicians/%d/client-offers/%d/respond/", technicianID, offerID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *Client) orderRequest(ctx context.Context, method, path string, body any) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, method, path, nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
