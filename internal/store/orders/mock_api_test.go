package orders

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/models"
)

type mockAPI struct {
	mock.Mock
}

func orderResult(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func offerResult(args mock.Arguments) (*models.ProjectOffer, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectOffer), args.Error(1)
}

func disputeResult(args mock.Arguments) (*dto.DisputeResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DisputeResponse), args.Error(1)
}

func (m *mockAPI) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	return orderResult(m.Called(ctx, req))
}

func (m *mockAPI) CreateDirectOffer(ctx context.Context, req dto.DirectOfferRequest) (*models.Order, error) {
	return orderResult(m.Called(ctx, req))
}

func (m *mockAPI) ListClientOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockAPI) ListAvailableOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockAPI) ListTechnicianOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockAPI) ListTechnicianClientOffers(ctx context.Context) ([]models.ProjectOffer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectOffer), args.Error(1)
}

func (m *mockAPI) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID))
}

func (m *mockAPI) GetPublicOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID))
}

func (m *mockAPI) SubmitOffer(ctx context.Context, orderID int64, req dto.SubmitOfferRequest) (*models.ProjectOffer, error) {
	return offerResult(m.Called(ctx, orderID, req))
}

func (m *mockAPI) AcceptOffer(ctx context.Context, orderID, offerID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID, offerID))
}

func (m *mockAPI) UpdateOffer(ctx context.Context, offerID int64, req dto.UpdateOfferRequest) (*models.ProjectOffer, error) {
	return offerResult(m.Called(ctx, offerID, req))
}

func (m *mockAPI) UpdateOrder(ctx context.Context, orderID int64, req dto.UpdateOrderRequest) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID, req))
}

func (m *mockAPI) CancelOrder(ctx context.Context, orderID int64, reason string) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID, reason))
}

func (m *mockAPI) ReleaseFunds(ctx context.Context, orderID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID))
}

func (m *mockAPI) ConfirmEscrow(ctx context.Context, orderID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID))
}

func (m *mockAPI) StartWork(ctx context.Context, orderID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID))
}

func (m *mockAPI) MarkJobDone(ctx context.Context, orderID int64) (*models.Order, error) {
	return orderResult(m.Called(ctx, orderID))
}

func (m *mockAPI) InitiateDispute(ctx context.Context, orderID int64, argument string) (*dto.DisputeResponse, error) {
	return disputeResult(m.Called(ctx, orderID, argument))
}

func (m *mockAPI) GetDispute(ctx context.Context, disputeID int64) (*models.Dispute, error) {
	args := m.Called(ctx, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockAPI) ResolveDispute(ctx context.Context, disputeID int64, req dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	return disputeResult(m.Called(ctx, disputeID, req))
}

func (m *mockAPI) RespondToClientOffer(ctx context.Context, technicianID, offerID int64, req dto.RespondToOfferRequest) (*models.ProjectOffer, error) {
	return offerResult(m.Called(ctx, technicianID, offerID, req))
}
