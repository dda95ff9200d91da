package orders

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/models"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

func init() {
	logger.Discard()
}

func newTestStore(api API) *Store {
	return NewStore(api, WithBackgroundRunner(func(fn func()) { fn() }))
}

// seed кладёт заказ в кэш и список клиента.
func seed(store *Store, orders ...models.Order) {
	store.Dispatch(ClientOrdersLoaded{Orders: orders})
}

func TestCreateOrder_AppearsOpenInClientOrders(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	req := dto.CreateOrderRequest{
		OrderType:          valueobject.OrderTypeServiceRequest,
		ProblemDescription: "Течёт кран на кухне",
		RequestedLocation:  "Москва, ул. Ленина 1",
		ExpectedPrice:      money(150),
	}
	created := &models.Order{
		ID:            1,
		OrderType:     valueobject.OrderTypeServiceRequest,
		OrderStatus:   valueobject.OrderStatusOpen,
		ExpectedPrice: money(150),
	}
	api.On("CreateOrder", ctx, req).Return(created, nil)

	order, err := store.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)

	list := store.State().ClientOrderList()
	require.Len(t, list, 1)
	assert.Equal(t, valueobject.OrderStatusOpen, list[0].OrderStatus)
	assert.Equal(t, "150.00", list[0].ExpectedPrice.String())
	assert.False(t, store.State().Loading)
	assert.Equal(t, "Заказ успешно создан", store.State().Message)
	api.AssertExpectations(t)
}

func TestCreateOrder_FailureSurfacesMessageWithoutStateChange(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	serverErr := apperror.FromHTTPStatus(400, "Укажите адрес", nil)
	api.On("CreateOrder", ctx, mock.Anything).Return(nil, serverErr)

	_, err := store.CreateOrder(ctx, dto.CreateOrderRequest{ProblemDescription: "x"})
	require.Error(t, err)

	state := store.State()
	assert.Empty(t, state.ClientOrders)
	require.NotNil(t, state.Error)
	assert.Equal(t, "Укажите адрес", state.Error.Message)
	assert.Equal(t, apperror.ErrCodeValidation, state.Error.Code)

	store.ClearError()
	assert.Nil(t, store.State().Error)
}

func TestSubmitOffer_OrderBecomesPendingWithOneOffer(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusOpen})

	req := dto.SubmitOfferRequest{OfferedPrice: 120, OfferDescription: "Сделаю за час"}
	api.On("SubmitOffer", ctx, int64(1), req).Return(&models.ProjectOffer{
		ID:             11,
		OrderID:        1,
		OfferedPrice:   120,
		Status:         valueobject.OfferStatusPending,
		OfferInitiator: valueobject.OfferInitiatorTechnician,
		OrderDetail:    &models.Order{ID: 1, OrderStatus: valueobject.OrderStatusPending},
	}, nil)

	_, err := store.SubmitOffer(ctx, 1, req)
	require.NoError(t, err)

	order, ok := store.State().Order(1)
	require.True(t, ok)
	assert.Equal(t, valueobject.OrderStatusPending, order.OrderStatus)
	require.Len(t, order.ProjectOffers, 1)
	assert.Equal(t, valueobject.OfferStatusPending, order.ProjectOffers[0].Status)
	api.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestSubmitOffer_RefetchesOrderWhenResponseLacksIt(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusOpen})

	api.On("SubmitOffer", ctx, int64(1), mock.Anything).Return(&models.ProjectOffer{
		ID: 11, OrderID: 1, OfferedPrice: 120, Status: valueobject.OfferStatusPending,
	}, nil)
	api.On("GetOrder", ctx, int64(1)).Return(&models.Order{ID: 1, OrderStatus: valueobject.OrderStatusPending}, nil)

	_, err := store.SubmitOffer(ctx, 1, dto.SubmitOfferRequest{OfferedPrice: 120})
	require.NoError(t, err)

	order, _ := store.State().Order(1)
	assert.Equal(t, valueobject.OrderStatusPending, order.OrderStatus)
	require.Len(t, order.ProjectOffers, 1)
	api.AssertExpectations(t)
}

func acceptedOrder() *models.Order {
	accepted := models.ProjectOffer{
		ID:             11,
		OrderID:        1,
		OfferedPrice:   120,
		Status:         valueobject.OfferStatusAccepted,
		OfferInitiator: valueobject.OfferInitiatorTechnician,
	}
	return &models.Order{
		ID:              1,
		OrderStatus:     valueobject.OrderStatusAccepted,
		ProjectOffers:   []models.ProjectOffer{accepted},
		AssociatedOffer: &accepted,
	}
}

func TestAcceptOffer_OfferAcceptedAndOrderLeavesPending(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	seed(store, models.Order{
		ID:          1,
		OrderStatus: valueobject.OrderStatusPending,
		ProjectOffers: []models.ProjectOffer{
			{ID: 11, OrderID: 1, Status: valueobject.OfferStatusPending},
		},
	})

	api.On("AcceptOffer", ctx, int64(1), int64(11)).Return(acceptedOrder(), nil)

	_, err := store.AcceptOffer(ctx, 1, 11)
	require.NoError(t, err)

	state := store.State()
	assert.Equal(t, valueobject.OfferStatusAccepted, state.Offers[11].Status)
	assert.NotEqual(t, valueobject.OrderStatusPending, state.Orders[1].Order.OrderStatus)
	assertAcceptedOffersNotOpen(t, state)
	api.AssertNotCalled(t, "ListClientOrders", mock.Anything)
}

func assertAcceptedOffersNotOpen(t *testing.T, state State) {
	t.Helper()
	for _, offer := range state.Offers {
		if offer.Status != valueobject.OfferStatusAccepted {
			continue
		}
		parent, ok := state.Orders[offer.OrderID]
		if !ok {
			continue
		}
		assert.NotEqual(t, valueobject.OrderStatusOpen, parent.Order.OrderStatus, "offer %d", offer.ID)
	}
}

func TestAcceptOffer_UnknownOrderTriggersListRefetch(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	api.On("AcceptOffer", ctx, int64(1), int64(11)).Return(acceptedOrder(), nil)
	api.On("ListClientOrders", mock.Anything).Return([]models.Order{*acceptedOrder()}, nil)

	_, err := store.AcceptOffer(ctx, 1, 11)
	require.NoError(t, err)

	state := store.State()
	assert.Equal(t, valueobject.OrderStatusAccepted, state.Orders[1].Order.OrderStatus)
	assert.Equal(t, []int64{1}, state.ClientOrders)
	api.AssertExpectations(t)
}

func TestAcceptOffer_InconsistentResponseIsReconciled(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusPending})

	stale := acceptedOrder()
	stale.OrderStatus = valueobject.OrderStatusPending
	api.On("AcceptOffer", ctx, int64(1), int64(11)).Return(stale, nil)
	api.On("GetOrder", ctx, int64(1)).Return(acceptedOrder(), nil)

	order, err := store.AcceptOffer(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusAccepted, order.OrderStatus)
	assertAcceptedOffersNotOpen(t, store.State())
}

func TestAcceptOffer_AlreadyProcessedOfferIsGuarded(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	seed(store, models.Order{
		ID:            1,
		OrderStatus:   valueobject.OrderStatusPending,
		ProjectOffers: []models.ProjectOffer{{ID: 11, Status: valueobject.OfferStatusRejected}},
	})

	_, err := store.AcceptOffer(context.Background(), 1, 11)
	assert.True(t, apperror.IsTransitionNotAllowed(err))
	api.AssertNotCalled(t, "AcceptOffer", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOrder_GuardedByStatus(t *testing.T) {
	allowed := map[valueobject.OrderStatus]bool{
		valueobject.OrderStatusOpen:                       true,
		valueobject.OrderStatusPending:                    true,
		valueobject.OrderStatusAwaitingTechnicianResponse: true,
		valueobject.OrderStatusAccepted:                   true,
	}
	statuses := []valueobject.OrderStatus{
		valueobject.OrderStatusOpen,
		valueobject.OrderStatusPending,
		valueobject.OrderStatusAwaitingTechnicianResponse,
		valueobject.OrderStatusAwaitingClientEscrowConfirmation,
		valueobject.OrderStatusAccepted,
		valueobject.OrderStatusInProgress,
		valueobject.OrderStatusAwaitingRelease,
		valueobject.OrderStatusCompleted,
		valueobject.OrderStatusDisputed,
		valueobject.OrderStatusCancelled,
		valueobject.OrderStatusRefunded,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			api := new(mockAPI)
			store := newTestStore(api)
			ctx := context.Background()
			seed(store, models.Order{ID: 1, OrderStatus: status})

			api.On("CancelOrder", ctx, int64(1), "передумал").
				Return(&models.Order{ID: 1, OrderStatus: valueobject.OrderStatusCancelled}, nil).Maybe()

			_, err := store.CancelOrder(ctx, 1, " передумал ")
			if allowed[status] {
				require.NoError(t, err)
				assert.Equal(t, valueobject.OrderStatusCancelled, store.State().Orders[1].Order.OrderStatus)
				return
			}
			assert.True(t, apperror.IsTransitionNotAllowed(err))
			assert.Equal(t, status, store.State().Orders[1].Order.OrderStatus)
			api.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancelOrder_UncachedOrderDecidedByServer(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	api.On("CancelOrder", ctx, int64(9), "").Return(nil, apperror.FromHTTPStatus(409, "Заказ уже в работе", nil))

	_, err := store.CancelOrder(ctx, 9, "")
	require.Error(t, err)
	assert.Equal(t, "Заказ уже в работе", store.State().Error.Message)
}

func TestInitiateDispute_RejectedOutsideAwaitingRelease(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusInProgress})

	_, err := store.InitiateDispute(context.Background(), 1, "Работа не сделана")
	require.Error(t, err)

	assert.True(t, apperror.IsTransitionNotAllowed(err))
	assert.Empty(t, store.State().Disputes)
	assert.Nil(t, store.State().Error)
	api.AssertNotCalled(t, "InitiateDispute", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiateDispute_RefetchesOrderWhenMissing(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusAwaitingRelease})

	api.On("InitiateDispute", ctx, int64(1), "Работа не сделана").Return(&dto.DisputeResponse{
		Dispute: models.Dispute{ID: 5, OrderID: 1, Status: valueobject.DisputeStatusOpen, ClientArgument: "Работа не сделана"},
	}, nil)
	api.On("GetOrder", ctx, int64(1)).Return(&models.Order{ID: 1, OrderStatus: valueobject.OrderStatusDisputed}, nil)

	dispute, err := store.InitiateDispute(ctx, 1, "Работа не сделана")
	require.NoError(t, err)
	assert.Equal(t, int64(5), dispute.ID)

	state := store.State()
	assert.Equal(t, valueobject.OrderStatusDisputed, state.Orders[1].Order.OrderStatus)
	require.NotNil(t, state.CurrentDispute())
	assert.Equal(t, valueobject.DisputeStatusOpen, state.CurrentDispute().Status)
}

func TestResolveDispute_RefundMovesOrderToRefunded(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusDisputed})
	store.Dispatch(DisputeSaved{Dispute: models.Dispute{ID: 5, OrderID: 1, Status: valueobject.DisputeStatusOpen}})

	resolution := valueobject.ResolutionRefundClient
	req := dto.ResolveDisputeRequest{Resolution: resolution, AdminNotes: "Работа не выполнена"}
	api.On("ResolveDispute", ctx, int64(5), req).Return(&dto.DisputeResponse{
		Dispute: models.Dispute{ID: 5, OrderID: 1, Status: valueobject.DisputeStatusResolved, Resolution: &resolution},
		Order:   &models.Order{ID: 1, OrderStatus: valueobject.OrderStatusRefunded},
	}, nil)

	_, err := store.ResolveDispute(ctx, 5, resolution, "Работа не выполнена")
	require.NoError(t, err)

	state := store.State()
	dispute := state.Disputes[5]
	assert.Equal(t, valueobject.DisputeStatusResolved, dispute.Status)
	require.NotNil(t, dispute.Resolution)
	assert.Equal(t, valueobject.ResolutionRefundClient, *dispute.Resolution)
	assert.Equal(t, valueobject.OrderStatusRefunded, state.Orders[1].Order.OrderStatus)

	_, err = store.ResolveDispute(ctx, 5, resolution, "")
	assert.True(t, apperror.IsTransitionNotAllowed(err))
}

func TestResolveDispute_NotesTrimmedBeforeLimit(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	store.Dispatch(DisputeSaved{Dispute: models.Dispute{ID: 5, OrderID: 1, Status: valueobject.DisputeStatusOpen}})

	resolution := valueobject.ResolutionPayTechnician
	notes := strings.Repeat("x", 5000)
	req := dto.ResolveDisputeRequest{Resolution: resolution, AdminNotes: notes}
	api.On("ResolveDispute", ctx, int64(5), req).Return(&dto.DisputeResponse{
		Dispute: models.Dispute{ID: 5, OrderID: 1, Status: valueobject.DisputeStatusResolved, Resolution: &resolution},
		Order:   &models.Order{ID: 1, OrderStatus: valueobject.OrderStatusCompleted},
	}, nil).Once()

	_, err := store.ResolveDispute(ctx, 5, resolution, "  "+notes+"\n")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestResolveDispute_InvalidResolution(t *testing.T) {
	store := newTestStore(new(mockAPI))
	_, err := store.ResolveDispute(context.Background(), 5, "BURN_IT", "")
	assert.True(t, apperror.IsValidation(err))
}

func TestFetchSingleOrder_Idempotent(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	api.On("GetOrder", ctx, int64(1)).Return(&models.Order{
		ID:            1,
		OrderStatus:   valueobject.OrderStatusPending,
		ProjectOffers: []models.ProjectOffer{{ID: 11, Status: valueobject.OfferStatusPending}},
	}, nil)

	_, err := store.FetchSingleOrder(ctx, 1)
	require.NoError(t, err)
	first := store.State().CurrentOrder()

	_, err = store.FetchSingleOrder(ctx, 1)
	require.NoError(t, err)
	second := store.State().CurrentOrder()

	assert.Equal(t, first, second)
}

func TestTransition_CancelledContextLeavesStoreUntouched(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seed(store, models.Order{ID: 1, OrderStatus: valueobject.OrderStatusAwaitingRelease})

	api.On("ReleaseFunds", ctx, int64(1)).
		Run(func(mock.Arguments) { cancel() }).
		Return(&models.Order{ID: 1, OrderStatus: valueobject.OrderStatusCompleted}, nil)

	_, err := store.ReleaseFunds(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)

	state := store.State()
	assert.Equal(t, valueobject.OrderStatusAwaitingRelease, state.Orders[1].Order.OrderStatus)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Error)
}

func TestUpdateClientOffer_VisibleInOrderAndCurrentSlot(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	order := models.Order{
		ID:            1,
		OrderStatus:   valueobject.OrderStatusAwaitingTechnicianResponse,
		ProjectOffers: []models.ProjectOffer{{ID: 11, OrderID: 1, OfferedPrice: 100, Status: valueobject.OfferStatusPending}},
	}
	seed(store, order)
	store.Dispatch(CurrentOrderLoaded{Order: order})

	price := valueobject.Money(90)
	req := dto.UpdateOfferRequest{OfferedPrice: &price}
	api.On("UpdateOffer", ctx, int64(11), req).Return(&models.ProjectOffer{
		ID: 11, OrderID: 1, OfferedPrice: 90, Status: valueobject.OfferStatusPending,
	}, nil)

	_, err := store.UpdateClientOffer(ctx, 11, req)
	require.NoError(t, err)

	state := store.State()
	assert.Equal(t, valueobject.Money(90), state.ClientOrderList()[0].ProjectOffers[0].OfferedPrice)
	assert.Equal(t, valueobject.Money(90), state.CurrentOrder().ProjectOffers[0].OfferedPrice)
}

func TestRespondToClientOffer_RejectUpdatesTechnicianList(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()
	store.Dispatch(TechnicianClientOffersLoaded{Offers: []models.ProjectOffer{
		{ID: 7, OrderID: 70, Status: valueobject.OfferStatusPending, OfferInitiator: valueobject.OfferInitiatorClient},
	}})

	req := dto.RespondToOfferRequest{Action: valueobject.OfferActionReject, RejectionReason: "Занят"}
	api.On("RespondToClientOffer", ctx, int64(3), int64(7), req).Return(&models.ProjectOffer{
		ID: 7, OrderID: 70, Status: valueobject.OfferStatusRejected, RejectionReason: "Занят",
	}, nil)

	_, err := store.RespondToClientOffer(ctx, 3, 7, valueobject.OfferActionReject, "Занят")
	require.NoError(t, err)

	list := store.State().TechnicianClientOfferList()
	require.Len(t, list, 1)
	assert.Equal(t, valueobject.OfferStatusRejected, list[0].Status)
	assert.Equal(t, "Предложение отклонено", store.State().Message)
	api.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestRespondToClientOffer_InvalidAction(t *testing.T) {
	store := newTestStore(new(mockAPI))
	_, err := store.RespondToClientOffer(context.Background(), 3, 7, "maybe", "")
	assert.True(t, apperror.IsValidation(err))
}

func TestFetchClientOrders_NetworkErrorStored(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	netErr := apperror.Wrap(errors.New("dial tcp: refused"), apperror.ErrCodeNetwork, "сервер недоступен, проверьте подключение")
	api.On("ListClientOrders", ctx).Return(nil, netErr)

	_, err := store.FetchClientOrders(ctx)
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeNetwork, store.State().Error.Code)
	assert.False(t, store.State().Loading)
}

func TestLifecycle_DirectHireToCompletion(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	direct := dto.DirectOfferRequest{TechnicianID: 3, ProblemDescription: "Починить розетку", RequestedLocation: "Дом", OfferedPrice: 80}
	api.On("CreateDirectOffer", ctx, direct).Return(&models.Order{
		ID: 2, OrderType: valueobject.OrderTypeDirectHire, OrderStatus: valueobject.OrderStatusAwaitingTechnicianResponse,
	}, nil)
	api.On("StartWork", ctx, int64(2)).Return(&models.Order{ID: 2, OrderStatus: valueobject.OrderStatusInProgress}, nil)
	api.On("MarkJobDone", ctx, int64(2)).Return(&models.Order{ID: 2, OrderStatus: valueobject.OrderStatusAwaitingRelease}, nil)
	api.On("ReleaseFunds", ctx, int64(2)).Return(&models.Order{ID: 2, OrderStatus: valueobject.OrderStatusCompleted}, nil)

	_, err := store.MakeDirectOffer(ctx, direct)
	require.NoError(t, err)

	// техник ещё не принял предложение
	_, err = store.StartWork(ctx, 2)
	assert.True(t, apperror.IsTransitionNotAllowed(err))

	store.Dispatch(OrderSaved{Order: models.Order{ID: 2, OrderStatus: valueobject.OrderStatusAccepted}})

	_, err = store.StartWork(ctx, 2)
	require.NoError(t, err)
	_, err = store.MarkJobDone(ctx, 2)
	require.NoError(t, err)
	_, err = store.ReleaseFunds(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, valueobject.OrderStatusCompleted, store.State().Orders[2].Order.OrderStatus)
	assert.True(t, store.State().Orders[2].Order.OrderStatus.IsTerminal())
}

func TestInputLimits_RejectedWithoutServerCall(t *testing.T) {
	api := new(mockAPI)
	store := newTestStore(api)
	ctx := context.Background()

	_, err := store.CreateOrder(ctx, dto.CreateOrderRequest{
		ProblemDescription: strings.Repeat("x", 5001),
		RequestedLocation:  "Москва",
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = store.CancelOrder(ctx, 1, strings.Repeat("x", 1001))
	assert.True(t, apperror.IsValidation(err))

	_, err = store.InitiateDispute(ctx, 1, "   ")
	assert.True(t, apperror.IsValidation(err))

	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "InitiateDispute", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, store.State().InFlight)
}
