package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

var allOrderStatuses = []OrderStatus{
	OrderStatusOpen,
	OrderStatusPending,
	OrderStatusAwaitingTechnicianResponse,
	OrderStatusAwaitingClientEscrowConfirmation,
	OrderStatusAccepted,
	OrderStatusInProgress,
	OrderStatusAwaitingRelease,
	OrderStatusCompleted,
	OrderStatusDisputed,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

func TestOrderStatus_Lifecycle(t *testing.T) {
	path := []OrderStatus{
		OrderStatusOpen,
		OrderStatusPending,
		OrderStatusAwaitingClientEscrowConfirmation,
		OrderStatusAccepted,
		OrderStatusInProgress,
		OrderStatusAwaitingRelease,
		OrderStatusDisputed,
		OrderStatusRefunded,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, path[i].CanTransitionTo(path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestOrderStatus_TerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range allOrderStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allOrderStatuses {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_CancelEdgesMatchGuard(t *testing.T) {
	for _, s := range allOrderStatuses {
		assert.Equal(t, CanCancel(s), s.CanTransitionTo(OrderStatusCancelled), string(s))
	}
}

func TestNewOrderStatus(t *testing.T) {
	s, err := NewOrderStatus("AWAITING_RELEASE")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusAwaitingRelease, s)

	_, err = NewOrderStatus("published")
	assert.True(t, apperror.IsValidation(err))
}

func TestCanCancel(t *testing.T) {
	allowed := map[OrderStatus]bool{
		OrderStatusOpen:                       true,
		OrderStatusPending:                    true,
		OrderStatusAwaitingTechnicianResponse: true,
		OrderStatusAccepted:                   true,
	}
	for _, s := range allOrderStatuses {
		assert.Equal(t, allowed[s], CanCancel(s), string(s))
	}
}

func TestReleaseAndDisputeOnlyFromAwaitingRelease(t *testing.T) {
	for _, s := range allOrderStatuses {
		want := s == OrderStatusAwaitingRelease
		assert.Equal(t, want, CanReleaseFunds(s), string(s))
		assert.Equal(t, want, CanInitiateDispute(s), string(s))
	}
}

func TestGuardTransition(t *testing.T) {
	assert.NoError(t, GuardTransition("cancel", OrderStatusOpen, CanCancel))

	err := GuardTransition("cancel", OrderStatusInProgress, CanCancel)
	require.Error(t, err)
	assert.True(t, apperror.IsTransitionNotAllowed(err))
	assert.Contains(t, err.Error(), "IN_PROGRESS")
}

func TestCheckOfferConsistency(t *testing.T) {
	assert.Error(t, CheckOfferConsistency(OrderStatusOpen, OfferStatusAccepted))
	assert.Error(t, CheckOfferConsistency(OrderStatusPending, OfferStatusAccepted))
	assert.NoError(t, CheckOfferConsistency(OrderStatusAccepted, OfferStatusAccepted))
	assert.NoError(t, CheckOfferConsistency(OrderStatusOpen, OfferStatusPending))
}

func TestDisputeResolution_ResultingOrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusRefunded, ResolutionRefundClient.ResultingOrderStatus())
	assert.Equal(t, OrderStatusCompleted, ResolutionPayTechnician.ResultingOrderStatus())
	assert.Equal(t, OrderStatusCompleted, ResolutionSplitPayment.ResultingOrderStatus())
	assert.False(t, DisputeResolution("KEEP").IsValid())
}

func TestOrderType_InitialStatus(t *testing.T) {
	assert.Equal(t, OrderStatusOpen, OrderTypeServiceRequest.InitialStatus())
	assert.Equal(t, OrderStatusAwaitingTechnicianResponse, OrderTypeDirectHire.InitialStatus())
}

func TestMoney_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Price   Money `json:"price"`
		Numeric Money `json:"numeric"`
		Empty   Money `json:"empty"`
	}
	err := json.Unmarshal([]byte(`{"price":"150.00","numeric":120.5,"empty":null}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, Money(150), payload.Price)
	assert.Equal(t, Money(120.5), payload.Numeric)
	assert.Equal(t, Money(0), payload.Empty)

	var bad Money
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestMoney_UnmarshalJSON_RejectsNonFinite(t *testing.T) {
	for _, raw := range []string{`"NaN"`, `"Inf"`, `"+Inf"`, `"-Inf"`, `"infinity"`} {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(raw), &m), raw)
		assert.False(t, m.IsPositive(), raw)
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Money(99.5))
	require.NoError(t, err)
	assert.Equal(t, `"99.50"`, string(raw))

	_, err = NewMoney(-1)
	assert.Error(t, err)
}
