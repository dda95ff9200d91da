package valueobject

import (
	"fmt"

	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// Гарды ниже управляют доступностью действий в интерфейсе.
// Сервер может отклонить переход и при разрешённом гарде.

// CanCancel разрешает отмену до начала работ.
func CanCancel(s OrderStatus) bool {
	switch s {
	case OrderStatusOpen, OrderStatusPending, OrderStatusAwaitingTechnicianResponse, OrderStatusAccepted:
		return true
	}
	return false
}

// CanReleaseFunds разрешает выплату технику только после сдачи работ.
func CanReleaseFunds(s OrderStatus) bool {
	return s == OrderStatusAwaitingRelease
}

// CanInitiateDispute разрешает спор только по сданной, но не оплаченной работе.
func CanInitiateDispute(s OrderStatus) bool {
	return s == OrderStatusAwaitingRelease
}

// CanSubmitOffer разрешает техникам откликаться на открытые заявки.
func CanSubmitOffer(s OrderStatus) bool {
	return s == OrderStatusOpen || s == OrderStatusPending
}

// CanAcceptOffer разрешает клиенту принять отклик, пока заказ ждёт согласования.
func CanAcceptOffer(s OrderStatus) bool {
	return s == OrderStatusPending || s == OrderStatusAwaitingTechnicianResponse
}

// CanConfirmEscrow разрешает клиенту подтвердить резервирование средств.
func CanConfirmEscrow(s OrderStatus) bool {
	return s == OrderStatusAwaitingClientEscrowConfirmation
}

// CanStartWork разрешает технику приступить к принятому заказу.
func CanStartWork(s OrderStatus) bool {
	return s == OrderStatusAccepted
}

// CanMarkDone разрешает технику сдать работу.
func CanMarkDone(s OrderStatus) bool {
	return s == OrderStatusInProgress
}

// CanEdit разрешает правку заказа, пока по нему нет исполнителя.
func CanEdit(s OrderStatus) bool {
	return s.IsAwaiting()
}

// GuardTransition возвращает ошибку TRANSITION_NOT_ALLOWED, если гард запрещает действие.
func GuardTransition(action string, status OrderStatus, allowed func(OrderStatus) bool) error {
	if allowed(status) {
		return nil
	}
	return apperror.New(apperror.ErrCodeTransitionNotAllowed,
		fmt.Sprintf("действие %q недоступно для заказа в статусе %s", action, status))
}

// CheckOfferConsistency проверяет согласованность статусов заказа и его предложения:
// принятое предложение не может висеть на заказе, который ещё ждёт согласования.
func CheckOfferConsistency(order OrderStatus, offer OfferStatus) error {
	if offer == OfferStatusAccepted && order.IsAwaiting() {
		return apperror.New(apperror.ErrCodeConflict,
			fmt.Sprintf("предложение принято, но заказ остался в статусе %s", order))
	}
	return nil
}
