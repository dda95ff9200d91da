package ws

import (
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/store/balance"
	"github.com/homefix/marketplace-client/internal/store/orders"
)

// Имена событий ленты.
const (
	EventOrders  = "orders"
	EventBalance = "balance"
	EventSession = "session"
)

// OrdersPayload событие стора заказов.
type OrdersPayload struct {
	Seq    uint64      `json:"seq"`
	Action string      `json:"action"`
	State  orders.View `json:"state"`
}

// BalancePayload событие стора балансов.
type BalancePayload struct {
	Seq    uint64        `json:"seq"`
	Action string        `json:"action"`
	State  balance.State `json:"state"`
}

// SessionPayload событие входа или выхода.
type SessionPayload struct {
	Authenticated bool   `json:"authenticated"`
	Notice        string `json:"notice,omitempty"`
}

// BindOrders транслирует события стора заказов в хаб. Возвращает функцию отписки.
func BindOrders(h *Hub, store *orders.Store) func() {
	return store.Subscribe(func(e orders.Event) {
		payload := OrdersPayload{Seq: e.Seq, Action: e.Action, State: e.State.View()}
		if err := h.Broadcast(EventOrders, payload); err != nil {
			logger.Log.WithError(err).Error("ws: не удалось отправить событие заказов")
		}
	})
}

// BindBalance транслирует события стора балансов в хаб.
func BindBalance(h *Hub, store *balance.Store) func() {
	return store.Subscribe(func(e balance.Event) {
		payload := BalancePayload{Seq: e.Seq, Action: e.Action, State: e.State}
		if err := h.Broadcast(EventBalance, payload); err != nil {
			logger.Log.WithError(err).Error("ws: не удалось отправить событие баланса")
		}
	})
}

// NotifySession сообщает представлениям о смене сессии.
func NotifySession(h *Hub, authenticated bool, notice string) {
	if err := h.Broadcast(EventSession, SessionPayload{Authenticated: authenticated, Notice: notice}); err != nil {
		logger.Log.WithError(err).Error("ws: не удалось отправить событие сессии")
	}
}
