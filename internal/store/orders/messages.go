package orders

import "github.com/homefix/marketplace-client/internal/domain/valueobject"

// Сообщения об успешных операциях. Обработчики берут их отсюда, а не из общего
// состояния стора, которое к моменту ответа мог перезаписать параллельный запрос.
const (
	MsgOrderCreated     = "Заказ успешно создан"
	MsgDirectOfferSent  = "Предложение отправлено технику"
	MsgOfferSubmitted   = "Предложение отправлено"
	MsgOfferAccepted    = "Предложение принято"
	MsgOfferRejected    = "Предложение отклонено"
	MsgOfferUpdated     = "Предложение обновлено"
	MsgOrderUpdated     = "Заказ обновлён"
	MsgOrderCancelled   = "Заказ отменён"
	MsgFundsReleased    = "Средства переведены технику"
	MsgEscrowConfirmed  = "Средства зарезервированы"
	MsgWorkStarted      = "Работа начата"
	MsgJobDone          = "Работа сдана"
	MsgDisputeInitiated = "Спор открыт"
	MsgDisputeResolved  = "Спор разрешён"
)

// RespondMessage сообщение об ответе техника на прямое предложение.
func RespondMessage(action valueobject.OfferAction) string {
	if action == valueobject.OfferActionAccept {
		return MsgOfferAccepted
	}
	return MsgOfferRejected
}
