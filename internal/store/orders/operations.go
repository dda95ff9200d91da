package orders

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/models"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
	"github.com/homefix/marketplace-client/internal/validation"
)

const backgroundRefreshTimeout = 30 * time.Second

// run выполняет запрос и применяет результат, только если ctx ещё жив.
// Отменённый запрос не меняет кэш и не считается ошибкой перехода.
func run[T any](ctx context.Context, s *Store, op string, fields logrus.Fields,
	call func(context.Context) (T, error), toAction func(T) Action) (T, error) {
	var zero T
	log := logger.Log.WithFields(fields).WithField("op", op)

	s.Dispatch(RequestStarted{})
	result, err := call(ctx)

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.Dispatch(RequestAborted{})
		log.Debug("orders: представление закрыто, результат отброшен")
		return zero, ctxErr
	}
	if err != nil {
		log.WithError(err).Warn("orders: переход не выполнен")
		s.Dispatch(RequestFailed{Err: NewStoreError(err)})
		return zero, err
	}

	s.Dispatch(toAction(result))
	return result, nil
}

// guard проверяет переход по кэшу. Заказ, которого нет в кэше, проверяет сервер.
func (s *Store) guard(op string, orderID int64, allowed func(valueobject.OrderStatus) bool) error {
	status, ok := s.State().OrderStatus(orderID)
	if !ok {
		return nil
	}
	if err := valueobject.GuardTransition(op, status, allowed); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"op":       op,
			"order_id": orderID,
			"status":   status,
		}).Warn("orders: переход запрещён гардом")
		return err
	}
	return nil
}

// guardPendingOffer запрещает менять уже принятое или отклонённое предложение.
func (s *Store) guardPendingOffer(op string, offerID int64) error {
	offer, ok := s.State().Offers[offerID]
	if !ok || offer.Status == valueobject.OfferStatusPending {
		return nil
	}
	logger.Log.WithFields(logrus.Fields{
		"op":       op,
		"offer_id": offerID,
		"status":   offer.Status,
	}).Warn("orders: предложение уже обработано")
	return apperror.New(apperror.ErrCodeTransitionNotAllowed, "предложение уже обработано")
}

// refetchOrder дозапрашивает заказ, когда ответ перехода его не содержит.
// Ошибка не прерывает переход: кэш обновится при следующей загрузке.
func (s *Store) refetchOrder(ctx context.Context, orderID int64) *models.Order {
	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		logger.Log.WithError(err).WithField("order_id", orderID).Warn("orders: не удалось обновить заказ после перехода")
		return nil
	}
	return order
}

// refreshClientOrders перезагружает список клиента в фоне, независимо от закрытия представления.
func (s *Store) refreshClientOrders(ctx context.Context) {
	parent := context.WithoutCancel(ctx)
	s.background(func() {
		ctx, cancel := context.WithTimeout(parent, backgroundRefreshTimeout)
		defer cancel()

		list, err := s.api.ListClientOrders(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("orders: фоновое обновление заказов клиента не удалось")
			return
		}
		s.Dispatch(ClientOrdersRefreshed{Orders: list})
	})
}

// CreateOrder создаёт открытую заявку и добавляет её в список клиента.
func (s *Store) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	if req.OrderType == "" {
		req.OrderType = valueobject.OrderTypeServiceRequest
	}
	if !req.OrderType.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип заказа")
	}
	if req.ExpectedPrice != nil && !req.ExpectedPrice.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "ожидаемая цена должна быть больше нуля")
	}
	if err := validation.ValidateOrderText(req.ProblemDescription, req.RequestedLocation); err != nil {
		return nil, err
	}

	return run(ctx, s, "createOrder", logrus.Fields{"order_type": req.OrderType},
		func(ctx context.Context) (*models.Order, error) {
			return s.api.CreateOrder(ctx, req)
		},
		func(order *models.Order) Action {
			return OrderCreated{Order: *order, Message: MsgOrderCreated}
		})
}

// MakeDirectOffer создаёт заказ прямого найма с предложением конкретному технику.
func (s *Store) MakeDirectOffer(ctx context.Context, req dto.DirectOfferRequest) (*models.Order, error) {
	if req.TechnicianID <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "не выбран техник")
	}
	if !req.OfferedPrice.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена предложения должна быть больше нуля")
	}
	if err := validation.ValidateOrderText(req.ProblemDescription, req.RequestedLocation); err != nil {
		return nil, err
	}
	if err := validation.ValidateOfferDescription(req.OfferDescription); err != nil {
		return nil, err
	}

	return run(ctx, s, "makeDirectOffer", logrus.Fields{"technician_id": req.TechnicianID},
		func(ctx context.Context) (*models.Order, error) {
			return s.api.CreateDirectOffer(ctx, req)
		},
		func(order *models.Order) Action {
			return OrderCreated{Order: *order, Message: MsgDirectOfferSent}
		})
}

// FetchClientOrders заменяет список заказов клиента первой страницей с сервера.
func (s *Store) FetchClientOrders(ctx context.Context) ([]models.Order, error) {
	return run(ctx, s, "fetchClientOrders", nil, s.api.ListClientOrders,
		func(list []models.Order) Action { return ClientOrdersLoaded{Orders: list} })
}

func (s *Store) FetchAvailableOrders(ctx context.Context) ([]models.Order, error) {
	return run(ctx, s, "fetchAvailableOrders", nil, s.api.ListAvailableOrders,
		func(list []models.Order) Action { return AvailableOrdersLoaded{Orders: list} })
}

func (s *Store) FetchTechnicianOrders(ctx context.Context) ([]models.Order, error) {
	return run(ctx, s, "fetchTechnicianOrders", nil, s.api.ListTechnicianOrders,
		func(list []models.Order) Action { return TechnicianOrdersLoaded{Orders: list} })
}

func (s *Store) FetchTechnicianClientOffers(ctx context.Context) ([]models.ProjectOffer, error) {
	return run(ctx, s, "fetchTechnicianClientOffers", nil, s.api.ListTechnicianClientOffers,
		func(list []models.ProjectOffer) Action { return TechnicianClientOffersLoaded{Offers: list} })
}

// FetchSingleOrder загружает заказ в слот просмотра.
func (s *Store) FetchSingleOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return run(ctx, s, "fetchSingleOrder", logrus.Fields{"order_id": orderID},
		func(ctx context.Context) (*models.Order, error) {
			return s.api.GetOrder(ctx, orderID)
		},
		func(order *models.Order) Action { return CurrentOrderLoaded{Order: *order} })
}

// FetchPublicOrderDetail загружает публичную карточку заказа в слот просмотра.
func (s *Store) FetchPublicOrderDetail(ctx context.Context, orderID int64) (*models.Order, error) {
	return run(ctx, s, "fetchPublicOrderDetail", logrus.Fields{"order_id": orderID},
		func(ctx context.Context) (*models.Order, error) {
			return s.api.GetPublicOrder(ctx, orderID)
		},
		func(order *models.Order) Action { return CurrentOrderLoaded{Order: *order} })
}

// SubmitOffer отправляет отклик техника на заявку.
func (s *Store) SubmitOffer(ctx context.Context, orderID int64, req dto.SubmitOfferRequest) (*models.ProjectOffer, error) {
	if !req.OfferedPrice.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена предложения должна быть больше нуля")
	}
	if err := validation.ValidateOfferDescription(req.OfferDescription); err != nil {
		return nil, err
	}
	if err := s.guard("submitOffer", orderID, valueobject.CanSubmitOffer); err != nil {
		return nil, err
	}

	var order *models.Order
	offer, err := run(ctx, s, "submitOffer", logrus.Fields{"order_id": orderID},
		func(ctx context.Context) (*models.ProjectOffer, error) {
			offer, err := s.api.SubmitOffer(ctx, orderID, req)
			if err != nil {
				return nil, err
			}
			if offer.OrderID == 0 {
				offer.OrderID = orderID
			}
			if offer.OrderDetail == nil {
				order = s.refetchOrder(ctx, orderID)
			}
			return offer, nil
		},
		func(offer *models.ProjectOffer) Action {
			return OfferSaved{Offer: *offer, Order: order, Message: MsgOfferSubmitted}
		})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// AcceptOffer принимает предложение. Если заказа нет в списке клиента, кэш сущности
// всё равно обновляется, а список перезагружается в фоне.
func (s *Store) AcceptOffer(ctx context.Context, orderID, offerID int64) (*models.Order, error) {
	if err := s.guard("acceptOffer", orderID, valueobject.CanAcceptOffer); err != nil {
		return nil, err
	}
	if err := s.guardPendingOffer("acceptOffer", offerID); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"order_id": orderID, "offer_id": offerID}
	order, err := run(ctx, s, "acceptOffer", fields,
		func(ctx context.Context) (*models.Order, error) {
			order, err := s.api.AcceptOffer(ctx, orderID, offerID)
			if err != nil {
				return nil, err
			}
			return s.reconcileAccepted(ctx, order, offerID), nil
		},
		func(order *models.Order) Action {
			return OrderSaved{Order: *order, Message: MsgOfferAccepted}
		})
	if err != nil {
		return nil, err
	}

	if !slices.Contains(s.State().ClientOrders, order.ID) {
		logger.Log.WithFields(fields).Warn("orders: принятый заказ не найден в списке клиента, обновляем список")
		s.refreshClientOrders(ctx)
	}
	return order, nil
}

// reconcileAccepted проверяет, что ответ сервера согласован: принятое предложение
// и заказ вне статусов ожидания. Иначе перечитывает заказ.
func (s *Store) reconcileAccepted(ctx context.Context, order *models.Order, offerID int64) *models.Order {
	offer := findOffer(order, offerID)
	if offer == nil {
		return order
	}
	if err := valueobject.CheckOfferConsistency(order.OrderStatus, offer.Status); err != nil {
		logger.Log.WithError(err).WithField("order_id", order.ID).Warn("orders: несогласованный ответ, перечитываем заказ")
		if fresh := s.refetchOrder(ctx, order.ID); fresh != nil {
			return fresh
		}
	}
	return order
}

func findOffer(order *models.Order, offerID int64) *models.ProjectOffer {
	if order.AssociatedOffer != nil && order.AssociatedOffer.ID == offerID {
		return order.AssociatedOffer
	}
	for i := range order.ProjectOffers {
		if order.ProjectOffers[i].ID == offerID {
			return &order.ProjectOffers[i]
		}
	}
	return nil
}

// UpdateClientOffer правит предложение. Изменение видно в заказе и в слоте просмотра.
func (s *Store) UpdateClientOffer(ctx context.Context, offerID int64, req dto.UpdateOfferRequest) (*models.ProjectOffer, error) {
	if req.OfferedPrice != nil && !req.OfferedPrice.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена предложения должна быть больше нуля")
	}
	if req.OfferDescription != nil {
		if err := validation.ValidateOfferDescription(*req.OfferDescription); err != nil {
			return nil, err
		}
	}
	if err := s.guardPendingOffer("updateClientOffer", offerID); err != nil {
		return nil, err
	}

	return run(ctx, s, "updateClientOffer", logrus.Fields{"offer_id": offerID},
		func(ctx context.Context) (*models.ProjectOffer, error) {
			return s.api.UpdateOffer(ctx, offerID, req)
		},
		func(offer *models.ProjectOffer) Action {
			return OfferSaved{Offer: *offer, Message: MsgOfferUpdated}
		})
}

// UpdateOrder правит заказ, пока по нему нет исполнителя.
func (s *Store) UpdateOrder(ctx context.Context, orderID int64, req dto.UpdateOrderRequest) (*models.Order, error) {
	return s.transition(ctx, "updateOrder", orderID, valueobject.CanEdit, MsgOrderUpdated,
		func(ctx context.Context) (*models.Order, error) {
			return s.api.UpdateOrder(ctx, orderID, req)
		})
}

// CancelOrder отменяет заказ до начала работ.
func (s *Store) CancelOrder(ctx context.Context, orderID int64, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if err := validation.ValidateCancellationReason(reason); err != nil {
		return nil, err
	}
	return s.transition(ctx, "cancelOrder", orderID, valueobject.CanCancel, MsgOrderCancelled,
		func(ctx context.Context) (*models.Order, error) {
			return s.api.CancelOrder(ctx, orderID, reason)
		})
}

// ReleaseFunds выплачивает технику средства после сдачи работы.
func (s *Store) ReleaseFunds(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.transition(ctx, "releaseFunds", orderID, valueobject.CanReleaseFunds, MsgFundsReleased,
		func(ctx context.Context) (*models.Order, error) {
			return s.api.ReleaseFunds(ctx, orderID)
		})
}

func (s *Store) ConfirmEscrow(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.transition(ctx, "confirmEscrow", orderID, valueobject.CanConfirmEscrow, MsgEscrowConfirmed,
		func(ctx context.Context) (*models.Order, error) {
			return s.api.ConfirmEscrow(ctx, orderID)
		})
}

func (s *Store) StartWork(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.transition(ctx, "startWork", orderID, valueobject.CanStartWork, MsgWorkStarted,
		func(ctx context.Context) (*models.Order, error) {
			return s.api.StartWork(ctx, orderID)
		})
}

func (s *Store) MarkJobDone(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.transition(ctx, "markJobDone", orderID, valueobject.CanMarkDone, MsgJobDone,
		func(ctx context.Context) (*models.Order, error) {
			return s.api.MarkJobDone(ctx, orderID)
		})
}

func (s *Store) transition(ctx context.Context, op string, orderID int64, allowed func(valueobject.OrderStatus) bool,
	message string, call func(context.Context) (*models.Order, error)) (*models.Order, error) {
	if err := s.guard(op, orderID, allowed); err != nil {
		return nil, err
	}
	return run(ctx, s, op, logrus.Fields{"order_id": orderID}, call,
		func(order *models.Order) Action {
			return OrderSaved{Order: *order, Message: message}
		})
}

// InitiateDispute открывает спор по сданной работе.
func (s *Store) InitiateDispute(ctx context.Context, orderID int64, argument string) (*models.Dispute, error) {
	argument = strings.TrimSpace(argument)
	if err := validation.ValidateDisputeArgument(argument); err != nil {
		return nil, err
	}
	if err := s.guard("initiateDispute", orderID, valueobject.CanInitiateDispute); err != nil {
		return nil, err
	}

	resp, err := run(ctx, s, "initiateDispute", logrus.Fields{"order_id": orderID},
		func(ctx context.Context) (*dto.DisputeResponse, error) {
			resp, err := s.api.InitiateDispute(ctx, orderID, argument)
			if err != nil {
				return nil, err
			}
			if resp.Order == nil {
				resp.Order = s.refetchOrder(ctx, orderID)
			}
			return resp, nil
		},
		func(resp *dto.DisputeResponse) Action {
			return DisputeSaved{Dispute: resp.Dispute, Order: resp.Order, Message: MsgDisputeInitiated}
		})
	if err != nil {
		return nil, err
	}
	return &resp.Dispute, nil
}

// FetchDispute загружает спор в слот просмотра.
func (s *Store) FetchDispute(ctx context.Context, disputeID int64) (*models.Dispute, error) {
	return run(ctx, s, "fetchDispute", logrus.Fields{"dispute_id": disputeID},
		func(ctx context.Context) (*models.Dispute, error) {
			return s.api.GetDispute(ctx, disputeID)
		},
		func(dispute *models.Dispute) Action { return DisputeSaved{Dispute: *dispute} })
}

// ResolveDispute выносит решение администратора. Новый статус заказа берётся
// из ответа сервера, а не вычисляется по решению.
func (s *Store) ResolveDispute(ctx context.Context, disputeID int64, resolution valueobject.DisputeResolution, adminNotes string) (*models.Dispute, error) {
	if !resolution.IsValid() {
		return nil, apperror.ErrInvalidResolution
	}
	adminNotes = strings.TrimSpace(adminNotes)
	if err := validation.ValidateAdminNotes(adminNotes); err != nil {
		return nil, err
	}
	if cached, ok := s.State().Disputes[disputeID]; ok && cached.Status == valueobject.DisputeStatusResolved {
		return nil, apperror.New(apperror.ErrCodeTransitionNotAllowed, "спор уже разрешён")
	}

	fields := logrus.Fields{"dispute_id": disputeID, "resolution": resolution}
	req := dto.ResolveDisputeRequest{Resolution: resolution, AdminNotes: adminNotes}
	resp, err := run(ctx, s, "resolveDispute", fields,
		func(ctx context.Context) (*dto.DisputeResponse, error) {
			resp, err := s.api.ResolveDispute(ctx, disputeID, req)
			if err != nil {
				return nil, err
			}
			if resp.Order == nil && resp.Dispute.OrderID != 0 {
				resp.Order = s.refetchOrder(ctx, resp.Dispute.OrderID)
			}
			if resp.Order != nil && resp.Order.OrderStatus != resolution.ResultingOrderStatus() {
				logger.Log.WithFields(fields).WithField("status", resp.Order.OrderStatus).
					Warn("orders: статус заказа после решения спора отличается от ожидаемого")
			}
			return resp, nil
		},
		func(resp *dto.DisputeResponse) Action {
			return DisputeSaved{Dispute: resp.Dispute, Order: resp.Order, Message: MsgDisputeResolved}
		})
	if err != nil {
		return nil, err
	}
	return &resp.Dispute, nil
}

// RespondToClientOffer принимает или отклоняет прямое предложение клиента.
func (s *Store) RespondToClientOffer(ctx context.Context, technicianID, offerID int64, action valueobject.OfferAction, rejectionReason string) (*models.ProjectOffer, error) {
	if !action.IsValid() {
		return nil, apperror.ErrInvalidOfferAction
	}
	if err := s.guardPendingOffer("respondToClientOffer", offerID); err != nil {
		return nil, err
	}

	req := dto.RespondToOfferRequest{Action: action}
	if action == valueobject.OfferActionReject {
		req.RejectionReason = strings.TrimSpace(rejectionReason)
	}

	var order *models.Order
	message := RespondMessage(action)

	fields := logrus.Fields{"offer_id": offerID, "technician_id": technicianID, "action": action}
	return run(ctx, s, "respondToClientOffer", fields,
		func(ctx context.Context) (*models.ProjectOffer, error) {
			offer, err := s.api.RespondToClientOffer(ctx, technicianID, offerID, req)
			if err != nil {
				return nil, err
			}
			if offer.OrderDetail == nil && offer.OrderID != 0 && action == valueobject.OfferActionAccept {
				order = s.refetchOrder(ctx, offer.OrderID)
			}
			return offer, nil
		},
		func(offer *models.ProjectOffer) Action {
			return OfferSaved{Offer: *offer, Order: order, Message: message}
		})
}
