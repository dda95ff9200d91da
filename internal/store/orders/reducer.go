package orders

import (
	"maps"
	"slices"

	"github.com/homefix/marketplace-client/internal/models"
)

// Reduce чистая функция перехода состояния. Входное состояние не изменяется.
func Reduce(s State, a Action) State {
	d := &draft{State: s}

	switch a := a.(type) {
	case RequestStarted:
		d.InFlight++
	case RequestAborted:
	case RequestFailed:
		d.Error = a.Err
		d.Message = ""
	case ClientOrdersLoaded:
		d.ClientOrders = d.putOrders(a.Orders)
		d.succeed("")
	case AvailableOrdersLoaded:
		d.AvailableOrders = d.putOrders(a.Orders)
		d.succeed("")
	case TechnicianOrdersLoaded:
		d.TechnicianOrders = d.putOrders(a.Orders)
		d.succeed("")
	case TechnicianClientOffersLoaded:
		ids := make([]int64, 0, len(a.Offers))
		for _, offer := range a.Offers {
			d.putOffer(offer)
			ids = append(ids, offer.ID)
		}
		d.TechnicianClientOffers = ids
		d.succeed("")
	case OrderCreated:
		d.putOrder(a.Order)
		if !slices.Contains(d.ClientOrders, a.Order.ID) {
			d.ClientOrders = append(slices.Clone(d.ClientOrders), a.Order.ID)
		}
		d.succeed(a.Message)
	case CurrentOrderLoaded:
		d.putOrder(a.Order)
		d.CurrentOrderID = a.Order.ID
		d.succeed("")
	case OrderSaved:
		d.putOrder(a.Order)
		d.succeed(a.Message)
	case OfferSaved:
		if a.Order != nil {
			d.putOrder(*a.Order)
		}
		d.putOffer(a.Offer)
		d.succeed(a.Message)
	case DisputeSaved:
		if a.Order != nil {
			d.putOrder(*a.Order)
		}
		d.disputes()[a.Dispute.ID] = a.Dispute
		d.CurrentDisputeID = a.Dispute.ID
		d.succeed(a.Message)
	case ClientOrdersRefreshed:
		d.ClientOrders = d.putOrders(a.Orders)
	case CurrentOrderCleared:
		d.CurrentOrderID = 0
	case ErrorCleared:
		d.Error = nil
	case MessageCleared:
		d.Message = ""
	case Reset:
		return NewState()
	}

	if _, ok := a.(settler); ok && d.InFlight > 0 {
		d.InFlight--
	}
	d.Loading = d.InFlight > 0
	return d.State
}

// draft копирует таблицы при первой записи в них.
type draft struct {
	State
	ordersCopied   bool
	offersCopied   bool
	disputesCopied bool
}

func (d *draft) succeed(message string) {
	d.Error = nil
	d.Message = message
}

func (d *draft) orders() map[int64]OrderRecord {
	if !d.ordersCopied {
		d.Orders = cloneTable(d.Orders)
		d.ordersCopied = true
	}
	return d.Orders
}

func (d *draft) offers() map[int64]models.ProjectOffer {
	if !d.offersCopied {
		d.Offers = cloneTable(d.Offers)
		d.offersCopied = true
	}
	return d.Offers
}

func (d *draft) disputes() map[int64]models.Dispute {
	if !d.disputesCopied {
		d.Disputes = cloneTable(d.Disputes)
		d.disputesCopied = true
	}
	return d.Disputes
}

func cloneTable[V any](m map[int64]V) map[int64]V {
	if m == nil {
		return map[int64]V{}
	}
	return maps.Clone(m)
}

func (d *draft) putOrders(list []models.Order) []int64 {
	ids := make([]int64, 0, len(list))
	for _, order := range list {
		d.putOrder(order)
		ids = append(ids, order.ID)
	}
	return ids
}

// putOrder заменяет заказ версией сервера. Вложенные предложения переносятся в таблицу
// Offers. Если сервер не прислал предложения, сохраняются уже известные ссылки.
func (d *draft) putOrder(order models.Order) {
	prev, known := d.Orders[order.ID]

	rec := OrderRecord{Order: order}
	rec.Order.ProjectOffers = nil
	rec.Order.AssociatedOffer = nil

	if order.ProjectOffers != nil {
		rec.OfferIDs = make([]int64, 0, len(order.ProjectOffers))
		for _, offer := range order.ProjectOffers {
			if offer.OrderID == 0 {
				offer.OrderID = order.ID
			}
			d.storeOffer(offer)
			rec.OfferIDs = append(rec.OfferIDs, offer.ID)
		}
	} else if known {
		rec.OfferIDs = prev.OfferIDs
	}

	if order.AssociatedOffer != nil {
		offer := *order.AssociatedOffer
		if offer.OrderID == 0 {
			offer.OrderID = order.ID
		}
		d.storeOffer(offer)
		rec.AssociatedOfferID = offer.ID
		if !slices.Contains(rec.OfferIDs, offer.ID) {
			rec.OfferIDs = append(slices.Clone(rec.OfferIDs), offer.ID)
		}
	} else if known {
		rec.AssociatedOfferID = prev.AssociatedOfferID
	}

	d.orders()[order.ID] = rec
}

// putOffer сохраняет предложение и привязывает его к родительскому заказу из кэша.
func (d *draft) putOffer(offer models.ProjectOffer) {
	if offer.OrderDetail != nil {
		if offer.OrderID == 0 {
			offer.OrderID = offer.OrderDetail.ID
		}
		d.putOrder(*offer.OrderDetail)
	}
	d.storeOffer(offer)

	rec, ok := d.Orders[offer.OrderID]
	if !ok || slices.Contains(rec.OfferIDs, offer.ID) {
		return
	}
	rec.OfferIDs = append(slices.Clone(rec.OfferIDs), offer.ID)
	d.orders()[offer.OrderID] = rec
}

func (d *draft) storeOffer(offer models.ProjectOffer) {
	offer.OrderDetail = nil
	d.offers()[offer.ID] = offer
}
