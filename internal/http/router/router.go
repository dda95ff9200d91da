package router

import (
	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/config"
	"github.com/homefix/marketplace-client/internal/http/handlers"
	"github.com/homefix/marketplace-client/internal/http/middleware"
	"github.com/homefix/marketplace-client/internal/viewscope"
)

// Handlers набор хэндлеров моста.
type Handlers struct {
	Session *handlers.SessionHandler
	View    *handlers.ViewHandler
	State   *handlers.StateHandler
	Order   *handlers.OrderHandler
	Offer   *handlers.OfferHandler
	Dispute *handlers.DisputeHandler
	Payment *handlers.PaymentHandler
	Health  *handlers.HealthHandler
	WS      *handlers.WSHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	session middleware.SessionReader,
	views *viewscope.Registry,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	api.GET("/session", h.Session.Get)
	api.POST("/session", h.Session.Login)
	api.DELETE("/session", h.Session.Logout)
	api.DELETE("/session/notice", h.Session.ClearNotice)

	api.POST("/views", h.View.Open)
	api.DELETE("/views/:viewId", h.View.Close)

	api.GET("/state", h.State.Get)
	api.DELETE("/state/error", h.State.ClearError)
	api.DELETE("/state/message", h.State.ClearMessage)

	api.GET("/ws", h.WS.Handle)

	// Публичная карточка заказа доступна без входа
	api.GET("/orders/:id/public", middleware.IDValidator("id"), middleware.ViewScope(views), h.Order.GetPublicOrder)

	// Переходы сторов: привязаны к представлению и требуют сессии
	protected := api.Group("/")
	protected.Use(middleware.RequireSession(session))
	protected.Use(middleware.ViewScope(views))
	{
		protected.GET("/orders/client", h.Order.ListClientOrders)
		protected.GET("/orders/available", h.Order.ListAvailableOrders)
		protected.GET("/orders/technician", h.Order.ListTechnicianOrders)
		protected.POST("/orders", h.Order.CreateOrder)
		protected.POST("/orders/direct-hire", h.Order.MakeDirectOffer)
		protected.DELETE("/orders/current", h.Order.ClearCurrentOrder)

		order := protected.Group("/orders/:id")
		order.Use(middleware.IDValidator("id"))
		{
			order.GET("", h.Order.GetOrder)
			order.PATCH("", h.Order.UpdateOrder)
			order.POST("/offers", h.Order.SubmitOffer)
			order.POST("/offers/:offerId/accept", middleware.IDValidator("offerId"), h.Order.AcceptOffer)
			order.POST("/cancel", h.Order.CancelOrder)
			order.POST("/release-funds", h.Order.ReleaseFunds)
			order.POST("/confirm-escrow", h.Order.ConfirmEscrow)
			order.POST("/start-work", h.Order.StartWork)
			order.POST("/mark-done", h.Order.MarkJobDone)
			order.POST("/dispute", h.Dispute.InitiateDispute)
		}

		protected.GET("/technician/client-offers", h.Offer.ListTechnicianClientOffers)
		protected.PATCH("/offers/:offerId", middleware.IDValidator("offerId"), h.Offer.UpdateOffer)
		protected.POST("/offers/:offerId/respond", middleware.IDValidator("offerId"), h.Offer.RespondToOffer)

		protected.GET("/disputes/:id", middleware.IDValidator("id"), h.Dispute.GetDispute)
		protected.POST("/disputes/:id/resolve", middleware.IDValidator("id"), middleware.RequireAdmin(session), h.Dispute.ResolveDispute)

		protected.GET("/balance", h.Payment.GetBalance)
		protected.POST("/balance/transfer", h.Payment.TransferPending)
		protected.GET("/transactions", h.Payment.ListTransactions)
		protected.GET("/transactions/export", h.Payment.ExportTransactions)
	}

	return r
}
