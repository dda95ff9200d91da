package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/homefix/marketplace-client/internal/apiclient"
	"github.com/homefix/marketplace-client/internal/clientstate"
	"github.com/homefix/marketplace-client/internal/config"
	"github.com/homefix/marketplace-client/internal/db"
	"github.com/homefix/marketplace-client/internal/goroutine"
	httpHandlers "github.com/homefix/marketplace-client/internal/http/handlers"
	httpRouter "github.com/homefix/marketplace-client/internal/http/router"
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/store/balance"
	"github.com/homefix/marketplace-client/internal/store/orders"
	"github.com/homefix/marketplace-client/internal/viewscope"
	"github.com/homefix/marketplace-client/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.IsProduction() {
		logger.Init("info")
	} else {
		logger.Init("debug")
		logger.SetTextFormatter()
	}

	// Хранилище состояния клиента: файл профиля или общая база.
	var (
		dbConn  *sqlx.DB
		storage clientstate.Storage
	)
	switch cfg.ClientStateDriver {
	case config.ClientStatePostgres:
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}
		storage = clientstate.NewPostgresStorage(dbConn, cfg.ClientProfile)
	default:
		fileStorage, err := clientstate.NewFileStorage(cfg.ClientStatePath, cfg.ClientProfile, cfg.ClientStateSecret)
		if err != nil {
			log.Fatalf("main: не удалось открыть состояние клиента: %v", err)
		}
		storage = fileStorage
	}

	session, err := clientstate.NewSession(ctx, storage)
	if err != nil {
		log.Fatalf("main: не удалось загрузить сессию: %v", err)
	}

	// Клиент REST API и сторы.
	api := apiclient.NewClient(cfg.APIBaseURL, session,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithPageSize(cfg.OrdersPageSize),
		apiclient.WithSessionExpiredHandler(session.ForceLogout),
	)
	ordersStore := orders.NewStore(api)
	balanceStore := balance.NewStore(api)
	views := viewscope.NewRegistry(ctx)

	// Лента событий для представлений.
	hub := ws.NewHub(ctx)
	goroutine.SafeGo(hub.Run)
	defer ws.BindOrders(hub, ordersStore)()
	defer ws.BindBalance(hub, balanceStore)()

	// Выход закрывает представления и сбрасывает кэш предыдущего пользователя.
	session.OnChange(func(authenticated bool) {
		if !authenticated {
			views.CloseAll()
			ordersStore.Reset()
			balanceStore.Reset()
		}
		ws.NotifySession(hub, authenticated, session.Notice())
	})

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Session: httpHandlers.NewSessionHandler(session, api),
		View:    httpHandlers.NewViewHandler(views),
		State:   httpHandlers.NewStateHandler(ordersStore, balanceStore),
		Order:   httpHandlers.NewOrderHandler(ordersStore),
		Offer:   httpHandlers.NewOfferHandler(ordersStore, session),
		Dispute: httpHandlers.NewDisputeHandler(ordersStore),
		Payment: httpHandlers.NewPaymentHandler(balanceStore),
		Health:  httpHandlers.NewHealthHandler(dbConn),
		WS:      httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins),
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, handlers, session, views)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		<-ctx.Done()
		views.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	logger.Log.WithField("addr", cfg.HTTPAddr).WithField("api", cfg.APIBaseURL).Info("main: мост клиента запущен")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
