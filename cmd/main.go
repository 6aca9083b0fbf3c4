package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/cancel_booking"
	commitBookingHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/commit_booking"
	deleteZoneHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/delete_zone"
	getAvailableSlotsHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/get_available_slots"
	getSettingsHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/get_settings"
	listBookingsHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/list_bookings"
	listZonesHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/list_zones"
	saveSettingsHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/save_settings"
	saveZoneHandler "github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers/save_zone"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/config"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/cache"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/events"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/infra/storage"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings"
	settingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings"
	zonesService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones"
	commitBookingUC "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/commit_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/logger"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/metrics"
)

// availabilityCache кэш доступности; nil, если redis выключен
type availabilityCache interface {
	Get(ctx context.Context, shop string, now time.Time) (domain.AvailabilityView, int64, bool, error)
	Set(ctx context.Context, shop string, version int64, now time.Time, view domain.AvailabilityView) error
	Invalidate(ctx context.Context, shop string) error
}

// bookingEvents публикатор событий; nil, если rabbitmq выключен
type bookingEvents interface {
	BookingCommitted(ctx context.Context, record *domain.BookingRecord) error
	BookingCancelled(ctx context.Context, records []*domain.BookingRecord) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-DeliveryScheduler...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	ctx := context.Background()

	// Подключаемся к хранилищу (postgres или mongo)
	store, err := storage.Open(ctx, cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to open storage (driver=%s): %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	// Кэш доступности в redis (опционально)
	var viewCache availabilityCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable at %s, availability cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			viewCache = cache.NewAvailabilityCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
			log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
		}
	}

	// События бронирований в rabbitmq (опционально)
	var publisher bookingEvents
	if cfg.RabbitMQ.Enabled {
		conn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			log.Fatal("Failed to open rabbitmq channel: %v", err)
		}
		defer ch.Close()

		p, err := events.NewPublisher(ch, cfg.RabbitMQ.Exchange, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
		if err != nil {
			log.Fatal("Failed to set up booking events: %v", err)
		}
		publisher = p
		log.Info("Booking events enabled (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	// Движок доступности
	defaultLocation, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid default timezone: %v", err)
	}
	engine := availability.NewEngine(defaultLocation)

	// Инициализируем сервисы
	settingsValidator, err := settingsService.NewValidator()
	if err != nil {
		log.Fatal("Failed to initialize settings validator: %v", err)
	}
	settingsSvc := settingsService.NewService(store.Settings, settingsValidator, viewCache, log)
	bookingsSvc := bookingsService.NewService(store.Ledger, viewCache, publisher, log)
	zonesSvc := zonesService.NewService(store.Zones, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.Settings,
		store.Ledger,
		engine,
		viewCache,
		metricsCollector,
		log,
	)
	commitBookingUseCase := commitBookingUC.NewUseCase(
		store.Settings,
		store.Ledger,
		engine,
		store.Tx,
		viewCache,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	commitBooking := commitBookingHandler.NewHandler(commitBookingUseCase, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	saveSettings := saveSettingsHandler.NewHandler(settingsSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingsSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingsSvc, log)
	listZones := listZonesHandler.NewHandler(zonesSvc, log)
	saveZone := saveZoneHandler.NewHandler(zonesSvc, log)
	deleteZone := deleteZoneHandler.NewHandler(zonesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// STOREFRONT ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	stopLimiterCh := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.Storefront.RateLimitRPS, cfg.Storefront.RateLimitBurst, 10*time.Minute)
	if err := limiter.TrustProxies(cfg.Storefront.TrustedProxies); err != nil {
		log.Fatal("Failed to configure rate limiter: %v", err)
	}
	go limiter.Run(time.Minute, stopLimiterCh)

	storefront := api.PathPrefix("/storefront").Subrouter()
	storefront.Use(limiter.Middleware)

	// Доступные слоты на 7 дней
	storefront.HandleFunc("/slots", getAvailableSlots.HandleStorefront).Methods(http.MethodGet)

	// Фиксация слота при оформлении заказа
	storefront.HandleFunc("/bookings", commitBooking.Handle).Methods(http.MethodPost)

	// Зоны доставки
	storefront.HandleFunc("/zones", listZones.HandleStorefront).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (сессионный токен админки магазина)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(middleware.AuthConfig{
		Enabled:  cfg.Auth.Enabled,
		Secret:   cfg.Auth.Secret,
		Audience: cfg.Auth.Audience,
		Leeway:   time.Duration(cfg.Auth.Leeway) * time.Second,
	}, log))
	if !cfg.Auth.Enabled {
		log.Warn("Admin authentication is disabled, shop is taken from %s header", middleware.ShopHeader)
	}

	// --- Настройки доставки ---
	admin.HandleFunc("/delivery/settings", getSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/delivery/settings", saveSettings.Handle).Methods(http.MethodPost)

	// Предпросмотр доступности
	admin.HandleFunc("/delivery/slots", getAvailableSlots.HandleAdmin).Methods(http.MethodPost)

	// --- Журнал бронирований ---
	admin.HandleFunc("/delivery/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/delivery/bookings/{orderId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Зоны доставки ---
	admin.HandleFunc("/zones", listZones.HandleAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/zones", saveZone.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/zones/{id}", deleteZone.Handle).Methods(http.MethodDelete)

	// CORS для запросов с витрины
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Storefront.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.ShopHeader},
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	close(stopLimiterCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
