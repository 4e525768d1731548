package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/cancel_reservation"
	createMaintenanceBlockHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/create_maintenance_block"
	createReservationHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/create_reservation"
	deleteMaintenanceBlockHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/delete_maintenance_block"
	getAvailableSlotsHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/get_user_reservations"
	listMaintenanceBlocksHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/list_maintenance_blocks"
	overrideReservationStatusHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/override_reservation_status"
	processPaymentHandler "github.com/m04kA/Arena-BookingService/internal/api/handlers/process_payment"
	"github.com/m04kA/Arena-BookingService/internal/api/middleware"
	"github.com/m04kA/Arena-BookingService/internal/config"
	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/infra/cache"
	"github.com/m04kA/Arena-BookingService/internal/infra/events"
	auditRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/audit"
	coachRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/coach"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	equipmentRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/equipment"
	maintenanceRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/maintenance"
	pricingRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/pricing"
	profileRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/profile"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
	availabilityService "github.com/m04kA/Arena-BookingService/internal/service/availability"
	maintenanceService "github.com/m04kA/Arena-BookingService/internal/service/maintenance"
	reservationsService "github.com/m04kA/Arena-BookingService/internal/service/reservations"
	cancelReservationUC "github.com/m04kA/Arena-BookingService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/Arena-BookingService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/Arena-BookingService/internal/usecase/get_available_slots"
	processPaymentUC "github.com/m04kA/Arena-BookingService/internal/usecase/process_payment"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/logger"
	"github.com/m04kA/Arena-BookingService/pkg/metrics"
	"github.com/m04kA/Arena-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/Arena-BookingService/pkg/txmanager"
)

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

	log.Info("Starting Arena-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Симулируемый платежный шлюз
	payClient := paygateway.NewClient(cfg.Payments.DeclineMethods, log)
	log.Info("Payment gateway initialized (decline_methods=%v)", cfg.Payments.DeclineMethods)

	// Издатель событий (если включен). Широкие интерфейсы нужны, чтобы
	// выключенная подсистема оставалась nil-интерфейсом в usecases.
	type eventPublisher interface {
		PublishReservationConfirmed(ctx context.Context, event events.ReservationConfirmed) error
		PublishReservationCancelled(ctx context.Context, event events.ReservationCancelled) error
	}
	var eventPub eventPublisher

	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer pub.Close()
		eventPub = pub
		log.Info("Event publisher connected (exchange=%s)", cfg.Events.Exchange)
	}

	// Кеш сеток слотов (если включен)
	type slotsCache interface {
		Get(ctx context.Context, courtID int64, date time.Time) ([]domain.Slot, bool)
		Set(ctx context.Context, courtID int64, date time.Time, slots []domain.Slot)
		Invalidate(ctx context.Context, courtID int64, date time.Time)
	}
	var slotsCacheClient slotsCache

	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer rdb.Close()
		slotsCacheClient = cache.NewSlotsCache(rdb, time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
		log.Info("Slots cache connected (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		courtRepository       *courtRepo.Repository
		coachRepository       *coachRepo.Repository
		equipmentRepository   *equipmentRepo.Repository
		pricingRepository     *pricingRepo.Repository
		maintenanceRepository *maintenanceRepo.Repository
		profileRepository     *profileRepo.Repository
		auditRepository       *auditRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		courtRepository = courtRepo.NewRepository(wrappedDB)
		coachRepository = coachRepo.NewRepository(wrappedDB)
		equipmentRepository = equipmentRepo.NewRepository(wrappedDB)
		pricingRepository = pricingRepo.NewRepository(wrappedDB)
		maintenanceRepository = maintenanceRepo.NewRepository(wrappedDB)
		profileRepository = profileRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		courtRepository = courtRepo.NewRepository(db)
		coachRepository = coachRepo.NewRepository(db)
		equipmentRepository = equipmentRepo.NewRepository(db)
		pricingRepository = pricingRepo.NewRepository(db)
		maintenanceRepository = maintenanceRepo.NewRepository(db)
		profileRepository = profileRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		courtRepository,
		coachRepository,
		equipmentRepository,
		reservationRepository,
		maintenanceRepository,
		log,
	)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		auditRepository,
		txMgr,
		log,
	)
	maintenanceSvc := maintenanceService.NewService(
		maintenanceRepository,
		courtRepository,
		reservationRepository,
		txMgr,
		slotsCacheClient,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		availabilitySvc,
		reservationRepository,
		equipmentRepository,
		pricingRepository,
		profileRepository,
		payClient,
		txMgr,
		eventPub,
		slotsCacheClient,
		log,
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		equipmentRepository,
		profileRepository,
		payClient,
		txMgr,
		eventPub,
		slotsCacheClient,
		log,
	)

	processPaymentUseCase := processPaymentUC.NewUseCase(
		reservationRepository,
		equipmentRepository,
		profileRepository,
		payClient,
		txMgr,
		eventPub,
		slotsCacheClient,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		courtRepository,
		reservationRepository,
		maintenanceRepository,
		slotsCacheClient,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	processPayment := processPaymentHandler.NewHandler(processPaymentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	createMaintenanceBlock := createMaintenanceBlockHandler.NewHandler(maintenanceSvc, log)
	deleteMaintenanceBlock := deleteMaintenanceBlockHandler.NewHandler(maintenanceSvc, log)
	listMaintenanceBlocks := listMaintenanceBlocksHandler.NewHandler(maintenanceSvc, log)
	overrideReservationStatus := overrideReservationStatusHandler.NewHandler(reservationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка доступных слотов корта на дату
	api.HandleFunc("/courts/{courtId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Оплата бронирования со статусом pending
	protected.HandleFunc("/reservations/{reservationId}/payment", processPayment.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin(log))

	// --- Блокировки кортов на обслуживание ---
	admin.HandleFunc("/maintenance-blocks", createMaintenanceBlock.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/maintenance-blocks", listMaintenanceBlocks.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/maintenance-blocks/{blockId}", deleteMaintenanceBlock.Handle).Methods(http.MethodDelete)

	// --- Административная смена статуса бронирования ---
	admin.HandleFunc("/reservations/{reservationId}/override",
		overrideReservationStatus.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
