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

	createBookingHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/create_booking"
	createPaymentHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/create_payment"
	getAvailabilityHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/get_user_bookings"
	paymentWebhookHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/payment_webhook"
	updateBookingStatusHandler "github.com/m04kA/SportBook-BookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SportBook-BookingService/internal/api/middleware"
	"github.com/m04kA/SportBook-BookingService/internal/config"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/field"
	transactionRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/transaction"
	"github.com/m04kA/SportBook-BookingService/internal/integrations/midtranspay"
	"github.com/m04kA/SportBook-BookingService/internal/mailer"
	bookingsService "github.com/m04kA/SportBook-BookingService/internal/service/bookings"
	"github.com/m04kA/SportBook-BookingService/internal/ticket"
	createBookingUC "github.com/m04kA/SportBook-BookingService/internal/usecase/create_booking"
	createPaymentUC "github.com/m04kA/SportBook-BookingService/internal/usecase/create_payment"
	getAvailabilityUC "github.com/m04kA/SportBook-BookingService/internal/usecase/get_availability"
	processWebhookUC "github.com/m04kA/SportBook-BookingService/internal/usecase/process_webhook"
	"github.com/m04kA/SportBook-BookingService/pkg/clock"
	"github.com/m04kA/SportBook-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SportBook-BookingService/pkg/logger"
	"github.com/m04kA/SportBook-BookingService/pkg/metrics"
	"github.com/m04kA/SportBook-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/SportBook-BookingService/pkg/txmanager"
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

	log.Info("Starting SportBook-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Бизнес-часы: "сегодня" и прошедшие слоты определяются
	// в часовом поясе площадок, не хоста
	businessClock, err := clock.NewBusinessClock(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load business timezone %q: %v", cfg.Booking.Timezone, err)
	}
	log.Info("Business timezone: %s", cfg.Booking.Timezone)

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

	// Инициализируем интеграции
	gateway := midtranspay.NewClient(cfg.Midtrans.ServerKey, cfg.Midtrans.Production, log)
	log.Info("Midtrans client initialized (production=%v)", cfg.Midtrans.Production)

	ticketRenderer := ticket.NewRenderer(cfg.Ticket.FontPath, log)

	mailSender := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, log)
	log.Info("SMTP mailer initialized (host=%s, port=%d)", cfg.SMTP.Host, cfg.SMTP.Port)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository     *bookingRepo.Repository
		fieldRepository       *fieldRepo.Repository
		transactionRepository *transactionRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		fieldRepository = fieldRepo.NewRepository(wrappedDB)
		transactionRepository = transactionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		fieldRepository = fieldRepo.NewRepository(db)
		transactionRepository = transactionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		fieldRepository,
		transactionRepository,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		fieldRepository,
		businessClock,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		fieldRepository,
		txMgr,
		businessClock,
		log,
	)

	createPaymentUseCase := createPaymentUC.NewUseCase(
		bookingRepository,
		transactionRepository,
		gateway,
		txMgr,
		businessClock,
		log,
	)

	processWebhookUseCase := processWebhookUC.NewUseCase(
		transactionRepository,
		bookingRepository,
		ticketRenderer,
		mailSender,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createPayment := createPaymentHandler.NewHandler(createPaymentUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)

	var webhookMetrics paymentWebhookHandler.MetricsCollector
	if cfg.Metrics.Enabled {
		webhookMetrics = metricsCollector
	}
	paymentWebhook := paymentWebhookHandler.NewHandler(processWebhookUseCase, webhookMetrics, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
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

	// Доступность слотов площадки на день
	api.HandleFunc("/fields/{fieldId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Уведомления платежного провайдера (аутентификация провайдера
	// выполняется на уровне инфраструктуры)
	api.HandleFunc("/payments/midtrans/webhook",
		paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Решение владельца площадки по заявке
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Создание платежной сессии для одобренного бронирования
	protected.HandleFunc("/bookings/{bookingId}/payment", createPayment.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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
