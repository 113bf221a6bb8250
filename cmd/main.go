package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/anwarakram/bookly/internal/api/handlers/cancel_appointment"
	changeStatusHandler "github.com/anwarakram/bookly/internal/api/handlers/change_status"
	checkinHandler "github.com/anwarakram/bookly/internal/api/handlers/checkin"
	createAppointmentHandler "github.com/anwarakram/bookly/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/anwarakram/bookly/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/anwarakram/bookly/internal/api/handlers/get_available_slots"
	getScheduleHandler "github.com/anwarakram/bookly/internal/api/handlers/get_schedule"
	listAppointmentsHandler "github.com/anwarakram/bookly/internal/api/handlers/list_appointments"
	rescheduleAppointmentHandler "github.com/anwarakram/bookly/internal/api/handlers/reschedule_appointment"
	setScheduleHandler "github.com/anwarakram/bookly/internal/api/handlers/set_schedule"
	"github.com/anwarakram/bookly/internal/api/middleware"
	"github.com/anwarakram/bookly/internal/config"
	"github.com/anwarakram/bookly/internal/domain"
	slotsCache "github.com/anwarakram/bookly/internal/infra/cache/slots"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	catalogRepo "github.com/anwarakram/bookly/internal/infra/storage/catalog"
	scheduleRepo "github.com/anwarakram/bookly/internal/infra/storage/schedule"
	"github.com/anwarakram/bookly/internal/integrations/notify"
	appointmentsService "github.com/anwarakram/bookly/internal/service/appointments"
	"github.com/anwarakram/bookly/internal/service/availability"
	schedulesService "github.com/anwarakram/bookly/internal/service/schedules"
	createAppointmentUC "github.com/anwarakram/bookly/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/anwarakram/bookly/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/anwarakram/bookly/internal/usecase/reschedule_appointment"
	"github.com/anwarakram/bookly/pkg/dbmetrics"
	"github.com/anwarakram/bookly/pkg/logger"
	"github.com/anwarakram/bookly/pkg/metrics"
	"github.com/anwarakram/bookly/pkg/simpletxmanager"
	"github.com/anwarakram/bookly/pkg/txmanager"
)

// TxManager общий интерфейс менеджеров транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache общий интерфейс кеша слотов (Redis или заглушка)
type SlotsCache interface {
	GetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time) ([]domain.Slot, bool)
	SetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time, slots []domain.Slot)
	InvalidateStaffDate(ctx context.Context, businessID, staffID int64, date time.Time)
}

// Notifier общий интерфейс уведомлений (webhook или заглушка)
type Notifier interface {
	AppointmentCreated(ctx context.Context, appointment *domain.Appointment)
	AppointmentRescheduled(ctx context.Context, appointment *domain.Appointment)
	AppointmentCancelled(ctx context.Context, appointment *domain.Appointment)
	AppointmentStatusChanged(ctx context.Context, appointment *domain.Appointment, oldStatus domain.AppointmentStatus)
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

	log.Info("Starting Bookly...")
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

	// Применяем миграции
	if err := runMigrations(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)

	// Инициализируем кеш слотов
	var cache SlotsCache = slotsCache.NewNoop()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		cache = slotsCache.NewCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		log.Info("Slots cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Инициализируем клиент уведомлений
	var notifier Notifier = notify.NewNoop()
	if cfg.Notifier.URL != "" {
		notifier = notify.NewClient(cfg.Notifier.URL, time.Duration(cfg.Notifier.Timeout)*time.Second, log)
		log.Info("Webhook notifications enabled (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		catalogRepository     *catalogRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	validator := availability.NewValidator(appointmentRepository, scheduleRepository, log)
	appointmentSvc := appointmentsService.NewService(appointmentRepository, txMgr, notifier, log)
	scheduleSvc := schedulesService.NewService(scheduleRepository, catalogRepository, txMgr, cache, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		validator,
		txMgr,
		cache,
		notifier,
		cfg.Scheduling.MaxServiceGapMinutes,
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		validator,
		txMgr,
		cache,
		notifier,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalogRepository,
		cache,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	changeStatus := changeStatusHandler.NewHandler(appointmentSvc, log)
	checkin := checkinHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	setSchedule := setScheduleHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты для записи
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Чек-ин клиента по коду
	api.HandleFunc("/checkin", checkin.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", changeStatus.Handle).Methods(http.MethodPatch)

	// --- Управление бизнесом ---
	protected.HandleFunc("/businesses/{businessId}/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/staff/{staffId}/schedules", setSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/staff/{staffId}/schedules", getSchedule.Handle).Methods(http.MethodGet)

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

// runMigrations применяет миграции схемы к подключенной базе
func runMigrations(db *sql.DB, path string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
