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

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	cancelFutureHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_future_occurrences"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createRecurringHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_recurring_series"
	deleteAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_appointment"
	detachOccurrenceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/detach_occurrence"
	forceCreateHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/force_create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getClientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_appointments"
	getRecurringGroupHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_recurring_group"
	updateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment"
	updateFutureHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_future_occurrences"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	admitAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
	recurringSeriesUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
	updateAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Таймзона бизнеса: день недели и дата кандидата всегда считаются в ней
	businessLoc, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}
	log.Info("Business timezone: %s", cfg.Business.Timezone)

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

	// Redis для кеша точечных чтений (если включен)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Недоступный Redis не фатален: работаем без кеша
			log.Warn("Redis unavailable, cache disabled: %v", err)
			redisClient = nil
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		cancel()
	}

	// RabbitMQ для событий уведомлений (если включен)
	var publisher *notify.Publisher
	if cfg.RabbitMQ.Enabled {
		publisher = notify.NewPublisher(cfg.RabbitMQ.URL, log)
		defer publisher.Close()
		log.Info("Notification publisher initialized (url=%s)", cfg.RabbitMQ.URL)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		catalogRepository     *catalogRepo.Repository
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

	// Кеширующий декоратор поверх репозитория записей
	// При redisClient == nil кеш прозрачно отключен
	cachedAppointments := cache.NewCachedAppointments(
		appointmentRepository,
		redisClient,
		time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second,
		log,
	)

	// notify.Publisher передается через интерфейсы; nil = уведомления отключены
	var admitPublisher admitAppointmentUC.NotifyPublisher
	var updatePublisher updateAppointmentUC.NotifyPublisher
	var cancelPublisher appointmentsService.NotifyPublisher
	var seriesPublisher recurringSeriesUC.NotifyPublisher
	if publisher != nil {
		admitPublisher = publisher
		updatePublisher = publisher
		cancelPublisher = publisher
		seriesPublisher = publisher
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		cachedAppointments,
		cancelPublisher,
		txMgr,
		log,
	)

	// Инициализируем use cases
	admitUseCase := admitAppointmentUC.NewUseCase(
		cachedAppointments,
		scheduleRepository,
		catalogRepository,
		catalogRepository,
		admitPublisher,
		txMgr,
		businessLoc,
		log,
	)

	updateUseCase := updateAppointmentUC.NewUseCase(
		cachedAppointments,
		scheduleRepository,
		catalogRepository,
		catalogRepository,
		updatePublisher,
		txMgr,
		businessLoc,
		log,
	)

	recurringUseCase := recurringSeriesUC.NewUseCase(
		cachedAppointments,
		admitUseCase,
		updateUseCase,
		seriesPublisher,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(admitUseCase, log)
	forceCreate := forceCreateHandler.NewHandler(admitUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	createRecurring := createRecurringHandler.NewHandler(recurringUseCase, log)
	getRecurringGroup := getRecurringGroupHandler.NewHandler(appointmentSvc, log)
	updateFuture := updateFutureHandler.NewHandler(recurringUseCase, log)
	cancelFuture := cancelFutureHandler.NewHandler(recurringUseCase, log)
	detachOccurrence := detachOccurrenceHandler.NewHandler(recurringUseCase, log)

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

	// Все операции с записями требуют X-User-ID header
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи с проверками допуска
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Создание записи в обход проверок (административный режим)
	protected.HandleFunc("/appointments/force-create", forceCreate.Handle).Methods(http.MethodPost)

	// --- Повторяющиеся серии ---
	// Создание серии
	protected.HandleFunc("/appointments/recurring", createRecurring.Handle).Methods(http.MethodPost)

	// Все записи серии
	protected.HandleFunc("/appointments/recurring/{groupId}", getRecurringGroup.Handle).Methods(http.MethodGet)

	// Изменение всех будущих записей серии
	protected.HandleFunc("/appointments/recurring/{groupId}/all", updateFuture.Handle).Methods(http.MethodPut)

	// Отмена всех будущих записей серии
	protected.HandleFunc("/appointments/recurring/{groupId}/cancel", cancelFuture.Handle).Methods(http.MethodPut)

	// Отвязка одной записи от серии
	protected.HandleFunc("/appointments/recurring/{groupId}/single/{appointmentId}",
		detachOccurrence.Handle).Methods(http.MethodPut)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Обновление записи с повторными проверками допуска
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut)

	// Отмена записи (перенос в архив отменённых)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Удаление записи без архивирования
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

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

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close Redis client: %v", err)
		}
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
