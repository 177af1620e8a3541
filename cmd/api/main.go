package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rbmarquez/DoctorQ-sub003/internal/adapters/cache"
	"github.com/rbmarquez/DoctorQ-sub003/internal/adapters/database"
	"github.com/rbmarquez/DoctorQ-sub003/internal/adapters/events"
	"github.com/rbmarquez/DoctorQ-sub003/internal/adapters/providers/scheduling"
	"github.com/rbmarquez/DoctorQ-sub003/internal/api/handlers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/api/routes"
	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/clients/postgres"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/clients/redis"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/notifications"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/observability"
	"github.com/rbmarquez/DoctorQ-sub003/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client. The engine works without it: availability
	// caching and the event bus simply switch off.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	// Initialize adapters
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)
	procedureAdapter := database.NewProcedureAdapter(pgClient)
	professionalAdapter := database.NewProfessionalAdapter(pgClient)

	schedulingProvider := scheduling.NewSchedulingProvider(cfg.Agenda)

	// Notifications are optional: without WhatsApp credentials bookings
	// proceed silently.
	var notificationService *services.NotificationService
	if sender, err := notifications.NewWhatsAppCloudSender(cfg.WhatsApp); err != nil {
		log.Warn().Err(err).Msg("WhatsApp sender disabled")
	} else {
		notificationService = services.NewNotificationService(sender)
	}

	// Initialize services
	availabilityService := services.NewAvailabilityService(
		schedulingProvider,
		cacheProvider,
		cfg.Scheduling.AvailabilityCacheTTL,
		metrics,
	)
	appointmentService := services.NewAppointmentService(
		appointmentAdapter,
		procedureAdapter,
		professionalAdapter,
		schedulingProvider,
		availabilityService,
		eventBus,
		notificationService,
	)

	// Initialize handlers
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	availabilityHandler := handlers.NewAvailabilityHandler(
		availabilityService,
		cfg.Scheduling.HorizonDays,
		cfg.Scheduling.MaxMonthsAhead,
	)
	procedureHandler := handlers.NewProcedureHandler(procedureAdapter)
	professionalHandler := handlers.NewProfessionalHandler(professionalAdapter)
	bookingSessionHandler := handlers.NewBookingSessionHandler(appointmentService, procedureAdapter)
	rescheduleSessionHandler := handlers.NewRescheduleSessionHandler(appointmentService, availabilityService)
	vacancySessionHandler := handlers.NewVacancySessionHandler(func(ctx context.Context, draft *entities.VacancyDraft) (string, error) {
		// The marketplace's vacancy backend is a separate system; this
		// engine validates and hands off the finished posting.
		vacancyID := uuid.New().String()
		log.Info().
			Str("vacancy_id", vacancyID).
			Str("clinic_id", draft.ClinicID).
			Str("title", draft.Title).
			Str("specialty", draft.Specialty).
			Msg("vacancy posting submitted")
		return vacancyID, nil
	})

	var agendaStreamHandler *handlers.AgendaStreamHandler
	if eventBus != nil {
		agendaStreamHandler = handlers.NewAgendaStreamHandler(eventBus)
	}

	// Set up router
	router := routes.NewRouter(
		appointmentHandler,
		availabilityHandler,
		procedureHandler,
		professionalHandler,
		bookingSessionHandler,
		rescheduleSessionHandler,
		vacancySessionHandler,
		agendaStreamHandler,
		cacheProvider,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout stays zero: the agenda event stream
	// holds connections open indefinitely.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
