package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxitoday/internal/app"
	"taxitoday/internal/config"
	"taxitoday/internal/fare"
	"taxitoday/internal/handler"
	"taxitoday/internal/payment"
	internalRedis "taxitoday/internal/redis"
	"taxitoday/internal/registry"
	"taxitoday/internal/repository/postgres"
	"taxitoday/internal/routing"
	"taxitoday/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, err := wireServer(db, redisClient, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, error) {
	// Initialize Redis stores.
	sessionStore := internalRedis.NewSessionStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)

	// Initialize repository and registry.
	bookingRepo := postgres.NewBookingRepository(db)
	bookingRegistry := registry.NewRegistry(bookingRepo, lockStore)

	// Routing collaborator: Directions API when a key is configured,
	// coordinate estimate otherwise.
	var routes service.RouteResolver
	if cfg.Routing.GoogleAPIKey != "" {
		resolver, err := routing.NewGoogleResolver(cfg.Routing.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		routes = resolver
		log.Println("Routing: Google Directions API")
	} else {
		routes = routing.NewHaversineResolver()
		log.Println("Routing: coordinate estimate (no GOOGLE_MAPS_API_KEY)")
	}

	// Payment collaborator: Stripe when a key is configured, mock otherwise.
	var payments service.PaymentProvider
	if cfg.Stripe.SecretKey != "" {
		payments = payment.NewStripeProvider(cfg.Stripe.SecretKey)
		log.Println("Payments: Stripe")
	} else {
		payments = service.NewMockPaymentProvider()
		log.Println("Payments: mock (no STRIPE_SECRET_KEY)")
	}

	// Initialize services.
	calc := fare.Calculator{
		ServiceFeeCents: cfg.Fare.ServiceFeeCents,
		VATRateBps:      cfg.Fare.VATRateBps,
		Currency:        cfg.Fare.Currency,
	}
	notificationService := service.NewNotificationService()
	bookingService := service.NewBookingService(
		sessionStore,
		bookingRegistry,
		routes,
		payments,
		cacheStore,
		notificationService,
		calc,
		cfg.Routing.Timeout,
	)

	// Initialize handlers.
	quoteHandler := handler.NewQuoteHandler(bookingService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	tariffHandler := handler.NewTariffHandler()

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		QuoteHandler:   quoteHandler,
		BookingHandler: bookingHandler,
		TariffHandler:  tariffHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
