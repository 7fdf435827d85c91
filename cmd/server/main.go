/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the pharmacy payroll server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, nomina.yaml, .env, NOMINA_* env)
  2. Parse command-line flags (override configuration)
  3. Initialize SQLite store and seed pay parameters on first start
  4. Connect the AMQP event publisher when configured
  5. Build services, API handler and router
  6. Start the exchange-rate scheduler when enabled
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: from config, 8080)
  -db      SQLite database path (default: from config, ./data/nomina.db)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the rate scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (shutdown timeout)
  4. Close the broker and database connections

EXAMPLES:
  ./server -db="./data/nomina.db"
  NOMINA_RATE_ENABLED=true ./server -port=3000

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bradycnk/Nominaft/api"
	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/config"
	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/exchange"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/logger"
	"github.com/bradycnk/Nominaft/payroll"
	"github.com/bradycnk/Nominaft/store/sqlite"
)

const serviceName = "nomina"

func main() {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := logger.New(serviceName, cfg.Server.Environment)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to initialize database")
	}
	defer store.Close()

	if err := seedParameters(context.Background(), store, cfg.Payroll, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed pay parameters")
	}

	// Events
	var publisher events.Publisher = events.Nop{}
	if cfg.Events.AMQPURL != "" {
		amqpPub, err := events.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Exchange, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect event publisher")
		}
		defer amqpPub.Close()
		publisher = amqpPub
		log.Info().Str("exchange", cfg.Events.Exchange).Msg("publishing events to RabbitMQ")
	}
	emitter := events.NewEmitter(publisher, log)

	// Services
	attendanceSvc := attendance.NewService(store, store, emitter, log)
	payrollSvc := payroll.NewService(payroll.ServiceConfig{
		Employees:  store,
		Attendance: store,
		Parameters: store,
		Runs:       store,
		Events:     emitter,
		Logger:     log,
		PeriodDays: cfg.Payroll.PeriodDays,
	})
	refresher := exchange.NewRefresher(exchange.NewClient(cfg.Rate.URL, cfg.Rate.Timeout), store, emitter, log)

	handler := api.NewHandler(api.HandlerConfig{
		Employees:  store,
		Parameters: store,
		Attendance: attendanceSvc,
		Payroll:    payrollSvc,
		Refresher:  refresher,
		Health:     store.Ping,
		Logger:     log,
	})
	router := api.NewRouter(handler, log, cfg.Server.AllowedOrigins)

	scheduler := api.NewRateScheduler(refresher, cfg.Rate.Interval, log)
	scheduler.Enabled = cfg.Rate.Enabled
	scheduler.Timeout = cfg.Rate.Timeout
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("db", cfg.Database.Path).
			Str("environment", cfg.Server.Environment).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// seedParameters writes the configured defaults when no parameter row
// exists. An existing row is never overwritten.
func seedParameters(ctx context.Context, store payroll.ParameterStore, cfg config.PayrollConfig, log *logger.Logger) error {
	_, err := store.GetParameters(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, generic.ErrParametersNotFound) {
		return err
	}

	params, err := cfg.Parameters()
	if err != nil {
		return err
	}
	params.UpdatedAt = time.Now().UTC()
	if err := params.Validate(); err != nil {
		return err
	}
	if err := store.SaveParameters(ctx, params); err != nil {
		return err
	}

	log.Info().
		Str("exchange_rate", params.ExchangeRate.String()).
		Msg("seeded pay parameters from configuration")
	return nil
}
