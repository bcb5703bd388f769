package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	"github.com/roomtab/webhook-svc/internal/dal/rabbitmq"
	auditrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/audit/postgres"
	outboxrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/outbox/postgres"
	sessionrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/session/postgres"
	"github.com/roomtab/webhook-svc/internal/debounce"
	"github.com/roomtab/webhook-svc/internal/otel"
	"github.com/roomtab/webhook-svc/internal/provider"
	"github.com/roomtab/webhook-svc/internal/resolver"
	"github.com/roomtab/webhook-svc/internal/service/services/reconcilersvc"
	"github.com/roomtab/webhook-svc/internal/signature"
	httptransport "github.com/roomtab/webhook-svc/internal/transport/http"
	outboxworker "github.com/roomtab/webhook-svc/internal/worker/outbox"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	reconcilerSvc  *reconcilersvc.ReconcilerService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	notificationsQueue := viper.GetString("rabbitmq.notifications.queue")
	if notificationsQueue == "" {
		notificationsQueue = "tab.session.closed"
	}
	if _, err := rabbitMqClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    notificationsQueue,
		Durable: true,
	}); err != nil {
		panic(err)
	}

	sessionRepository := sessionrepo.NewSessionRepository(postgresClient.Pool())
	auditRepository := auditrepo.NewAuditRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())

	providerClient := provider.NewClient()
	productClient := provider.NewProductClient()

	debounceInterval := viper.GetDuration("catalog.debounce_interval")
	if debounceInterval == 0 {
		debounceInterval = 3 * time.Second
	}

	reconcilerSvc := reconcilersvc.MustNewReconcilerService(
		reconcilersvc.WithPostgresClient(postgresClient),
		reconcilersvc.WithSessionRepository(sessionRepository),
		reconcilersvc.WithAuditRepository(auditRepository),
		reconcilersvc.WithProviderClient(providerClient),
		reconcilersvc.WithCatalogRefresher(productClient),
		reconcilersvc.WithResolver(resolver.New(sessionRepository)),
		reconcilersvc.WithDebouncer(debounce.New(debounceInterval)),
	)

	verifier := signature.NewVerifier(os.Getenv("WEBHOOK_SIGNATURE_KEY"))

	transport := httptransport.NewHTTPTransport(reconcilerSvc, verifier)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		reconcilerSvc:  reconcilerSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application
// components: HTTP server, outbox worker, RabbitMQ, PostgreSQL, and
// OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
