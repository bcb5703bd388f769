package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/roomtab/webhook-svc/internal/service/models/event"
	"github.com/roomtab/webhook-svc/internal/signature"
	"github.com/roomtab/webhook-svc/internal/transport/http/webhook"
	"github.com/roomtab/webhook-svc/pkg/http/middleware/trace"
	"github.com/roomtab/webhook-svc/pkg/logger"
	"github.com/spf13/viper"
)

type service interface {
	HandleOrderEvent(ctx context.Context, env *event.Envelope) error
	HandlePaymentEvent(ctx context.Context, env *event.Envelope) error
	HandleCatalogEvent(ctx context.Context, env *event.Envelope) error
	HandleInventoryEvent(ctx context.Context, env *event.Envelope) error
	HandleUnknownEvent(ctx context.Context, env *event.Envelope) error
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	service  service
	verifier *signature.Verifier
}

func NewHTTPTransport(service service, verifier *signature.Verifier) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:   server,
		router:   router,
		service:  service,
		verifier: verifier,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/webhooks/provider", h.handleWebhook)
		r.Get("/health", h.health)
	})
}

func (h *HTTPTransport) handleWebhook(w http.ResponseWriter, r *http.Request) {
	webhook.Handle(w, r, h.verifier, h.service)
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
