package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/agentcard"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/clients"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/config"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/events"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/httpapi"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/lambdahandler"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/middleware"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/service"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "aex-action-router"

// lambdaShutdownGrace fits inside the window the Lambda runtime allows after SIGTERM.
const lambdaShutdownGrace = 400 * time.Millisecond

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(middleware.NewContextHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg),
	})))
	slog.SetDefault(logger)

	slog.Info("starting "+serviceName,
		"environment", cfg.Environment,
		"runtime", cfg.Runtime,
		"store_type", cfg.StoreType,
		"api_gateway_url", cfg.APIGatewayURL,
	)

	ctx := context.Background()

	// Initialize audit ledger
	var invocations store.InvocationStore
	var mongoClient *mongo.Client

	switch cfg.StoreType {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		mongoClient, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			slog.Error("failed to connect to mongodb", "error", err)
			os.Exit(1)
		}
		if err := mongoClient.Ping(connectCtx, nil); err != nil {
			slog.Error("failed to ping mongodb", "error", err)
			os.Exit(1)
		}

		mongoStore := store.NewMongoStore(mongoClient, cfg.MongoDB, cfg.MongoCollection)
		if err := mongoStore.EnsureIndexes(connectCtx); err != nil {
			slog.Warn("failed to create indexes", "error", err)
		}
		invocations = mongoStore
		slog.Info("using mongodb store", "db", cfg.MongoDB, "collection", cfg.MongoCollection)

	case "firestore":
		invocations, err = store.NewFirestoreStore(ctx, cfg.FirestoreProjectID, cfg.FirestoreCollection)
		if err != nil {
			slog.Error("failed to initialize firestore", "error", err)
			os.Exit(1)
		}
		slog.Info("using firestore store", "project", cfg.FirestoreProjectID, "collection", cfg.FirestoreCollection)

	case "none":
		slog.Info("invocation ledger disabled")

	default:
		invocations = store.NewMemoryStore()
		slog.Info("using in-memory store (development mode)")
	}

	if invocations != nil {
		defer func() { _ = invocations.Close() }()
	}
	if mongoClient != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Disconnect(ctx); err != nil {
				slog.Error("failed to disconnect mongodb", "error", err)
			}
		}()
	}

	publisher := events.NewPublisher(serviceName)
	if cfg.EventWebhookURL != "" {
		publisher.RegisterEndpoint(events.EventActionInvoked, cfg.EventWebhookURL)
		publisher.RegisterEndpoint(events.EventActionFailed, cfg.EventWebhookURL)
	}

	// Ledger writes and webhooks run on a background worker, off the reply path.
	var recorder service.Recorder
	if invocations != nil {
		recorder = invocations
	}
	auditor := service.NewAuditor(recorder, publisher, service.DefaultAuditQueueSize, service.WithAuditLogger(logger))

	dispatcher := service.New(
		clients.NewMemberClient(cfg.APIGatewayURL, cfg.DownstreamTimeout),
		service.WithLogger(logger),
		service.WithAuditor(auditor),
	)

	if cfg.Runtime == "lambda" {
		// Start never returns, so the deferred closes above do not run here.
		lambdahandler.New(dispatcher,
			func() { closeAuditor(auditor, lambdaShutdownGrace) },
			func() {
				if invocations != nil {
					_ = invocations.Close()
				}
			},
		).Start()
		return
	}

	card := agentcard.Build(serviceName, "http://localhost:"+cfg.Port, "1.0.0", dispatcher.Routes())
	router := httpapi.NewRouter(httpapi.NewHandlers(dispatcher, invocations, card))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.DownstreamTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	closeAuditor(auditor, 5*time.Second)
}

// closeAuditor drains queued records and events within grace.
func closeAuditor(a *service.Auditor, grace time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		slog.Error("audit queue not drained", "error", err)
	}
}

func logLevel(cfg *config.Config) slog.Level {
	if cfg.IsDevelopment() {
		return slog.LevelDebug
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
