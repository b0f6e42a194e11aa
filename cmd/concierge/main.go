package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/edustack/concierge/internal/adapter/embed"
	"github.com/edustack/concierge/internal/adapter/groq"
	chatapi "github.com/edustack/concierge/internal/adapter/http"
	"github.com/edustack/concierge/internal/adapter/inmem"
	cnats "github.com/edustack/concierge/internal/adapter/nats"
	"github.com/edustack/concierge/internal/adapter/otel"
	"github.com/edustack/concierge/internal/adapter/postgres"
	"github.com/edustack/concierge/internal/adapter/qdrant"
	"github.com/edustack/concierge/internal/adapter/ws"
	"github.com/edustack/concierge/internal/config"
	"github.com/edustack/concierge/internal/domain/agent"
	"github.com/edustack/concierge/internal/logger"
	"github.com/edustack/concierge/internal/port/embedding"
	"github.com/edustack/concierge/internal/port/messagequeue"
	"github.com/edustack/concierge/internal/port/vectorstore"
	"github.com/edustack/concierge/internal/resilience"
	"github.com/edustack/concierge/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"memory_backend", cfg.Memory.Backend,
		"llm_model", cfg.LLM.Model,
	)

	ctx := context.Background()

	// --- Telemetry ---
	shutdownTelemetry, err := otel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Embedding ---
	var embedder embedding.Embedder
	switch cfg.Embedding.Provider {
	case "dev":
		embedder = embed.NewDev(cfg.Embedding.Dimensions)
	default:
		embedder = embed.NewOpenAI(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	}
	cached, err := embed.NewCached(embedder, cfg.Embedding.CacheMB<<20)
	if err != nil {
		return fmt.Errorf("embedding cache: %w", err)
	}
	defer cached.Close()

	// --- Vector store ---
	var store vectorstore.Store
	switch cfg.Memory.Backend {
	case "postgres":
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		store = postgres.NewStore(pool, cfg.Embedding.Dimensions)
		slog.Info("postgres memory backend ready")
	case "memory":
		store = inmem.NewStore(cfg.Embedding.Dimensions)
		slog.Info("in-memory backend selected, memories are not persisted")
	default:
		store = qdrant.NewStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Memory.Collection, cfg.Embedding.Dimensions)
		slog.Info("qdrant memory backend ready", "url", cfg.Qdrant.URL, "collection", cfg.Memory.Collection)
	}

	// A size mismatch here means the collection was created for a different
	// embedding model. Refusing to start beats silently broken recall.
	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	// --- Completion client ---
	llmClient := groq.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	// --- Events (optional) ---
	var queue messagequeue.Queue
	if cfg.NATS.URL != "" {
		q, err := cnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() {
			if err := q.Drain(); err != nil {
				slog.Warn("nats drain failed", "error", err)
			}
			q.Close()
		}()
		queue = q
	}

	// --- Services ---
	hub := ws.NewHub()
	mem := service.NewMemoryService(cached, store, metrics, cfg.Memory.SearchLimit, cfg.Retry.Attempts, cfg.Retry.BaseDelay)

	identities := agent.DefaultIdentities()
	agents := make(map[agent.Role]*service.Agent, len(identities))
	for role, identity := range identities {
		if override, ok := cfg.Personas[string(role)]; ok && override != "" {
			identity.Persona = override
		}
		agents[role] = service.NewAgent(identity, llmClient, mem, queue,
			cfg.LLM.Temperature, cfg.LLM.MaxTokens, cfg.Memory.HistoryWindow)
	}

	router := service.NewRouter(llmClient, metrics)
	graph := service.NewGraph(router, agents, hub, queue, metrics)

	// --- HTTP ---
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chatapi.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(chatapi.CORS(cfg.Server.CORSOrigin))
	r.Use(chatapi.SecurityHeaders)
	r.Use(chatapi.Logger)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	chatapi.MountRoutes(r, chatapi.NewHandlers(graph), hub)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
