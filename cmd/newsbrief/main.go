package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"newsbrief/internal/app"
	"newsbrief/internal/config"
	"newsbrief/internal/dedupe"
	"newsbrief/internal/logger"
	"newsbrief/internal/metrics"
	"newsbrief/internal/provider"
	"newsbrief/internal/push"
	"newsbrief/internal/ratelimit"
	"newsbrief/internal/storage"
	"newsbrief/internal/translate"
	"newsbrief/internal/upload"
)

func main() {
	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		os.Exit(1)
	}
	lg := logger.Init(cfg.Debug)

	topics, err := config.LoadTopics(cfg.TopicsConfigPath)
	if err != nil {
		lg.Error("invalid topics file", "path", cfg.TopicsConfigPath, "error", err)
		os.Exit(1)
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer(lg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunDeadline)
	defer cancel()

	store := openStore(ctx, cfg, lg)
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	translator := openTranslator(ctx, cfg, lg)
	if c, ok := translator.(interface{ Close() }); ok {
		defer c.Close()
	}

	var uploader upload.Uploader
	if cfg.UploadEnabled() {
		up, err := upload.NewMinIO(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioPublicBase)
		if err != nil {
			lg.Warn("report hosting unavailable, pushing without links", "error", err)
		} else {
			uploader = up
		}
	}

	enricher := translate.NewEnricher(translator,
		ratelimit.NewPacer(cfg.TranslateInterval),
		ratelimit.NewBudget(cfg.MaxTranslateRequests), lg)
	fanout := push.NewFanout(push.NewClient(cfg.RequestTimeout),
		cfg.BarkTargets, cfg.BarkGroup, ratelimit.NewPacer(cfg.PushInterval), lg)
	fanout.Level = cfg.BarkLevel

	providers := buildProviders(cfg)
	lg.Info("starting run",
		"topics", len(topics), "providers", len(providers),
		"targets", len(cfg.BarkTargets), "translate", cfg.TranslateBackend)

	a := app.New(cfg, topics, providers, dedupe.New(store, lg), enricher, fanout, uploader, lg)
	a.Run(ctx)

	lg.Info("run finished", "stats", metrics.Global.GetStats())
}

func buildProviders(cfg *config.Config) []provider.Provider {
	var providers []provider.Provider
	if cfg.TianAPIKey != "" {
		providers = append(providers,
			provider.NewTianAPI(cfg.TianAPIKey, cfg.TianBaseURL, cfg.RequestTimeout))
	}
	if cfg.MediastackAPIKey != "" {
		providers = append(providers,
			provider.NewMediastack(cfg.MediastackAPIKey, cfg.MediastackBaseURL, cfg.RequestTimeout))
	}
	return providers
}

// openStore connects the configured dedup store. A store that cannot be
// reached degrades dedup (every item looks novel, nothing is recorded)
// instead of aborting the run: an outage must not suppress delivery.
func openStore(ctx context.Context, cfg *config.Config, lg *slog.Logger) dedupe.Store {
	var (
		store dedupe.Store
		err   error
	)
	switch cfg.StoreBackend {
	case "redis":
		store, err = storage.NewRedis(ctx, cfg.RedisURL, cfg.RedisTTL)
	default:
		store, err = storage.NewPostgres(cfg.DatabaseURL)
	}
	if err != nil {
		lg.Error("dedup store unavailable, duplicates may be re-delivered",
			"backend", cfg.StoreBackend, "error", err)
		return dedupe.Unavailable{Reason: err}
	}
	return store
}

// openTranslator builds the configured translation backend, or nil when
// translation is off or the backend cannot be initialized.
func openTranslator(ctx context.Context, cfg *config.Config, lg *slog.Logger) translate.Translator {
	switch cfg.TranslateBackend {
	case "openai":
		return translate.NewOpenAI(cfg.OpenAIAPIKey, cfg.TranslateModel)
	case "gemini":
		g, err := translate.NewGemini(ctx, cfg.GeminiAPIKey, cfg.TranslateModel)
		if err != nil {
			lg.Warn("gemini unavailable, items keep original language", "error", err)
			return nil
		}
		return g
	default:
		return nil
	}
}

func startMonitoringServer(lg *slog.Logger) {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	lg.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		lg.Error("monitoring server stopped", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func metricsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
