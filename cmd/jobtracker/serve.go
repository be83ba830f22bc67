package main

import (
	"context"
	"fmt"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/server"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
	"github.com/jonathan/job-tracker/internal/suggestions"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard and REST API server",
	Long: `Start an HTTP server that serves the dashboard at / and the job application API under /api.

With --store=memory no database is needed and data lives only for the life of the process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().String("store", "", "Storage backend: postgres or memory (default postgres)")
	_ = settings.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = settings.BindPFlag("store", serveCmd.Flags().Lookup("store"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, closeAI := newSuggestionService(ctx, cfg, logger)
	defer closeAI()

	srvCfg, err := serverConfig(cfg)
	if err != nil {
		return err
	}
	if srvCfg.JWT == nil {
		logger.WithField("user", cfg.DefaultUser).Info("authentication disabled, running in demo mode")
	}

	return server.New(srvCfg, store, svc, logger).Run(ctx)
}

// serverConfig translates the process configuration for the HTTP layer.
func serverConfig(cfg *config.Config) (server.Config, error) {
	srvCfg := server.Config{
		Addr:        cfg.Addr(),
		DefaultUser: cfg.DefaultUser,
		RateLimit: ratelimit.NewConfig(cfg.RateLimitEnabled,
			ratelimit.ParseList(cfg.RateLimitWhitelist),
			ratelimit.ParseList(cfg.RateLimitBlacklist)),
	}

	if cfg.AuthEnabled() {
		jwtCfg, err := cfg.JWT()
		if err != nil {
			return server.Config{}, fmt.Errorf("invalid JWT configuration: %w", err)
		}
		srvCfg.JWT = jwtCfg
	}
	return srvCfg, nil
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (server.JobStore, func(), error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store, data will be lost on exit")
		return db.NewMemoryStore(), func() {}, nil
	}

	database, err := db.Shared(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AutoMigrate {
		version, err := database.Migrate(ctx)
		if err != nil {
			db.CloseShared()
			return nil, nil, err
		}
		logger.WithField("version", version).Info("database schema up to date")
	}

	return database, db.CloseShared, nil
}

// newSuggestionService wires the Gemini client when a key is configured.
// Without one the service still answers, with the call-failure fallback.
func newSuggestionService(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (*suggestions.Service, func()) {
	// jobUrl comes from API clients, so only public hosts are dialed.
	fetchOpts := fetch.PublicOptions()
	fetchOpts.Client = fetch.PublicClient(fetchOpts.Timeout)
	fetcher := func(ctx context.Context, url string) (string, error) {
		return fetch.JobDescription(ctx, url, fetchOpts)
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI suggestions will return fallback advice")
		return suggestions.NewService(nil, fetcher, logger), func() {}
	}

	llmCfg := llm.DefaultConfig().WithModel(cfg.GeminiModel).WithTimeout(cfg.AITimeout)
	client, err := llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
	if err != nil {
		logger.WithError(err).Warn("failed to create Gemini client, AI suggestions will return fallback advice")
		return suggestions.NewService(nil, fetcher, logger), func() {}
	}

	logger.WithField("model", llmCfg.Model).Info("AI suggestions enabled")
	return suggestions.NewService(client, fetcher, logger), func() { _ = client.Close() }
}
