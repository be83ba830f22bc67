// Package main provides the entry point for the job tracker server and its
// maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	settings   = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "jobtracker",
	Short: "Job application tracker",
	Long: `Job Tracker keeps a list of job applications with statuses, deadlines and contacts,
serves a dashboard and JSON API over them, and suggests CV improvements with Gemini.

Configuration is read from defaults, an optional --config file, JOBTRACKER_* environment
variables (DATABASE_URL, GEMINI_API_KEY and JWT_SECRET are also honoured) and flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	_ = settings.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = settings.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the layered configuration and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(settings, configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
