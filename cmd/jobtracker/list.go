package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/server"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/spf13/cobra"
)

var (
	listUser   string
	listStatus string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a user's job applications and summary counters",
	Long: `Print the same counters and applications the dashboard shows, read
directly from the configured store. --status and --search narrow the list
but never the counters.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listUser, "user", "", "User ID to list (default: the configured default user)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only show applications with this status")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only show applications matching this text")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	userID := listUser
	if userID == "" {
		userID = cfg.DefaultUser
	}
	return printApplications(cmd.Context(), cmd.OutOrStdout(), store, userID, listStatus, listSearch, time.Now())
}

// printApplications writes the counters for every application of userID,
// followed by the applications matching status and search.
func printApplications(ctx context.Context, out io.Writer, store server.JobStore, userID, status, search string, now time.Time) error {
	if status != "" && status != "all" && !types.ApplicationStatus(status).Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	jobs, err := store.ListJobApplications(ctx, types.ListFilter{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to list job applications: %w", err)
	}

	printer := observability.NewPrinter(out)
	printer.PrintStats(dashboard.ComputeStats(jobs, now))
	printer.PrintApplications(dashboard.Filter(jobs, status, search), now)
	return nil
}
