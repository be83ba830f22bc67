package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/spf13/cobra"
)

var diagnoseTimeout time.Duration

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check connectivity to the configured database",
	Long: `Connect to DATABASE_URL, list the tables, then write and delete a probe row.
Credentials are masked in the output. Failures print a hint about the likely cause.`,
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().DurationVar(&diagnoseTimeout, "timeout", 10*time.Second, "Give up after this long")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(settings, configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), diagnoseTimeout)
	defer cancel()

	return diagnose(ctx, cmd.OutOrStdout(), cfg.DatabaseURL)
}

// diagnose runs the connectivity probe and writes a readable report to out.
func diagnose(ctx context.Context, out io.Writer, databaseURL string) error {
	fmt.Fprintln(out, "Testing PostgreSQL connection...")
	fmt.Fprintln(out, "URI:", maskDatabaseURL(databaseURL))

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return reportFailure(out, "PostgreSQL connection failed", err)
	}
	defer database.Close()

	fmt.Fprintln(out, "✅ Connected to PostgreSQL successfully!")

	report, err := database.Probe(ctx)
	if report != nil {
		if report.ServerVersion != "" {
			fmt.Fprintln(out, "🐘 Server version:", report.ServerVersion)
		}
		fmt.Fprintln(out, "📁 Available tables:", formatTables(report.Tables))
	}
	if err != nil {
		return reportFailure(out, "Probe failed", err)
	}

	fmt.Fprintln(out, "✅ Test row inserted:", report.InsertedID)
	if report.CleanedUp {
		fmt.Fprintln(out, "🧹 Test row cleaned up")
	}
	fmt.Fprintf(out, "✅ Connection test completed successfully in %s!\n", report.Elapsed.Round(time.Millisecond))
	return nil
}

func reportFailure(out io.Writer, what string, err error) error {
	fmt.Fprintf(out, "❌ %s: %v\n", what, err)
	for _, hint := range hints(err) {
		fmt.Fprintln(out, hint)
	}
	return fmt.Errorf("%s: %w", strings.ToLower(what), err)
}

func formatTables(tables []string) string {
	if len(tables) == 0 {
		return "(none)"
	}
	return strings.Join(tables, ", ")
}

// hints suggests likely causes for a connection or probe failure.
func hints(err error) []string {
	var out []string

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "28"):
			out = append(out, "🔑 Check the username and password in DATABASE_URL")
		case pgErr.Code == "3D000":
			out = append(out, "🗄️  The database does not exist, create it or fix the name in DATABASE_URL")
		case pgErr.Code == "42501":
			out = append(out, "🔒 The user lacks privileges, grant CREATE and INSERT on the schema")
		}
	}

	var netErr net.Error
	var dnsErr *net.DNSError
	msg := err.Error()
	if errors.As(err, &netErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		out = append(out, "🌐 Check the host and port, and that the server accepts connections from this machine")
	}

	if strings.Contains(msg, "authentication failed") && len(out) == 0 {
		out = append(out, "🔑 Check the username and password in DATABASE_URL")
	}
	return out
}

var (
	urlCredentials = regexp.MustCompile(`://[^/@]*@`)
	dsnPassword    = regexp.MustCompile(`(password=)('[^']*'|[^\s&]+)`)
)

// maskDatabaseURL hides credentials in both URL and keyword/value forms.
func maskDatabaseURL(databaseURL string) string {
	masked := urlCredentials.ReplaceAllString(databaseURL, "://***:***@")
	return dsnPassword.ReplaceAllString(masked, "${1}***")
}
