package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/suggestions"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/spf13/cobra"
)

var (
	suggestJobURL  string
	suggestJobFile string
	suggestCVFile  string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the model how to tailor a CV for a job posting",
	Long: `Generate CV suggestions for a posting given either as --job-url or as a
text file with --job. --cv optionally points at the current CV as plain text.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestJobURL, "job-url", "", "URL of the job posting")
	suggestCmd.Flags().StringVar(&suggestJobFile, "job", "", "Path to a file containing the job description")
	suggestCmd.Flags().StringVar(&suggestCVFile, "cv", "", "Path to a file containing the current CV")
	suggestCmd.MarkFlagsMutuallyExclusive("job-url", "job")
	suggestCmd.MarkFlagsOneRequired("job-url", "job")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	req, err := suggestionRequest(suggestJobURL, suggestJobFile, suggestCVFile)
	if err != nil {
		return err
	}

	svc, closeAI := newSuggestionService(cmd.Context(), cfg, logger)
	defer closeAI()

	return printSuggestion(cmd.Context(), cmd.OutOrStdout(), svc, req)
}

// suggestionRequest assembles a request from the command line inputs.
func suggestionRequest(jobURL, jobFile, cvFile string) (types.CVSuggestionRequest, error) {
	req := types.CVSuggestionRequest{JobURL: jobURL}

	if jobFile != "" {
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return req, fmt.Errorf("failed to read job description: %w", err)
		}
		req.JobDescription = string(data)
	}

	if cvFile != "" {
		data, err := os.ReadFile(cvFile)
		if err != nil {
			return req, fmt.Errorf("failed to read CV: %w", err)
		}
		req.CurrentCV = string(data)
	}

	return req, req.Validate()
}

// printSuggestion generates suggestions for req and prints them. When the
// model cannot be reached the fallback advice is printed along with the error.
func printSuggestion(ctx context.Context, out io.Writer, svc *suggestions.Service, req types.CVSuggestionRequest) error {
	printer := observability.NewPrinter(out)

	suggestion, err := svc.Generate(ctx, req)
	if errors.Is(err, suggestions.ErrGeneration) {
		fallback := suggestions.CallFailureFallback()
		printer.PrintSuggestion(&fallback)
		return err
	}
	if err != nil {
		return err
	}

	printer.PrintSuggestion(suggestion)
	return nil
}
