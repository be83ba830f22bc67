package main

import (
	"fmt"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/server"
	"github.com/spf13/cobra"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token for a user",
	Long: `Print a signed bearer token for --user using JWT_SECRET. Send it as
"Authorization: Bearer <token>", or store it in the dashboard with
localStorage.setItem("jobtracker.token", "<token>").`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User ID to put in the token subject (required)")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(settings, configPath)
	if err != nil {
		return err
	}

	token, err := mintToken(cfg, tokenUser)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// mintToken signs a token for userID with the configured secret.
func mintToken(cfg *config.Config, userID string) (string, error) {
	jwtCfg, err := cfg.JWT()
	if err != nil {
		return "", err
	}
	return server.NewJWTService(jwtCfg).GenerateToken(userID)
}
