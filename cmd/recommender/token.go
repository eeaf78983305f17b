package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-recommender/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long:  "Signs a token for the given user with JWT_SECRET, for calling the API locally.",
	RunE:  runToken,
}

var tokenUser string

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "User ID (UUID); a random one is used when empty")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	userID := uuid.New()
	if tokenUser != "" {
		parsed, err := uuid.Parse(tokenUser)
		if err != nil {
			return fmt.Errorf("invalid user ID %q: %w", tokenUser, err)
		}
		userID = parsed
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireJWT(); err != nil {
		return err
	}

	token, err := server.NewJWTService(&cfg.JWT).GenerateToken(userID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
