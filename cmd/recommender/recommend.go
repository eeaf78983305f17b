package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-recommender/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print recommendations for a user",
	Long:  "Runs a single recommendation against the configured database and embedding provider and prints the result as JSON.",
	RunE:  runRecommend,
}

var (
	recommendUser string
	recommendTopN int
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "", "User ID (UUID) to recommend jobs for (required)")
	recommendCmd.Flags().IntVarP(&recommendTopN, "top", "n", recommend.DefaultTopN, "Number of recommendations")

	if err := recommendCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(recommendUser)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", recommendUser, err)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	svc, closeFn, err := recommend.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.Recommend(cmd.Context(), userID.String(), recommendTopN)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		*recommend.Result
		Source string `json:"source"`
	}{Result: result, Source: result.Source()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
