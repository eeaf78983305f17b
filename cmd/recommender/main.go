// Package main provides the entry point for the job recommender API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/job-recommender/internal/config"
	"github.com/jonathan/job-recommender/internal/logger"
)

var (
	configFile string
	settings   = viper.New()
)

var rootCmd = &cobra.Command{
	Use:          "recommender",
	Short:        "Job recommendation service",
	Long:         "Ranks job postings against a user's skills using text embeddings, falling back to keyword overlap when the embedding provider is unavailable.",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML or JSON config file")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("json", false, "Log in JSON format")

	mustBind("log.debug", "debug")
	mustBind("log.json", "json")
}

// mustBind binds a persistent root flag to a settings key
func mustBind(key, flag string) {
	if err := settings.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
	}
}

// loadConfig reads settings and builds the logger shared by all commands.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(settings, configFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
