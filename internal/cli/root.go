package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// A .env file is optional; the environment wins when both are set
	_ = godotenv.Load()

	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "soundround",
		Short: "Classroom listening-quiz game server",
		Long: `soundround runs the classroom listening-quiz game: teachers open rooms,
play vowel sounds, and students race to identify them individually or in
groups.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Host, "host", cfg.Host, "Listen host (env: SOUNDROUND_HOST)")
	rootCmd.PersistentFlags().IntVar(&cfg.Port, "port", cfg.Port, "Listen port (env: SOUNDROUND_PORT)")
	rootCmd.PersistentFlags().StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Storage backend: memory, redis (env: STORAGE_TYPE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis connection URL (env: REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: LOG_LEVEL)")

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
