package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/citytemp-api/pkg/config"
	"github.com/FACorreiaa/citytemp-api/pkg/db"
	"github.com/FACorreiaa/citytemp-api/pkg/logger"
)

var (
	// Global flags
	configFile string

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "citytemp",
	Short: "Cities, countries and their current temperature",
	Long: `citytemp serves a searchable table of cities with the current temperature
from OpenWeatherMap, a temperature widget per city, and an admin API to manage
cities, countries and widgets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log = logger.New(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
		slog.SetDefault(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd, migrateCmd, importCmd, hashPasswordCmd)
}

// openDB connects without wiring the rest of the application.
func openDB() (*db.DB, error) {
	return db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
