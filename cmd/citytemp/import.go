package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/citytemp-api/internal/domain/city"
	"github.com/FACorreiaa/citytemp-api/internal/domain/country"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-load cities from CSV",
	Long: `Reads rows of name,country,latitude,longitude[,status] and creates the cities.
Missing countries are created on the fly. A first row starting with "name" is
treated as a header.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.RunMigrations(); err != nil {
			return err
		}

		countries := country.NewCountryService(country.NewCountryRepository(database.Pool, log), log)
		cities := city.NewCityService(city.NewCityRepository(database.Pool, log), log)
		importer := city.NewImporter(cities, countries, log)

		result, err := importer.Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			log.Warn("row skipped", slog.Any("error", e))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d cities, skipped %d\n", result.Imported, result.Skipped)
		return nil
	},
}
