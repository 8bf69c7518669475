package city

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

// CountryResolver finds or creates a country by its display name.
type CountryResolver interface {
	EnsureByName(ctx context.Context, name string) (*types.Country, error)
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// Importer bulk-loads cities from CSV rows: name,country,latitude,longitude[,status].
// A first row starting with "name" is treated as a header.
type Importer struct {
	cities    Service
	countries CountryResolver
	logger    *slog.Logger
}

func NewImporter(cities Service, countries CountryResolver, logger *slog.Logger) *Importer {
	return &Importer{
		cities:    cities,
		countries: countries,
		logger:    logger,
	}
}

type importError struct {
	line int
	err  error
}

func (e *importError) Error() string { return fmt.Sprintf("line %d: %v", e.line, e.err) }
func (e *importError) Unwrap() error { return e.err }

// Import reads every record and creates the cities. Bad records are skipped and
// reported in the result; only read errors abort the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	l := im.logger.With(slog.String("method", "Import"))

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	countryIDs := make(map[string]*types.Country)
	result := &ImportResult{}
	line := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return result, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		params, countryName, err := parseRecord(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, &importError{line: line, err: err})
			continue
		}

		if countryName != "" {
			key := strings.ToLower(countryName)
			c, ok := countryIDs[key]
			if !ok {
				c, err = im.countries.EnsureByName(ctx, countryName)
				if err != nil {
					result.Skipped++
					result.Errors = append(result.Errors, &importError{line: line, err: err})
					continue
				}
				countryIDs[key] = c
			}
			params.CountryID = &c.ID
		}

		if _, err := im.cities.CreateCity(ctx, params); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, &importError{line: line, err: err})
			continue
		}
		result.Imported++
	}

	l.InfoContext(ctx, "City import finished",
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

func parseRecord(record []string) (types.CreateCityParams, string, error) {
	if len(record) < 4 {
		return types.CreateCityParams{}, "", fmt.Errorf("%w: expected at least 4 fields, got %d", types.ErrBadRequest, len(record))
	}
	params := types.CreateCityParams{
		Name:      record[0],
		Latitude:  record[2],
		Longitude: record[3],
	}
	if len(record) > 4 {
		params.Status = strings.TrimSpace(record[4])
	}
	return params, strings.TrimSpace(record[1]), nil
}
