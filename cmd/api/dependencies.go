package api

import (
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/citytemp-api/internal/domain/auth"
	"github.com/FACorreiaa/citytemp-api/internal/domain/city"
	"github.com/FACorreiaa/citytemp-api/internal/domain/citytable"
	"github.com/FACorreiaa/citytemp-api/internal/domain/country"
	"github.com/FACorreiaa/citytemp-api/internal/domain/statistics"
	"github.com/FACorreiaa/citytemp-api/internal/domain/weather"
	"github.com/FACorreiaa/citytemp-api/internal/domain/widget"
	"github.com/FACorreiaa/citytemp-api/pkg/config"
	"github.com/FACorreiaa/citytemp-api/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Health reports whether the database answers.
	Health func() error

	// Repositories
	CountryRepo country.Repository
	CityRepo    city.Repository
	WidgetRepo  widget.Repository
	StatsRepo   statistics.Repository

	// Services
	Weather      weather.Provider
	CountrySvc   country.Service
	CitySvc      city.Service
	CityTableSvc citytable.Service
	WidgetSvc    widget.Service
	AuthSvc      auth.Service
	StatsSvc     statistics.Service
	CityImporter *city.Importer

	// Handlers
	CountryHandler   *country.Handler
	CityHandler      *city.Handler
	CityTableHandler *citytable.Handler
	WidgetHandler    *widget.Handler
	AuthHandler      *auth.Handler
	StatsHandler     *statistics.Handler
}

// InitDependencies connects to the database, applies migrations and wires
// every layer on top of the pool.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database connected and migrations completed successfully")

	deps := newDependencies(cfg, logger, database.Pool)
	deps.DB = database
	deps.Health = database.Health

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// newDependencies wires repositories, services and handlers on any Querier.
func newDependencies(cfg *config.Config, logger *slog.Logger, pool db.Querier) *Dependencies {
	d := &Dependencies{
		Config: cfg,
		Logger: logger,
		Health: func() error { return nil },
	}
	d.initRepositories(pool)
	d.initServices()
	d.initHandlers()
	return d
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories(pool db.Querier) {
	d.CountryRepo = country.NewCountryRepository(pool, d.Logger.With(slog.String("component", "country_repository")))
	d.CityRepo = city.NewCityRepository(pool, d.Logger.With(slog.String("component", "city_repository")))
	d.WidgetRepo = widget.NewWidgetRepository(pool, d.Logger.With(slog.String("component", "widget_repository")))
	d.StatsRepo = statistics.NewRepository(d.Logger.With(slog.String("component", "statistics_repository")), pool)
	d.Logger.Info("repositories initialized")
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() {
	wcfg := d.Config.Weather
	if wcfg.APIKey == "" {
		d.Logger.Warn("weather API key is empty; temperatures will be left blank")
	}
	d.Weather = weather.NewCachedProvider(weather.NewClient(wcfg, d.Logger), wcfg.CacheTTL, d.Logger)

	d.CountrySvc = country.NewCountryService(d.CountryRepo, d.Logger.With(slog.String("component", "country_service")))
	d.CitySvc = city.NewCityService(d.CityRepo, d.Logger.With(slog.String("component", "city_service")))
	d.CityTableSvc = citytable.NewCityTableService(d.CitySvc, d.Weather, wcfg.MaxConcurrency, wcfg.RequestTimeout,
		d.Logger.With(slog.String("component", "citytable_service")))
	d.WidgetSvc = widget.NewWidgetService(d.WidgetRepo, d.CitySvc, d.Weather, wcfg.RequestTimeout,
		d.Logger.With(slog.String("component", "widget_service")))
	d.AuthSvc = auth.NewAuthService(d.Config.Auth, d.Logger.With(slog.String("component", "auth_service")))
	d.StatsSvc = statistics.NewService(d.StatsRepo, d.Logger.With(slog.String("component", "statistics_service")))
	d.CityImporter = city.NewImporter(d.CitySvc, d.CountrySvc, d.Logger.With(slog.String("component", "city_import")))

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.CountryHandler = country.NewHandler(d.CountrySvc, d.Logger)
	d.CityHandler = city.NewHandler(d.CitySvc, d.Logger)
	d.CityTableHandler = citytable.NewHandler(d.CityTableSvc, d.Logger)
	d.WidgetHandler = widget.NewHandler(d.WidgetSvc, d.Logger)
	d.AuthHandler = auth.NewHandler(d.AuthSvc, d.Logger)
	d.StatsHandler = statistics.NewHandler(d.StatsSvc)
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
