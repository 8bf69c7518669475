package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/citytemp-api/internal/domain/citytable"
	"github.com/FACorreiaa/citytemp-api/pkg/interceptors"
	"github.com/FACorreiaa/citytemp-api/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	jwtSecret := []byte(deps.Config.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		deps.Logger.Warn("JWT secret is empty; admin routes will reject every request")
	}
	requireAdmin := interceptors.NewAuthInterceptor(jwtSecret)

	registerPublicRoutes(mux, deps)
	registerAdminRoutes(mux, deps, requireAdmin)
	registerUtilityRoutes(mux, deps)

	var rateLimiter func(http.Handler) http.Handler
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		rateLimiter = interceptors.NewRateLimitInterceptor(limiter)
	}

	var metrics func(http.Handler) http.Handler
	if deps.Config.Observability.MetricsEnabled {
		metrics = observability.NewMetricsInterceptor()
	}

	handler := interceptors.Chain(mux,
		interceptors.NewRequestIDInterceptor("X-Request-ID"),
		interceptors.NewRecoveryInterceptor(deps.Logger),
		interceptors.NewLoggingInterceptor(deps.Logger),
		rateLimiter,
		// metrics must sit right on the mux to see the matched pattern
		metrics,
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	})

	return otelhttp.NewHandler(corsHandler.Handler(handler), "citytemp-api")
}

// registerPublicRoutes registers the front-end pages and the read-only API.
func registerPublicRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("GET /cities-table", deps.CityTableHandler.Page)
	mux.HandleFunc("POST "+citytable.SearchPath, deps.CityTableHandler.SearchFragment)
	mux.HandleFunc("GET /widgets/{id}", deps.WidgetHandler.Show)

	mux.HandleFunc("GET /api/cities", deps.CityHandler.ListCities)
	mux.HandleFunc("GET /api/cities/search", deps.CityTableHandler.SearchJSON)
	mux.HandleFunc("GET /api/cities/{id}", deps.CityHandler.GetCity)
	mux.HandleFunc("GET /api/countries", deps.CountryHandler.ListCountries)
	mux.HandleFunc("GET /api/countries/{id}", deps.CountryHandler.GetCountry)

	mux.HandleFunc("POST /api/auth/login", deps.AuthHandler.Login)

	deps.Logger.Info("public routes configured")
}

// registerAdminRoutes registers the content management API behind the admin token.
func registerAdminRoutes(mux *http.ServeMux, deps *Dependencies, requireAdmin func(http.Handler) http.Handler) {
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireAdmin(h))
	}

	admin("GET /api/admin/cities", deps.CityHandler.AdminListCities)
	admin("POST /api/admin/cities", deps.CityHandler.CreateCity)
	admin("PUT /api/admin/cities/{id}", deps.CityHandler.UpdateCity)
	admin("DELETE /api/admin/cities/{id}", deps.CityHandler.DeleteCity)

	admin("POST /api/admin/countries", deps.CountryHandler.CreateCountry)
	admin("PUT /api/admin/countries/{id}", deps.CountryHandler.UpdateCountry)
	admin("DELETE /api/admin/countries/{id}", deps.CountryHandler.DeleteCountry)

	admin("GET /api/admin/widgets", deps.WidgetHandler.ListWidgets)
	admin("POST /api/admin/widgets", deps.WidgetHandler.CreateWidget)
	admin("GET /api/admin/widgets/{id}/form", deps.WidgetHandler.Form)
	admin("PUT /api/admin/widgets/{id}", deps.WidgetHandler.UpdateWidget)
	admin("DELETE /api/admin/widgets/{id}", deps.WidgetHandler.DeleteWidget)

	admin("GET /api/admin/statistics", deps.StatsHandler.CatalogStatistics)

	deps.Logger.Info("admin routes configured")
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Health(); err != nil {
			deps.Logger.WarnContext(r.Context(), "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
