package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/config"
)

var _ Provider = (*Client)(nil)

// Provider returns the current temperature at a pair of coordinates.
type Provider interface {
	CurrentTemperature(ctx context.Context, coords types.Coordinates) (types.TemperatureReading, error)
}

// Client talks to the OpenWeatherMap current weather endpoint.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	units      string
	now        func() time.Time
}

func NewClient(cfg config.WeatherConfig, logger *slog.Logger) *Client {
	return &Client{
		logger: logger.With(slog.String("component", "weather_client")),
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		units:   cfg.Units,
		now:     time.Now,
	}
}

// currentWeatherResponse keeps only what we read. Temp is a pointer so a
// missing value can be told apart from a real 0°C.
type currentWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

func (c *Client) endpoint(lat, lon float64) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", c.units)
	q.Set("appid", c.apiKey)
	return c.baseURL + "/weather?" + q.Encode()
}

// CurrentTemperature fetches the current temperature. Coordinates that are blank
// or not numeric never reach the network.
func (c *Client) CurrentTemperature(ctx context.Context, coords types.Coordinates) (types.TemperatureReading, error) {
	ctx, span := otel.Tracer("WeatherClient").Start(ctx, "CurrentTemperature", trace.WithAttributes(
		attribute.String("weather.coordinates", coords.Key()),
	))
	defer span.End()

	l := c.logger.With(slog.String("method", "CurrentTemperature"), slog.String("coordinates", coords.Key()))

	lat, lon, err := coords.Parse()
	if err != nil {
		span.SetStatus(codes.Error, "Invalid coordinates")
		return types.TemperatureReading{}, fmt.Errorf("%w: %v", types.ErrNoCoordinates, err)
	}

	start := time.Now()
	reading, err := c.fetch(ctx, lat, lon)
	requestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(outcomeError).Inc()
		l.WarnContext(ctx, "Weather lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather lookup failed")
		return types.TemperatureReading{}, err
	}

	requestsTotal.WithLabelValues(outcomeSuccess).Inc()
	l.DebugContext(ctx, "Weather lookup succeeded", slog.Float64("celsius", reading.Celsius))
	span.SetAttributes(attribute.Float64("weather.celsius", reading.Celsius))
	span.SetStatus(codes.Ok, "Temperature retrieved")
	return reading, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (types.TemperatureReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(lat, lon), nil)
	if err != nil {
		return types.TemperatureReading{}, fmt.Errorf("failed to build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.TemperatureReading{}, fmt.Errorf("%w: request failed: %v", types.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return types.TemperatureReading{}, fmt.Errorf("%w: unexpected status %d", types.ErrUpstream, resp.StatusCode)
	}

	var body currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.TemperatureReading{}, fmt.Errorf("%w: invalid response body: %v", types.ErrUpstream, err)
	}
	if body.Main.Temp == nil {
		return types.TemperatureReading{}, fmt.Errorf("%w: response has no main.temp", types.ErrUpstream)
	}

	return types.TemperatureReading{Celsius: *body.Main.Temp, FetchedAt: c.now()}, nil
}
