// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package signals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tablesense/internal/metrics"
)

// HTTPWeather queries a JSON weather endpoint behind a circuit breaker.
//
// The endpoint is called as GET {baseURL}?restaurant_id={id} and must answer
// with {"condition": "rainy", "temperature_f": 54.5}. Unknown conditions are
// derived from the temperature.
type HTTPWeather struct {
	client  *http.Client
	baseURL string
	cb      *gobreaker.CircuitBreaker[Weather]
	logger  zerolog.Logger
}

// NewHTTPWeather creates a weather provider for baseURL.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPWeather(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPWeather {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	const cbName = "weather-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	log := logger.With().Str("component", "signals").Str("provider", "http-weather").Logger()
	return &HTTPWeather{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
		cb: gobreaker.NewCircuitBreaker[Weather](gobreaker.Settings{
			Name:        cbName,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
				metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			},
		}),
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// CurrentWeather fetches the current weather for a restaurant.
func (h *HTTPWeather) CurrentWeather(ctx context.Context, restaurantID int) (Weather, error) {
	w, err := h.cb.Execute(func() (Weather, error) {
		return h.fetch(ctx, restaurantID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			h.logger.Debug().Int("restaurant_id", restaurantID).Msg("weather circuit open, skipping request")
		}
		return Weather{}, fmt.Errorf("weather for restaurant %d: %w", restaurantID, err)
	}
	return w, nil
}

func (h *HTTPWeather) fetch(ctx context.Context, restaurantID int) (Weather, error) {
	url := fmt.Sprintf("%s?restaurant_id=%d", h.baseURL, restaurantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Weather{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Weather{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Weather{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var w Weather
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return Weather{}, fmt.Errorf("failed to decode weather: %w", err)
	}
	w.Condition = normalizeCondition(w)
	return w, nil
}

func normalizeCondition(w Weather) string {
	switch c := strings.ToLower(strings.TrimSpace(w.Condition)); c {
	case ConditionSunny, ConditionHot, ConditionCold, ConditionRainy, ConditionMild:
		return c
	case "rain", "drizzle", "storm", "thunderstorm", "showers":
		return ConditionRainy
	case "snow", "sleet", "freezing":
		return ConditionCold
	}
	switch {
	case w.TemperatureF >= 85:
		return ConditionHot
	case w.TemperatureF <= 45:
		return ConditionCold
	default:
		return ConditionMild
	}
}
