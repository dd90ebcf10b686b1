// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
	"github.com/tomtom215/tablesense/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

const dateLayout = "2006-01-02"

// errInvalidParam marks malformed path or query parameters.
var errInvalidParam = errors.New("invalid parameter")

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errInvalidParam, name, raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errInvalidParam, key, raw)
	}
	return v, nil
}

// queryDuration parses an optional Go duration such as 72h.
func queryDuration(r *http.Request, key string, def time.Duration) (time.Duration, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration, got %q", errInvalidParam, key, raw)
	}
	return d, nil
}

// parseDate parses YYYY-MM-DD as midnight UTC. Empty input returns def.
func parseDate(raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", errInvalidParam, raw)
	}
	return t, nil
}

// queryList splits a comma-separated query parameter. It returns nil
// when the parameter is absent.
func queryList(r *http.Request, key string) []string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	parts := strings.Split(r.URL.Query().Get(key), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", errInvalidParam)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", errInvalidParam, err)
	}
	return validation.Struct(dst)
}

// recommendOptions reads limit and the signals list. Without a signals
// parameter every contextual signal is on.
func recommendOptions(r *http.Request) (recommend.Options, error) {
	opts := recommend.DefaultOptions()
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return opts, err
	}
	opts.Limit = limit

	if names := queryList(r, "signals"); names != nil {
		opts.Weather, opts.Pricing, opts.Timing = false, false, false
		for _, n := range names {
			switch n {
			case recommend.SignalWeather:
				opts.Weather = true
			case recommend.SignalPriceFit, "pricing":
				opts.Pricing = true
			case recommend.SignalTiming:
				opts.Timing = true
			default:
				return opts, fmt.Errorf("%w: unknown signal %q", errInvalidParam, n)
			}
		}
	}
	return opts, validation.Struct(opts)
}

// pricingOptions reads the factors list. Without it every factor is on.
func pricingOptions(r *http.Request) (pricing.Options, error) {
	opts, err := pricing.ParseOptions(queryList(r, "factors"))
	if err != nil {
		return opts, fmt.Errorf("%w: %v", errInvalidParam, err)
	}
	return opts, nil
}

// InteractionRequest is the body of POST /interactions.
type InteractionRequest struct {
	UserID     int    `json:"user_id" validate:"required,min=1"`
	MenuItemID int    `json:"menu_item_id" validate:"required,min=1"`
	Kind       string `json:"kind" validate:"required,interaction"`
	Rating     *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

func (req InteractionRequest) toModel() models.UserItemInteraction {
	return models.UserItemInteraction{
		UserID:     req.UserID,
		MenuItemID: req.MenuItemID,
		Kind:       models.InteractionKind(req.Kind),
		Rating:     req.Rating,
	}
}

// StaffingRequest is the body of POST /restaurants/{id}/staffing.
type StaffingRequest struct {
	Date   string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Shifts []analytics.Shift `json:"shifts" validate:"omitempty,max=12,dive"`
}
