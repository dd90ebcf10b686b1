// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/chatbot"
	"github.com/tomtom215/tablesense/internal/logging"
	"github.com/tomtom215/tablesense/internal/orchestrator"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
	"github.com/tomtom215/tablesense/internal/store"
	"github.com/tomtom215/tablesense/internal/validation"
)

// errorStatus maps an engine error to a status code and error code.
func errorStatus(err error) (int, string) {
	switch {
	case validation.IsValidationError(err):
		return http.StatusBadRequest, ErrCodeValidationFailed
	case errors.Is(err, errInvalidParam),
		analytics.IsInvalidInput(err),
		errors.Is(err, recommend.ErrInvalidInteraction),
		errors.Is(err, chatbot.ErrEmptyMessage):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, store.ErrItemUnavailable), errors.Is(err, pricing.ErrInvalidPrice):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, orchestrator.ErrFeatureDisabled):
		return http.StatusServiceUnavailable, ErrCodeFeatureDisabled
	case errors.Is(err, store.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondError writes err as an error envelope. Internal errors are logged
// and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	status, code := errorStatus(err)

	var ve *validation.Error
	if errors.As(err, &ve) {
		rw.ErrorWithDetails(status, code, "request validation failed", ve.Fields)
		return
	}

	switch status {
	case http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		rw.Error(status, code, "internal error")
	case http.StatusServiceUnavailable:
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("request failed")
		rw.Error(status, code, err.Error())
	default:
		rw.Error(status, code, err.Error())
	}
}
