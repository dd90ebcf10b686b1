// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"net/http"

	"github.com/tomtom215/tablesense/internal/chatbot"
	"github.com/tomtom215/tablesense/internal/models"
)

// Chat handles POST /api/v1/chat with a chatbot.Message body.
// Engine failures still answer 200 with the bot's apology reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var msg chatbot.Message
	if err := decodeJSON(w, r, &msg); err != nil {
		respondError(w, r, err)
		return
	}
	if msg.Role == "" {
		msg.Role = models.RoleCustomer
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	reply, err := h.deps.Chatbot.Respond(ctx, msg)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(reply)
}
