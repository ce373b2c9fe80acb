package handlers

import (
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/websocket"
)

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websocket.ServeWS(w, r, h.hub, userID)
}
