package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lib/pq"

	"fintrack/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Missing and foreign resources both come back as 404.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if services.IsValidation(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		respondError(w, http.StatusConflict, "already exists")
		return
	}
	respondError(w, http.StatusInternalServerError, fallback)
}
