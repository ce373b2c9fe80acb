package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/middleware"
)

func dateRangeFromQuery(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if value := r.URL.Query().Get("from"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if value := r.URL.Query().Get("to"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return nil, nil, err
		}
		to = &parsed
	}
	return from, to, nil
}

func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	summary, err := h.analytics.Summary(r.Context(), userID, from, to, r.URL.Query().Get("type"))
	if err != nil {
		respondServiceError(w, err, "unable to build summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) AnalyticsTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	months := 12
	if value := r.URL.Query().Get("months"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 || parsed > 60 {
			respondError(w, http.StatusBadRequest, "invalid months")
			return
		}
		months = parsed
	}
	trends, err := h.analytics.Trends(r.Context(), userID, months)
	if err != nil {
		respondServiceError(w, err, "unable to build trends")
		return
	}
	respondJSON(w, http.StatusOK, trends)
}

func (h *Handler) BalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	history, err := h.analytics.BalanceHistory(r.Context(), userID, r.URL.Query().Get("account_id"), from, to)
	if err != nil {
		respondServiceError(w, err, "unable to load balance history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *Handler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var date *time.Time
	if value := r.URL.Query().Get("date"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = &parsed
	}
	snapshots, err := h.analytics.Snapshot(r.Context(), userID, date)
	if err != nil {
		respondServiceError(w, err, "unable to take snapshot")
		return
	}
	respondJSON(w, http.StatusOK, snapshots)
}
