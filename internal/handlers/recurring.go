package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/middleware"
	"fintrack/internal/money"
	"fintrack/internal/services"
)

type recurringRequest struct {
	AccountID   string   `json:"account_id"`
	Type        string   `json:"type"`
	Amount      string   `json:"amount"`
	Description *string  `json:"description"`
	Frequency   string   `json:"frequency"`
	NextDate    string   `json:"next_date"`
	TagIDs      []string `json:"tag_ids"`
}

func (h *Handler) CreateRecurringPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	nextDate, err := parseDate(req.NextDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid next_date, expected YYYY-MM-DD")
		return
	}
	payment, err := h.recurring.Create(r.Context(), userID, services.RecurringInput{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      amount,
		Description: req.Description,
		Frequency:   req.Frequency,
		NextDate:    nextDate,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		respondServiceError(w, err, "unable to create recurring payment")
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *Handler) ListRecurringPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var active *bool
	switch r.URL.Query().Get("active") {
	case "true":
		value := true
		active = &value
	case "false":
		value := false
		active = &value
	}
	payments, err := h.recurring.List(r.Context(), userID, active)
	if err != nil {
		respondServiceError(w, err, "unable to load recurring payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) GetRecurringPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	payment, err := h.recurring.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "unable to load recurring payment")
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *Handler) UpdateRecurringPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		AccountID   *string   `json:"account_id"`
		Type        *string   `json:"type"`
		Amount      *string   `json:"amount"`
		Description *string   `json:"description"`
		Frequency   *string   `json:"frequency"`
		NextDate    *string   `json:"next_date"`
		IsActive    *bool     `json:"is_active"`
		TagIDs      *[]string `json:"tag_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	update := services.RecurringUpdate{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Description: req.Description,
		Frequency:   req.Frequency,
		IsActive:    req.IsActive,
		TagIDs:      req.TagIDs,
	}
	if req.Amount != nil {
		amount, err := money.ParsePositive(*req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Amount = &amount
	}
	if req.NextDate != nil {
		nextDate, err := parseDate(*req.NextDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid next_date, expected YYYY-MM-DD")
			return
		}
		update.NextDate = &nextDate
	}
	payment, err := h.recurring.Update(r.Context(), userID, chi.URLParam(r, "id"), update)
	if err != nil {
		respondServiceError(w, err, "unable to update recurring payment")
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *Handler) DeleteRecurringPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.recurring.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "unable to delete recurring payment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ExecuteRecurringPayment posts one occurrence now. Each call mints a new
// transaction and advances next_date; repeating a call repeats the posting.
func (h *Handler) ExecuteRecurringPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	txn, payment, err := h.recurring.Execute(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "unable to execute recurring payment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transaction": txn,
		"payment":     payment,
	})
}
