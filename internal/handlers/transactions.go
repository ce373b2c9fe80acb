package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/middleware"
	"fintrack/internal/money"
	"fintrack/internal/services"
)

type transactionRequest struct {
	AccountID       string   `json:"account_id"`
	Type            string   `json:"type"`
	Amount          string   `json:"amount"`
	Currency        string   `json:"currency"`
	TargetAccountID *string  `json:"target_account_id"`
	TargetAmount    *string  `json:"target_amount"`
	Description     *string  `json:"description"`
	Date            *string  `json:"date"`
	TagIDs          []string `json:"tag_ids"`
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input := services.TransactionInput{
		AccountID:       req.AccountID,
		Type:            req.Type,
		Amount:          amount,
		Currency:        req.Currency,
		TargetAccountID: req.TargetAccountID,
		Description:     req.Description,
		TagIDs:          req.TagIDs,
	}
	if req.TargetAmount != nil {
		targetAmount, err := money.Parse(*req.TargetAmount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.TargetAmount = &targetAmount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}
	txn, err := h.ledger.Create(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, err, "unable to create transaction")
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	txn, err := h.ledger.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "unable to load transaction")
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		AccountID       *string   `json:"account_id"`
		Type            *string   `json:"type"`
		Amount          *string   `json:"amount"`
		Currency        *string   `json:"currency"`
		TargetAccountID *string   `json:"target_account_id"`
		TargetAmount    *string   `json:"target_amount"`
		Description     *string   `json:"description"`
		Date            *string   `json:"date"`
		TagIDs          *[]string `json:"tag_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	update := services.TransactionUpdate{
		AccountID:       req.AccountID,
		Type:            req.Type,
		Currency:        req.Currency,
		TargetAccountID: req.TargetAccountID,
		Description:     req.Description,
		TagIDs:          req.TagIDs,
	}
	if req.Amount != nil {
		amount, err := money.Parse(*req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Amount = &amount
	}
	if req.TargetAmount != nil {
		targetAmount, err := money.Parse(*req.TargetAmount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.TargetAmount = &targetAmount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		update.Date = &date
	}
	txn, err := h.ledger.Update(r.Context(), userID, chi.URLParam(r, "id"), update)
	if err != nil {
		respondServiceError(w, err, "unable to update transaction")
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.ledger.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "unable to delete transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	filters := services.ListFilters{
		AccountID: query.Get("account_id"),
		Type:      query.Get("type"),
		TagID:     query.Get("tag_id"),
	}
	if value := query.Get("from"); value != "" {
		from, err := parseDate(value)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		filters.From = &from
	}
	if value := query.Get("to"); value != "" {
		to, err := parseDate(value)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		filters.To = &to
	}
	if value := query.Get("limit"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filters.Limit = limit
	}
	if value := query.Get("offset"); value != "" {
		offset, err := strconv.Atoi(value)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filters.Offset = offset
	}
	transactions, total, err := h.ledger.List(r.Context(), userID, filters)
	if err != nil {
		respondServiceError(w, err, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"total":        total,
	})
}
