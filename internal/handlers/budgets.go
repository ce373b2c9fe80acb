package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	month := r.URL.Query().Get("month")
	if month != "" {
		if err := validator.ValidateMonth(month); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	budgets, err := h.budgets.ListByUser(r.Context(), userID, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load budgets")
		return
	}
	if budgets == nil {
		budgets = []store.BudgetRow{}
	}
	respondJSON(w, http.StatusOK, budgets)
}

type budgetRequest struct {
	TagID  string `json:"tag_id"`
	Amount string `json:"amount"`
	Month  string `json:"month"`
}

// UpsertBudget sets the cap for one (tag, month) pair; posting again for the
// same pair overwrites the amount.
func (h *Handler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TagID == "" {
		respondError(w, http.StatusBadRequest, "tag_id is required")
		return
	}
	if err := validator.ValidateMonth(req.Month); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.tags.GetByIDForUser(r.Context(), req.TagID, userID); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	budget, err := h.budgets.Upsert(r.Context(), models.Budget{
		ID:     uuid.NewString(),
		UserID: userID,
		TagID:  req.TagID,
		Amount: amount,
		Month:  req.Month,
	})
	if err != nil {
		respondServiceError(w, err, "unable to save budget")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	affected, err := h.budgets.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete budget")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
