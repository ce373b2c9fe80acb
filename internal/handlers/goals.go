package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	goals, err := h.goals.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load goals")
		return
	}
	if goals == nil {
		goals = []store.GoalRow{}
	}
	respondJSON(w, http.StatusOK, goals)
}

type goalRequest struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	target, err := money.ParsePositive(req.TargetAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.accounts.GetByIDForUser(r.Context(), req.AccountID, userID); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	goal := models.Goal{
		ID:           uuid.NewString(),
		UserID:       userID,
		AccountID:    req.AccountID,
		Name:         req.Name,
		TargetAmount: target,
	}
	if err := h.goals.Create(r.Context(), goal); err != nil {
		respondServiceError(w, err, "unable to create goal")
		return
	}
	created, err := h.goals.GetByIDForUser(r.Context(), goal.ID, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load goal")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	goal, err := h.goals.GetByIDForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load goal")
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	existing, err := h.goals.GetByIDForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	var req struct {
		AccountID    *string `json:"account_id"`
		Name         *string `json:"name"`
		TargetAmount *string `json:"target_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	goal := existing.Goal
	if req.AccountID != nil {
		if _, err := h.accounts.GetByIDForUser(r.Context(), *req.AccountID, userID); err != nil {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		goal.AccountID = *req.AccountID
	}
	if req.Name != nil {
		if err := validator.ValidateName(*req.Name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		goal.Name = *req.Name
	}
	if req.TargetAmount != nil {
		target, err := money.ParsePositive(*req.TargetAmount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		goal.TargetAmount = target
	}
	affected, err := h.goals.Update(r.Context(), goal)
	if err != nil {
		respondServiceError(w, err, "unable to update goal")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	updated, err := h.goals.GetByIDForUser(r.Context(), goal.ID, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load goal")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	affected, err := h.goals.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete goal")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
