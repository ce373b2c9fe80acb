package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/validator"
)

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tags, err := h.tags.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load tags")
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, tags)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tag := models.Tag{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := h.tags.Create(r.Context(), tag); err != nil {
		respondServiceError(w, err, "unable to create tag")
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	existing, err := h.tags.GetByIDForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name != nil {
		if err := validator.ValidateName(*req.Name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		existing.Name = *req.Name
	}
	if req.Color != nil {
		existing.Color = *req.Color
	}
	if req.Icon != nil {
		existing.Icon = *req.Icon
	}
	affected, err := h.tags.Update(r.Context(), existing)
	if err != nil {
		respondServiceError(w, err, "unable to update tag")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	affected, err := h.tags.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete tag")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
