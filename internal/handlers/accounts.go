package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/validator"
)

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accounts, err := h.accounts.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	respondJSON(w, http.StatusOK, accounts)
}

type accountRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Currency      string  `json:"currency"`
	Balance       string  `json:"balance"`
	WalletAddress *string `json:"wallet_address"`
	Blockchain    *string `json:"blockchain"`
	Icon          string  `json:"icon"`
	Color         string  `json:"color"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		respondError(w, http.StatusBadRequest, "type is required")
		return
	}
	if err := validator.ValidateCurrency(req.Currency); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	balance := decimal.Zero
	if req.Balance != "" {
		parsed, err := money.Parse(req.Balance)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		balance = parsed
	}
	account := models.Account{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		Type:          req.Type,
		Currency:      req.Currency,
		Balance:       balance,
		WalletAddress: req.WalletAddress,
		Blockchain:    req.Blockchain,
		Icon:          req.Icon,
		Color:         req.Color,
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.accounts.Create(r.Context(), tx, account)
	})
	if err != nil {
		respondServiceError(w, err, "unable to create account")
		return
	}
	created, err := h.accounts.GetByIDForUser(r.Context(), account.ID, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	account, err := h.accounts.GetByIDForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// UpdateAccount edits metadata only. The balance is owned by the ledger and
// cannot be set through this endpoint.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	account, err := h.accounts.GetByIDForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	var req struct {
		Name          *string `json:"name"`
		Type          *string `json:"type"`
		Currency      *string `json:"currency"`
		WalletAddress *string `json:"wallet_address"`
		Blockchain    *string `json:"blockchain"`
		Icon          *string `json:"icon"`
		Color         *string `json:"color"`
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
		account.Name = *req.Name
	}
	if req.Type != nil {
		account.Type = *req.Type
	}
	if req.Currency != nil {
		if err := validator.ValidateCurrency(*req.Currency); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		account.Currency = *req.Currency
	}
	if req.WalletAddress != nil {
		account.WalletAddress = req.WalletAddress
	}
	if req.Blockchain != nil {
		account.Blockchain = req.Blockchain
	}
	if req.Icon != nil {
		account.Icon = *req.Icon
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if err := h.accounts.Update(r.Context(), account); err != nil {
		respondServiceError(w, err, "unable to update account")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	affected, err := h.accounts.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete account")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
