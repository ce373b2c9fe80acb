package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/store"
)

func TestCreateAccountWithOpeningBalance(t *testing.T) {
	var created models.Account
	h := newTestHandler(testDeps{
		accounts: stubAccountStore{
			createFn: func(ctx context.Context, tx store.Execer, account models.Account) error {
				created = account
				return nil
			},
			getForUserFn: func(ctx context.Context, accountID, userID string) (models.Account, error) {
				return created, nil
			},
		},
	})
	body := `{"name":"Checking","type":"bank","currency":"USD","balance":"250.75"}`
	rr := doRequest(t, h, http.MethodPost, "/accounts", strings.NewReader(body), "user-1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !created.Balance.Equal(dec("250.75")) {
		t.Fatalf("opening balance not applied: %s", created.Balance)
	}
	if created.UserID != "user-1" {
		t.Fatalf("account must belong to the caller")
	}
}

func TestCreateAccountRejectsLowercaseCurrency(t *testing.T) {
	h := newTestHandler(testDeps{})
	body := `{"name":"Checking","type":"bank","currency":"usd"}`
	rr := doRequest(t, h, http.MethodPost, "/accounts", strings.NewReader(body), "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// The update payload has no balance field at all: even a client that sends
// one cannot move money outside the ledger.
func TestUpdateAccountIgnoresBalance(t *testing.T) {
	existing := models.Account{ID: "acct-1", UserID: "user-1", Name: "Old", Type: "bank", Currency: "USD", Balance: dec("500")}
	var updated models.Account
	h := newTestHandler(testDeps{
		accounts: stubAccountStore{
			getForUserFn: func(ctx context.Context, accountID, userID string) (models.Account, error) {
				return existing, nil
			},
			updateFn: func(ctx context.Context, account models.Account) error {
				updated = account
				return nil
			},
		},
	})
	body := `{"name":"New name","balance":"999999"}`
	rr := doRequest(t, h, http.MethodPut, "/accounts/acct-1", strings.NewReader(body), "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if updated.Name != "New name" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if !updated.Balance.Equal(dec("500")) {
		t.Fatalf("balance must be untouched, got %s", updated.Balance)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	h := newTestHandler(testDeps{
		accounts: stubAccountStore{
			getForUserFn: func(ctx context.Context, accountID, userID string) (models.Account, error) {
				return models.Account{}, sql.ErrNoRows
			},
		},
	})
	rr := doRequest(t, h, http.MethodGet, "/accounts/missing", nil, "user-1")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
