package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/store"
)

// BalanceEngine is the only component that mutates account balances. Every
// posting is expressed as signed deltas executed as atomic increments inside
// the caller's transaction, so concurrent postings against one account never
// lose updates and both sides of a transfer land together or not at all.
type BalanceEngine struct {
	accounts BalanceStore
}

type BalanceStore interface {
	AdjustBalance(ctx context.Context, tx store.Getter, accountID string, delta decimal.Decimal) (decimal.Decimal, error)
}

func NewBalanceEngine(accounts BalanceStore) *BalanceEngine {
	return &BalanceEngine{accounts: accounts}
}

// BalanceChange reports the post-adjustment balance of one touched account.
type BalanceChange struct {
	AccountID string
	Balance   decimal.Decimal
}

type balanceDelta struct {
	accountID string
	delta     decimal.Decimal
}

// Apply posts the transaction's balance effect: income credits the source
// account, expense debits it, transfer debits the source and credits the
// target with targetAmount (or amount when targetAmount is unset).
func (e *BalanceEngine) Apply(ctx context.Context, tx store.Getter, txn models.Transaction) ([]BalanceChange, error) {
	return e.run(ctx, tx, deltasFor(txn))
}

// Reverse applies the exact algebraic inverse of Apply for the transaction's
// stored amounts. Reverse(Apply(t)) restores every touched balance exactly.
func (e *BalanceEngine) Reverse(ctx context.Context, tx store.Getter, txn models.Transaction) ([]BalanceChange, error) {
	deltas := deltasFor(txn)
	for i := range deltas {
		deltas[i].delta = deltas[i].delta.Neg()
	}
	return e.run(ctx, tx, deltas)
}

func (e *BalanceEngine) run(ctx context.Context, tx store.Getter, deltas []balanceDelta) ([]BalanceChange, error) {
	changes := make([]BalanceChange, 0, len(deltas))
	for _, d := range deltas {
		balance, err := e.accounts.AdjustBalance(ctx, tx, d.accountID, d.delta)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: account %s missing during balance adjustment", ErrConsistency, d.accountID)
			}
			return nil, err
		}
		changes = append(changes, BalanceChange{AccountID: d.accountID, Balance: balance})
	}
	return changes, nil
}

func deltasFor(txn models.Transaction) []balanceDelta {
	switch txn.Type {
	case models.TransactionIncome:
		return []balanceDelta{{accountID: txn.AccountID, delta: txn.Amount}}
	case models.TransactionExpense:
		return []balanceDelta{{accountID: txn.AccountID, delta: txn.Amount.Neg()}}
	case models.TransactionTransfer:
		deltas := []balanceDelta{{accountID: txn.AccountID, delta: txn.Amount.Neg()}}
		if txn.TargetAccountID != nil {
			deltas = append(deltas, balanceDelta{accountID: *txn.TargetAccountID, delta: txn.TargetEffect()})
		}
		return deltas
	}
	return nil
}
