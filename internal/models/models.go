package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID              string    `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	DisplayCurrency string    `db:"display_currency" json:"display_currency"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Account struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	Name          string          `db:"name" json:"name"`
	Type          string          `db:"type" json:"type"`
	Currency      string          `db:"currency" json:"currency"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	WalletAddress *string         `db:"wallet_address" json:"wallet_address,omitempty"`
	Blockchain    *string         `db:"blockchain" json:"blockchain,omitempty"`
	LastSyncedAt  *time.Time      `db:"last_synced_at" json:"last_synced_at,omitempty"`
	Icon          string          `db:"icon" json:"icon"`
	Color         string          `db:"color" json:"color"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

type Transaction struct {
	ID              string           `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"user_id"`
	AccountID       string           `db:"account_id" json:"account_id"`
	Type            string           `db:"type" json:"type"`
	Amount          decimal.Decimal  `db:"amount" json:"amount"`
	Currency        string           `db:"currency" json:"currency"`
	TargetAccountID *string          `db:"target_account_id" json:"target_account_id,omitempty"`
	TargetAmount    *decimal.Decimal `db:"target_amount" json:"target_amount,omitempty"`
	Description     *string          `db:"description" json:"description,omitempty"`
	Date            time.Time        `db:"date" json:"date"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	Tags            []Tag            `db:"-" json:"tags"`
}

// TargetEffect is the amount credited to the target account of a transfer:
// targetAmount when set, otherwise the source amount.
func (t Transaction) TargetEffect() decimal.Decimal {
	if t.TargetAmount != nil {
		return *t.TargetAmount
	}
	return t.Amount
}

type Tag struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
	Color  string `db:"color" json:"color"`
	Icon   string `db:"icon" json:"icon"`
}

type Budget struct {
	ID     string          `db:"id" json:"id"`
	UserID string          `db:"user_id" json:"user_id"`
	TagID  string          `db:"tag_id" json:"tag_id"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
	Month  string          `db:"month" json:"month"`
}

type Goal struct {
	ID           string          `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"user_id"`
	AccountID    string          `db:"account_id" json:"account_id"`
	Name         string          `db:"name" json:"name"`
	TargetAmount decimal.Decimal `db:"target_amount" json:"target_amount"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

type RecurringPayment struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	AccountID   string          `db:"account_id" json:"account_id"`
	Type        string          `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description *string         `db:"description" json:"description,omitempty"`
	Frequency   string          `db:"frequency" json:"frequency"`
	NextDate    time.Time       `db:"next_date" json:"next_date"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	Tags        []Tag           `db:"-" json:"tags"`
}

type BalanceSnapshot struct {
	ID        string          `db:"id" json:"id"`
	AccountID string          `db:"account_id" json:"account_id"`
	Date      time.Time       `db:"date" json:"date"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
