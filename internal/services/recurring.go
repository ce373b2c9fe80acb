package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

// RecurringService manages payment templates and mints real ledger
// transactions from them. Execution is externally driven: callers decide
// when a payment is due and each Execute call posts exactly one
// transaction, then advances next_date.
type RecurringService struct {
	txRunner db.TxRunner
	payments RecurringPaymentStore
	accounts AccountStore
	tags     RecurringTagStore
	ledger   TransactionCreator
	now      func() time.Time
}

type RecurringPaymentStore interface {
	Create(ctx context.Context, tx store.Execer, payment models.RecurringPayment) error
	ListByUser(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error)
	GetByIDForUser(ctx context.Context, paymentID, userID string) (models.RecurringPayment, error)
	Update(ctx context.Context, tx store.Execer, payment models.RecurringPayment) error
	AdvanceNextDate(ctx context.Context, paymentID string, nextDate time.Time) error
	Delete(ctx context.Context, paymentID, userID string) (int64, error)
}

type RecurringTagStore interface {
	ForRecurringPayments(ctx context.Context, paymentIDs []string) (map[string][]models.Tag, error)
	LinkRecurringPayment(ctx context.Context, tx store.Execer, paymentID string, tagIDs []string) error
	UnlinkRecurringPayment(ctx context.Context, tx store.Execer, paymentID string) error
}

type TransactionCreator interface {
	Create(ctx context.Context, userID string, input TransactionInput) (models.Transaction, error)
}

func NewRecurringService(txRunner db.TxRunner, payments RecurringPaymentStore, accounts AccountStore, tags RecurringTagStore, ledger TransactionCreator) *RecurringService {
	return &RecurringService{
		txRunner: txRunner,
		payments: payments,
		accounts: accounts,
		tags:     tags,
		ledger:   ledger,
		now:      time.Now,
	}
}

type RecurringInput struct {
	AccountID   string
	Type        string
	Amount      decimal.Decimal
	Description *string
	Frequency   string
	NextDate    time.Time
	TagIDs      []string
}

type RecurringUpdate struct {
	AccountID   *string
	Type        *string
	Amount      *decimal.Decimal
	Description *string
	Frequency   *string
	NextDate    *time.Time
	IsActive    *bool
	TagIDs      *[]string
}

func validFrequency(f string) bool {
	switch f {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
		return true
	}
	return false
}

func (s *RecurringService) Create(ctx context.Context, userID string, input RecurringInput) (models.RecurringPayment, error) {
	if input.AccountID == "" || input.Type == "" || input.Frequency == "" || input.NextDate.IsZero() {
		return models.RecurringPayment{}, validationErrorf("account_id, type, amount, frequency, next_date are required")
	}
	if input.Type != models.TransactionIncome && input.Type != models.TransactionExpense {
		return models.RecurringPayment{}, validationErrorf("recurring payments support income and expense only")
	}
	if !validFrequency(input.Frequency) {
		return models.RecurringPayment{}, validationErrorf("unknown frequency %q", input.Frequency)
	}
	if !input.Amount.IsPositive() {
		return models.RecurringPayment{}, validationErrorf("amount must be positive")
	}
	if _, err := s.accounts.GetByIDForUser(ctx, input.AccountID, userID); err != nil {
		return models.RecurringPayment{}, mapNoRows(err)
	}

	payment := models.RecurringPayment{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountID:   input.AccountID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Frequency:   input.Frequency,
		NextDate:    truncateToDay(input.NextDate),
		IsActive:    true,
		CreatedAt:   s.now(),
		Tags:        []models.Tag{},
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return err
		}
		if len(input.TagIDs) > 0 {
			return s.tags.LinkRecurringPayment(ctx, tx, payment.ID, input.TagIDs)
		}
		return nil
	})
	if err != nil {
		return models.RecurringPayment{}, err
	}
	if len(input.TagIDs) > 0 {
		byPayment, err := s.tags.ForRecurringPayments(ctx, []string{payment.ID})
		if err == nil {
			payment.Tags = byPayment[payment.ID]
		}
	}
	return payment, nil
}

func (s *RecurringService) List(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error) {
	payments, err := s.payments.ListByUser(ctx, userID, active)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(payments))
	for _, payment := range payments {
		ids = append(ids, payment.ID)
	}
	byPayment, err := s.tags.ForRecurringPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		payments[i].Tags = byPayment[payments[i].ID]
		if payments[i].Tags == nil {
			payments[i].Tags = []models.Tag{}
		}
	}
	return payments, nil
}

func (s *RecurringService) Get(ctx context.Context, userID, paymentID string) (models.RecurringPayment, error) {
	payment, err := s.payments.GetByIDForUser(ctx, paymentID, userID)
	if err != nil {
		return models.RecurringPayment{}, mapNoRows(err)
	}
	byPayment, err := s.tags.ForRecurringPayments(ctx, []string{payment.ID})
	if err != nil {
		return models.RecurringPayment{}, err
	}
	payment.Tags = byPayment[payment.ID]
	if payment.Tags == nil {
		payment.Tags = []models.Tag{}
	}
	return payment, nil
}

func (s *RecurringService) Update(ctx context.Context, userID, paymentID string, update RecurringUpdate) (models.RecurringPayment, error) {
	payment, err := s.payments.GetByIDForUser(ctx, paymentID, userID)
	if err != nil {
		return models.RecurringPayment{}, mapNoRows(err)
	}
	if update.AccountID != nil {
		payment.AccountID = *update.AccountID
	}
	if update.Type != nil {
		payment.Type = *update.Type
	}
	if update.Amount != nil {
		payment.Amount = *update.Amount
	}
	if update.Description != nil {
		payment.Description = update.Description
	}
	if update.Frequency != nil {
		payment.Frequency = *update.Frequency
	}
	if update.NextDate != nil {
		payment.NextDate = truncateToDay(*update.NextDate)
	}
	if update.IsActive != nil {
		payment.IsActive = *update.IsActive
	}
	if payment.Type != models.TransactionIncome && payment.Type != models.TransactionExpense {
		return models.RecurringPayment{}, validationErrorf("recurring payments support income and expense only")
	}
	if !validFrequency(payment.Frequency) {
		return models.RecurringPayment{}, validationErrorf("unknown frequency %q", payment.Frequency)
	}
	if !payment.Amount.IsPositive() {
		return models.RecurringPayment{}, validationErrorf("amount must be positive")
	}
	if update.AccountID != nil {
		if _, err := s.accounts.GetByIDForUser(ctx, payment.AccountID, userID); err != nil {
			return models.RecurringPayment{}, mapNoRows(err)
		}
	}

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.payments.Update(ctx, tx, payment); err != nil {
			return err
		}
		if update.TagIDs != nil {
			if err := s.tags.UnlinkRecurringPayment(ctx, tx, payment.ID); err != nil {
				return err
			}
			if len(*update.TagIDs) > 0 {
				return s.tags.LinkRecurringPayment(ctx, tx, payment.ID, *update.TagIDs)
			}
		}
		return nil
	})
	if err != nil {
		return models.RecurringPayment{}, err
	}
	byPayment, err := s.tags.ForRecurringPayments(ctx, []string{payment.ID})
	if err == nil {
		payment.Tags = byPayment[payment.ID]
	}
	if payment.Tags == nil {
		payment.Tags = []models.Tag{}
	}
	return payment, nil
}

func (s *RecurringService) Delete(ctx context.Context, userID, paymentID string) error {
	affected, err := s.payments.Delete(ctx, paymentID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Execute posts one transaction from the payment template, dated at the
// current next_date, and advances next_date by one period. It does not check
// whether the payment is due; that decision belongs to the caller, and
// repeated calls post repeated transactions.
func (s *RecurringService) Execute(ctx context.Context, userID, paymentID string) (models.Transaction, models.RecurringPayment, error) {
	payment, err := s.payments.GetByIDForUser(ctx, paymentID, userID)
	if err != nil {
		return models.Transaction{}, models.RecurringPayment{}, mapNoRows(err)
	}
	account, err := s.accounts.GetByIDForUser(ctx, payment.AccountID, userID)
	if err != nil {
		return models.Transaction{}, models.RecurringPayment{}, mapNoRows(err)
	}
	byPayment, err := s.tags.ForRecurringPayments(ctx, []string{payment.ID})
	if err != nil {
		return models.Transaction{}, models.RecurringPayment{}, err
	}
	tagIDs := make([]string, 0, len(byPayment[payment.ID]))
	for _, tag := range byPayment[payment.ID] {
		tagIDs = append(tagIDs, tag.ID)
	}

	date := payment.NextDate
	txn, err := s.ledger.Create(ctx, userID, TransactionInput{
		AccountID:   payment.AccountID,
		Type:        payment.Type,
		Amount:      payment.Amount,
		Currency:    account.Currency,
		Description: payment.Description,
		Date:        &date,
		TagIDs:      tagIDs,
	})
	if err != nil {
		return models.Transaction{}, models.RecurringPayment{}, err
	}

	payment.NextDate = Advance(payment.NextDate, payment.Frequency)
	if err := s.payments.AdvanceNextDate(ctx, payment.ID, payment.NextDate); err != nil {
		return models.Transaction{}, models.RecurringPayment{}, err
	}
	return txn, payment, nil
}
