package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type RateSource interface {
	Rate(ctx context.Context, code string) (float64, error)
	Base() string
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type BudgetUpdater interface {
	ApplyDelta(ctx context.Context, userID uuid.UUID, category string, amount float64, typ models.TransactionType, occurredOn time.Time)
}

type GoalUpdater interface {
	ApplyDelta(ctx context.Context, userID uuid.UUID, category string, amount float64, occurredOn time.Time)
}

type SavingsManager interface {
	Allocate(ctx context.Context, userID, transactionID uuid.UUID, category string, convertedIncome float64, occurredOn time.Time) (*models.Saving, error)
	Release(ctx context.Context, transactionID uuid.UUID) error
}

// TransactionInput: поля новой транзакции. Владелец берётся из Principal.
type TransactionInput struct {
	Type              models.TransactionType   `json:"type"`
	Amount            float64                  `json:"amount"`
	Currency          string                   `json:"currency"`
	Category          string                   `json:"category"`
	Date              *time.Time               `json:"date"`
	Notes             string                   `json:"notes"`
	Tags              []string                 `json:"tags"`
	IsRecurring       bool                     `json:"is_recurring"`
	RecurrencePattern models.RecurrencePattern `json:"recurrence_pattern"`
}

// TransactionPatch перечисляет поля, которые клиент может изменить. Nil: поле не меняется.
// converted_amount и user_id клиенту недоступны.
type TransactionPatch struct {
	Type              *models.TransactionType   `json:"type"`
	Amount            *float64                  `json:"amount"`
	Currency          *string                   `json:"currency"`
	Category          *string                   `json:"category"`
	Date              *time.Time                `json:"date"`
	Notes             *string                   `json:"notes"`
	Tags              *[]string                 `json:"tags"`
	IsRecurring       *bool                     `json:"is_recurring"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrence_pattern"`
}

type CreateResult struct {
	Transaction *models.Transaction
	Saving      *models.Saving
}

// TransactionService согласует транзакцию с бюджетом, целью и накоплениями.
// Побочные эффекты выполняются последовательно и не откатываются.
type TransactionService struct {
	store   TransactionStore
	rates   RateSource
	budgets BudgetUpdater
	goals   GoalUpdater
	savings SavingsManager
	now     func() time.Time
	log     zerolog.Logger
}

type TransactionServiceOption func(*TransactionService)

func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *TransactionService) { s.now = now }
}

func NewTransactionService(store TransactionStore, rates RateSource, budgets BudgetUpdater, goals GoalUpdater,
	savings SavingsManager, log zerolog.Logger, opts ...TransactionServiceOption) *TransactionService {
	s := &TransactionService{
		store:   store,
		rates:   rates,
		budgets: budgets,
		goals:   goals,
		savings: savings,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorize пропускает владельца и администратора.
func Authorize(p models.Principal, ownerID uuid.UUID) error {
	if !p.CanAccess(ownerID) {
		return ErrUnauthorized
	}
	return nil
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func (in *TransactionInput) validate() error {
	if in.Type == "" || in.Amount == 0 || strings.TrimSpace(in.Category) == "" {
		return validationError("обязательны поля type, amount и category")
	}
	if !in.Type.Valid() {
		return validationError("type должен быть income или expense")
	}
	if !in.RecurrencePattern.Valid() {
		return validationError("неизвестный интервал повторения")
	}
	return nil
}

func (p *TransactionPatch) validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return validationError("type должен быть income или expense")
	}
	if p.Amount != nil && *p.Amount == 0 {
		return validationError("amount не может быть нулевым")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return validationError("category не может быть пустой")
	}
	if p.RecurrencePattern != nil && !p.RecurrencePattern.Valid() {
		return validationError("неизвестный интервал повторения")
	}
	return nil
}

func (s *TransactionService) convert(ctx context.Context, amount float64, currency string) (float64, error) {
	rate, err := s.rates.Rate(ctx, currency)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

func (s *TransactionService) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Transaction, error) {
	t, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, t.UserID); err != nil {
		return nil, err
	}
	return t, nil
}

// Create сохраняет транзакцию, затем обновляет бюджет и, в зависимости от типа,
// прогресс цели (расход) или накопления (доход).
func (s *TransactionService) Create(ctx context.Context, p models.Principal, in TransactionInput) (*CreateResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.rates.Base()
	}
	converted, err := s.convert(ctx, in.Amount, currency)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}

	t := &models.Transaction{
		UserID:            p.ID,
		Type:              in.Type,
		Amount:            in.Amount,
		Currency:          currency,
		ConvertedAmount:   converted,
		Category:          in.Category,
		Date:              date,
		Notes:             in.Notes,
		Tags:              in.Tags,
		IsRecurring:       in.IsRecurring,
		RecurrencePattern: in.RecurrencePattern,
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}

	log := s.log.With().Str("transaction_id", t.ID.String()).Str("user_id", t.UserID.String()).Logger()
	log.Info().Str("type", string(t.Type)).Float64("converted_amount", converted).Msg("транзакция создана")

	s.budgets.ApplyDelta(ctx, t.UserID, t.Category, converted, t.Type, t.Date)

	result := &CreateResult{Transaction: t}
	switch t.Type {
	case models.TransactionExpense:
		s.goals.ApplyDelta(ctx, t.UserID, t.Category, converted, t.Date)
	case models.TransactionIncome:
		saving, err := s.savings.Allocate(ctx, t.UserID, t.ID, t.Category, converted, t.Date)
		if err != nil {
			log.Warn().Err(err).Msg("накопление не создано")
		} else {
			result.Saving = saving
		}
	}
	return result, nil
}

// Update сначала компенсирует бюджет и согласует накопления, поля транзакции сохраняются последними.
// Прогресс цели при изменении не пересчитывается.
func (s *TransactionService) Update(ctx context.Context, p models.Principal, id uuid.UUID, patch TransactionPatch) (*models.Transaction, error) {
	old, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, old.UserID); err != nil {
		return nil, err
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}

	next := *old
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.Currency != nil && strings.TrimSpace(*patch.Currency) != "" {
		next.Currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		next.Tags = *patch.Tags
	}
	if patch.IsRecurring != nil {
		next.IsRecurring = *patch.IsRecurring
	}
	if patch.RecurrencePattern != nil {
		next.RecurrencePattern = *patch.RecurrencePattern
	}

	if next.Amount != old.Amount || next.Currency != old.Currency {
		next.ConvertedAmount, err = s.convert(ctx, next.Amount, next.Currency)
		if err != nil {
			return nil, err
		}
	}

	log := s.log.With().Str("transaction_id", id.String()).Str("user_id", old.UserID.String()).Logger()

	if next.Category != old.Category || next.ConvertedAmount != old.ConvertedAmount {
		s.budgets.ApplyDelta(ctx, old.UserID, old.Category, -old.ConvertedAmount, old.Type, old.Date)
		s.budgets.ApplyDelta(ctx, old.UserID, next.Category, next.ConvertedAmount, next.Type, next.Date)
	}

	s.reconcileSavings(ctx, log, old, &next)

	if err := s.store.UpdateTransaction(ctx, &next); err != nil {
		return nil, err
	}
	log.Info().Msg("транзакция обновлена")
	return &next, nil
}

func (s *TransactionService) reconcileSavings(ctx context.Context, log zerolog.Logger, old, next *models.Transaction) {
	wasIncome := old.Type == models.TransactionIncome
	isIncome := next.Type == models.TransactionIncome

	switch {
	case wasIncome && !isIncome:
		_ = s.savings.Release(ctx, old.ID)
	case wasIncome && isIncome && next.ConvertedAmount != old.ConvertedAmount:
		if err := s.savings.Release(ctx, old.ID); err != nil {
			return
		}
		if _, err := s.savings.Allocate(ctx, old.UserID, old.ID, next.Category, next.ConvertedAmount, next.Date); err != nil {
			log.Warn().Err(err).Msg("накопление не пересоздано")
		}
	case !wasIncome && isIncome:
		if _, err := s.savings.Allocate(ctx, old.UserID, old.ID, next.Category, next.ConvertedAmount, next.Date); err != nil {
			log.Warn().Err(err).Msg("накопление не создано")
		}
	}
}

// Delete снимает накопление дохода, компенсирует бюджет и удаляет транзакцию.
// Прогресс цели не компенсируется.
func (s *TransactionService) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	t, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(p, t.UserID); err != nil {
		return err
	}

	if t.Type == models.TransactionIncome {
		_ = s.savings.Release(ctx, t.ID)
	}
	s.budgets.ApplyDelta(ctx, t.UserID, t.Category, -t.ConvertedAmount, t.Type, t.Date)

	if err := s.store.DeleteTransaction(ctx, t.ID); err != nil {
		return err
	}
	s.log.Info().Str("transaction_id", id.String()).Str("user_id", t.UserID.String()).Msg("транзакция удалена")
	return nil
}
