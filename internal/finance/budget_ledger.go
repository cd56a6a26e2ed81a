package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type BudgetStore interface {
	GetBudgetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	FindBudgetForDate(ctx context.Context, userID uuid.UUID, category string, date time.Time) (*models.Budget, error)
	UpdateBudgetSpending(ctx context.Context, id uuid.UUID, spending float64) error
	SumConvertedByType(ctx context.Context, userID uuid.UUID, category string, from, to time.Time) (income, expense float64, err error)
}

// BudgetLedger ведёт накопитель current_spending. Чтение и запись не атомарны:
// при конкурентных изменениях одного бюджета побеждает последняя запись.
type BudgetLedger struct {
	store BudgetStore
	log   zerolog.Logger
}

func NewBudgetLedger(store BudgetStore, log zerolog.Logger) *BudgetLedger {
	return &BudgetLedger{store: store, log: log}
}

// ApplyDelta прибавляет amount для расхода и вычитает для дохода. Отрицательный amount
// используется для компенсации. Отсутствие бюджета не ошибка; сбои только логируются.
func (l *BudgetLedger) ApplyDelta(ctx context.Context, userID uuid.UUID, category string, amount float64, typ models.TransactionType, occurredOn time.Time) {
	log := l.log.With().
		Str("user_id", userID.String()).
		Str("category", category).
		Float64("amount", amount).
		Str("type", string(typ)).
		Logger()

	budget, err := l.store.FindBudgetForDate(ctx, userID, category, occurredOn)
	if errors.Is(err, ErrNotFound) {
		log.Debug().Msg("бюджет для категории не найден")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("ошибка поиска бюджета")
		return
	}

	spending := budget.CurrentSpending
	if typ == models.TransactionExpense {
		spending += amount
	} else {
		spending -= amount
	}

	if err := l.store.UpdateBudgetSpending(ctx, budget.ID, spending); err != nil {
		log.Error().Err(err).Str("budget_id", budget.ID.String()).Msg("ошибка обновления бюджета")
		return
	}
	log.Debug().Str("budget_id", budget.ID.String()).Float64("current_spending", spending).Msg("бюджет обновлён")
}

// Reconcile пересчитывает накопитель по транзакциям категории в окне бюджета.
// Автоматически не вызывается.
func (l *BudgetLedger) Reconcile(ctx context.Context, budgetID uuid.UUID) (*models.Budget, error) {
	budget, err := l.store.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	income, expense, err := l.store.SumConvertedByType(ctx, budget.UserID, budget.Category, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка пересчёта бюджета %s: %w", budgetID, err)
	}

	spending := expense - income
	if err := l.store.UpdateBudgetSpending(ctx, budget.ID, spending); err != nil {
		return nil, err
	}

	l.log.Info().
		Str("budget_id", budget.ID.String()).
		Float64("old_spending", budget.CurrentSpending).
		Float64("current_spending", spending).
		Msg("бюджет пересчитан")
	budget.CurrentSpending = spending
	return budget, nil
}
