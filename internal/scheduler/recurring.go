package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type RecurringStore interface {
	ListRecurringTransactions(ctx context.Context) ([]models.Transaction, error)
	GetLatestRecurringTransaction(ctx context.Context, userID uuid.UUID, category string) (*models.Transaction, error)
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
}

// RecurringScheduler создаёт очередные повторяющиеся транзакции. Новые транзакции
// не проходят через TransactionService: бюджет, цели и накопления не меняются.
type RecurringScheduler struct {
	store RecurringStore
	now   Clock
	log   zerolog.Logger
}

func NewRecurringScheduler(store RecurringStore, now Clock, log zerolog.Logger) *RecurringScheduler {
	if now == nil {
		now = time.Now
	}
	return &RecurringScheduler{store: store, now: now, log: log}
}

// Due сообщает, пора ли создать очередную транзакцию. Для monthly сравниваются год и месяц в UTC.
func Due(pattern models.RecurrencePattern, last, now time.Time) bool {
	elapsed := now.Sub(last)
	switch pattern {
	case models.RecurrenceFiveMinutes:
		return elapsed >= 5*time.Minute
	case models.RecurrenceDaily:
		return elapsed >= 24*time.Hour
	case models.RecurrenceWeekly:
		return elapsed >= 7*24*time.Hour
	case models.RecurrenceMonthly:
		ly, lm, _ := last.UTC().Date()
		ny, nm, _ := now.UTC().Date()
		return ly != ny || lm != nm
	}
	return false
}

// Run возвращает число созданных транзакций.
func (s *RecurringScheduler) Run(ctx context.Context) int {
	recurring, err := s.store.ListRecurringTransactions(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("ошибка получения повторяющихся транзакций")
		return 0
	}

	created := 0
	for _, t := range recurring {
		log := s.log.With().Str("transaction_id", t.ID.String()).Str("user_id", t.UserID.String()).Logger()

		latest, err := s.store.GetLatestRecurringTransaction(ctx, t.UserID, t.Category)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Msg("ошибка поиска последней повторяющейся транзакции")
			continue
		}

		// транзакцию могли сделать неповторяющейся после выборки
		current, err := s.store.GetTransactionByID(ctx, t.ID)
		if err != nil || !current.IsRecurring {
			continue
		}

		now := s.now()
		if !Due(t.RecurrencePattern, latest.CreatedAt, now) {
			continue
		}

		next := &models.Transaction{
			UserID:            t.UserID,
			Type:              t.Type,
			Amount:            t.Amount,
			Currency:          t.Currency,
			ConvertedAmount:   t.ConvertedAmount,
			Category:          t.Category,
			Date:              now,
			Notes:             t.Notes,
			Tags:              append([]string(nil), t.Tags...),
			IsRecurring:       true,
			RecurrencePattern: t.RecurrencePattern,
		}
		if err := s.store.CreateTransaction(ctx, next); err != nil {
			log.Error().Err(err).Msg("ошибка создания повторяющейся транзакции")
			continue
		}
		created++
		log.Info().Str("new_transaction_id", next.ID.String()).Msg("создана повторяющаяся транзакция")
	}
	return created
}
