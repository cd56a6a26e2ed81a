package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const notifyAttempts = 3

type BudgetNotifyStore interface {
	ListBudgets(ctx context.Context, userID *uuid.UUID) ([]models.Budget, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type Band int

const (
	BandNone Band = iota
	BandUnder
	BandHeadsUp
	BandExceeded
)

// Classify относит бюджет к диапазону по доле потраченного. Для нулевой суммы бюджета
// действуют правила float64: 0/0 не попадает ни в один диапазон.
func Classify(b models.Budget) Band {
	pct := b.PercentageSpent()
	switch {
	case pct >= 100:
		return BandExceeded
	case pct >= 75:
		return BandHeadsUp
	case pct < 75 && b.CurrentSpending < b.Amount:
		return BandUnder
	}
	return BandNone
}

// BudgetMessage возвращает текст уведомления вместе с рекомендацией.
func BudgetMessage(band Band, category string) (string, bool) {
	var message, recommendation string
	switch band {
	case BandExceeded:
		message = fmt.Sprintf("⚠️ - Warning! You have exceeded 100%% of your budget for \"%s\".", category)
		recommendation = "You might want to review your spending habits and possibly adjust your budget or reduce spending."
	case BandHeadsUp:
		message = fmt.Sprintf("📢 - Heads up! You have spent 75%% of your budget for \"%s\".", category)
		recommendation = "Consider adjusting your budget or reducing spending to stay within limits."
	case BandUnder:
		message = fmt.Sprintf("💡 - Good news! You are under budget for \"%s\".", category)
		recommendation = "You might want to increase your budget or add more categories for better planning."
	default:
		return "", false
	}
	return message + " " + recommendation, true
}

// BudgetNotifier на каждом запуске пишет уведомление для каждого бюджета в диапазоне.
// Повторы между запусками не подавляются.
type BudgetNotifier struct {
	store         BudgetNotifyStore
	now           Clock
	retryInterval time.Duration
	log           zerolog.Logger
}

func NewBudgetNotifier(store BudgetNotifyStore, now Clock, retryInterval time.Duration, log zerolog.Logger) *BudgetNotifier {
	if now == nil {
		now = time.Now
	}
	return &BudgetNotifier{store: store, now: now, retryInterval: retryInterval, log: log}
}

// Run возвращает число сохранённых уведомлений.
func (n *BudgetNotifier) Run(ctx context.Context) int {
	budgets, err := n.store.ListBudgets(ctx, nil)
	if err != nil {
		n.log.Error().Err(err).Msg("ошибка получения бюджетов")
		return 0
	}

	sent := 0
	for _, b := range budgets {
		log := n.log.With().Str("budget_id", b.ID.String()).Str("user_id", b.UserID.String()).Logger()

		user, err := n.store.GetUserByID(ctx, b.UserID)
		if err != nil {
			log.Warn().Err(err).Msg("пользователь бюджета не найден, пропускаем")
			continue
		}

		message, ok := BudgetMessage(Classify(b), b.Category)
		if !ok {
			continue
		}
		log.Info().Str("user_name", user.Name).Str("notification", message).Msg("отправка уведомления")

		notification := &models.Notification{
			UserID:    b.UserID,
			Message:   message,
			Type:      models.NotificationBudget,
			Timestamp: n.now(),
		}
		if err := n.save(ctx, log, notification); err != nil {
			log.Error().Err(err).Int("attempts", notifyAttempts).Msg("не удалось сохранить уведомление")
			continue
		}
		sent++
	}
	return sent
}

func (n *BudgetNotifier) save(ctx context.Context, log zerolog.Logger, notification *models.Notification) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(n.retryInterval), notifyAttempts-1), ctx)

	return backoff.RetryNotify(func() error {
		notification.ID = uuid.Nil
		return n.store.CreateNotification(ctx, notification)
	}, policy, func(err error, _ time.Duration) {
		log.Warn().Err(err).Msg("повтор сохранения уведомления")
	})
}
