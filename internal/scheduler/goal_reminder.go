package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type ReminderStore interface {
	EnsureConnected(ctx context.Context) error
	ListGoalsDueBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// GoalReminder напоминает о целях со сроком сегодня и завтра (сутки в UTC).
type GoalReminder struct {
	store ReminderStore
	now   Clock
	log   zerolog.Logger
}

func NewGoalReminder(store ReminderStore, now Clock, log zerolog.Logger) *GoalReminder {
	if now == nil {
		now = time.Now
	}
	return &GoalReminder{store: store, now: now, log: log}
}

// DayWindow возвращает начало и конец (включительно) суток UTC, сдвинутых на offset дней.
func DayWindow(now time.Time, offset int) (time.Time, time.Time) {
	y, m, d := now.UTC().Date()
	start := time.Date(y, m, d+offset, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Nanosecond)
}

func (r *GoalReminder) Run(ctx context.Context) int {
	if err := r.store.EnsureConnected(ctx); err != nil {
		r.log.Error().Err(err).Msg("соединение с БД потеряно, не удалось переподключиться")
		return 0
	}

	now := r.now()
	sent := 0
	for _, w := range []struct {
		offset int
		format string
	}{
		{0, "Reminder: Your goal \"%s\" is due today!"},
		{1, "Reminder: Your goal \"%s\" is due tomorrow!"},
	} {
		from, to := DayWindow(now, w.offset)
		goals, err := r.store.ListGoalsDueBetween(ctx, from, to)
		if err != nil {
			r.log.Error().Err(err).Time("from", from).Msg("ошибка получения целей для напоминаний")
			continue
		}
		for _, g := range goals {
			n := &models.Notification{
				UserID:    g.UserID,
				Message:   fmt.Sprintf(w.format, g.Name),
				Type:      models.NotificationReminder,
				Timestamp: now,
			}
			if err := r.store.CreateNotification(ctx, n); err != nil {
				r.log.Error().Err(err).Str("goal_id", g.ID.String()).Msg("ошибка сохранения напоминания")
				continue
			}
			sent++
			r.log.Info().Str("goal_id", g.ID.String()).Msg(n.Message)
		}
	}
	return sent
}
