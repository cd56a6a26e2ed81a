package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type GoalStore interface {
	FindGoalByName(ctx context.Context, userID uuid.UUID, name string) (*models.Goal, error)
	UpdateGoalProgress(ctx context.Context, id uuid.UUID, current float64, completed bool) error
}

// GoalTracker двигает прогресс цели, имя которой совпадает с категорией транзакции.
type GoalTracker struct {
	store GoalStore
	log   zerolog.Logger
}

func NewGoalTracker(store GoalStore, log zerolog.Logger) *GoalTracker {
	return &GoalTracker{store: store, log: log}
}

// ApplyDelta игнорирует транзакции после срока цели. Сбои только логируются.
func (g *GoalTracker) ApplyDelta(ctx context.Context, userID uuid.UUID, category string, amount float64, occurredOn time.Time) {
	log := g.log.With().Str("user_id", userID.String()).Str("category", category).Logger()

	goal, err := g.store.FindGoalByName(ctx, userID, category)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("ошибка поиска цели")
		return
	}

	if occurredOn.After(goal.Deadline) {
		log.Debug().Str("goal_id", goal.ID.String()).Msg("транзакция позже срока цели, прогресс не меняется")
		return
	}

	goal.CurrentAmount += amount
	goal.UpdateCompletion()

	if err := g.store.UpdateGoalProgress(ctx, goal.ID, goal.CurrentAmount, goal.IsCompleted); err != nil {
		log.Error().Err(err).Str("goal_id", goal.ID.String()).Msg("ошибка обновления цели")
		return
	}
	log.Debug().
		Str("goal_id", goal.ID.String()).
		Float64("current_amount", goal.CurrentAmount).
		Bool("completed", goal.IsCompleted).
		Msg("прогресс цели обновлён")
}
