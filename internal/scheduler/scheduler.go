// Package scheduler содержит фоновые задачи: повторяющиеся транзакции, уведомления по бюджетам
// и напоминания о сроках целей. У каждой задачи свой cron, общих блокировок между ними нет,
// перекрывающиеся запуски не предотвращаются.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Clock возвращает текущее время; подменяется в тестах.
type Clock func() time.Time

type Job interface {
	Run(ctx context.Context) int
}

// Start запускает job по расписанию spec (cron-выражение или @every) в отдельном cron.
func Start(spec, name string, job Job, log zerolog.Logger) (*cron.Cron, error) {
	log = log.With().Str("job", name).Logger()
	cronLog := cron.PrintfLogger(&log)

	c := cron.New(cron.WithChain(cron.Recover(cronLog)), cron.WithLogger(cronLog))
	_, err := c.AddFunc(spec, func() {
		started := time.Now()
		n := job.Run(context.Background())
		log.Debug().Int("affected", n).Dur("took", time.Since(started)).Msg("задача выполнена")
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка добавления задачи %s в cron: %w", name, err)
	}
	c.Start()

	log.Info().Str("schedule", spec).Msg("задача запланирована")
	return c, nil
}
