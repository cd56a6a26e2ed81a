package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/config"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/currency"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database/inmemory"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/handlers"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/logger"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/routes"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/scheduler"
)

const notificationRetryInterval = 2 * time.Second

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (database.Store, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("используется хранилище в памяти, данные не сохраняются между запусками")
		return inmemory.NewStore(), nil
	}

	db, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// startSchedulers запускает три фоновые задачи, каждую в своём cron.
func startSchedulers(cfg *config.Config, store database.Store, log zerolog.Logger) ([]*cron.Cron, error) {
	jobs := []struct {
		name string
		spec string
		job  scheduler.Job
	}{
		{"recurring_transactions", cfg.RecurringSchedule,
			scheduler.NewRecurringScheduler(store, time.Now, logger.WithComponent(log, "recurring"))},
		{"budget_notifications", cfg.BudgetNotifySchedule,
			scheduler.NewBudgetNotifier(store, time.Now, notificationRetryInterval, logger.WithComponent(log, "budget_notifier"))},
		{"goal_reminders", cfg.GoalReminderSchedule,
			scheduler.NewGoalReminder(store, time.Now, logger.WithComponent(log, "goal_reminder"))},
	}

	crons := make([]*cron.Cron, 0, len(jobs))
	for _, j := range jobs {
		c, err := scheduler.Start(j.spec, j.name, j.job, log)
		if err != nil {
			stopAll(crons)
			return nil, err
		}
		crons = append(crons, c)
	}
	return crons, nil
}

func stopAll(crons []*cron.Cron) {
	for _, c := range crons {
		<-c.Stop().Done()
	}
}

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка загрузки конфигурации")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка подключения к БД")
	}
	defer store.Close()

	rates := currency.NewConverter(currency.Config{
		APIURL:       cfg.ExchangeRateAPIURL,
		APIKey:       cfg.ExchangeRateAPIKey,
		BaseCurrency: cfg.BaseCurrency,
	}, logger.WithComponent(log, "currency"))
	if cfg.ExchangeRateAPIKey == "" {
		log.Warn().Msg("EXCHANGE_RATE_API_KEY не задан, доступна только базовая валюта")
	}

	ledger := finance.NewBudgetLedger(store, logger.WithComponent(log, "budget_ledger"))
	transactions := finance.NewTransactionService(store, rates, ledger,
		finance.NewGoalTracker(store, logger.WithComponent(log, "goal_tracker")),
		finance.NewSavingsAllocator(store, rates.Base(), logger.WithComponent(log, "savings")),
		logger.WithComponent(log, "transactions"))
	authService := auth.NewService(store, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), logger.WithComponent(log, "auth"))

	crons, err := startSchedulers(cfg, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка настройки CRON-задач")
	}

	gin.SetMode(gin.ReleaseMode)
	h := handlers.New(store, authService, transactions, ledger, logger.WithComponent(log, "http"))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(h, authService, logger.WithComponent(log, "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ошибка HTTP-сервера")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ошибка остановки HTTP-сервера")
	}
	stopAll(crons)
}
