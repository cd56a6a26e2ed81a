// Команда seed заполняет хранилище демонстрационными данными и создаёт администраторов.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/config"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/currency"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/logger"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// env: общее окружение команд.
type env struct {
	cfg   *config.Config
	store *database.DB
	log   zerolog.Logger
}

var cli struct {
	Verbose bool `help:"Подробный вывод."`

	Admin adminCmd `cmd:"" help:"Создать администратора."`
	Demo  demoCmd  `cmd:"" help:"Сгенерировать демо-пользователей, бюджеты, цели и транзакции."`
}

type adminCmd struct {
	Name     string `required:"" help:"Имя администратора."`
	Email    string `required:"" help:"Email администратора."`
	Password string `required:"" help:"Пароль (не короче 6 символов)."`
}

func (c *adminCmd) Run(e *env) error {
	svc := auth.NewService(e.store, auth.NewTokenIssuer(e.cfg.JWTSecret, e.cfg.JWTTTL), e.log)
	user, err := svc.Register(context.Background(), auth.RegisterInput{Name: c.Name, Email: c.Email, Password: c.Password}, models.RoleAdmin)
	if err != nil {
		return err
	}
	e.log.Info().Str("user_id", user.ID.String()).Msg("администратор создан")
	return nil
}

type demoCmd struct {
	Users        int    `default:"5" help:"Количество пользователей."`
	Transactions int    `default:"30" help:"Транзакций на пользователя."`
	Seed         int64  `default:"0" help:"Seed генератора (0: случайный)."`
	Password     string `default:"password1" help:"Пароль демо-пользователей."`
}

var (
	expenseCategories = []string{"Food", "Transport", "Rent", "Entertainment", "Health"}
	incomeCategories  = []string{"Salary", "Freelance", "Gifts"}
)

func (c *demoCmd) Run(e *env) error {
	ctx := context.Background()
	faker := gofakeit.New(c.Seed)

	rates := currency.NewConverter(currency.Config{BaseCurrency: e.cfg.BaseCurrency}, e.log)
	ledger := finance.NewBudgetLedger(e.store, e.log)
	service := finance.NewTransactionService(e.store, rates, ledger,
		finance.NewGoalTracker(e.store, e.log), finance.NewSavingsAllocator(e.store, rates.Base(), e.log), e.log)
	authService := auth.NewService(e.store, auth.NewTokenIssuer(e.cfg.JWTSecret, e.cfg.JWTTTL), e.log)

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < c.Users; i++ {
		user, err := authService.Register(ctx, auth.RegisterInput{
			Name:     faker.Name(),
			Email:    faker.Email(),
			Password: c.Password,
		}, models.RoleRegular)
		if err != nil {
			return fmt.Errorf("ошибка при добавлении пользователя: %w", err)
		}
		p := models.Principal{ID: user.ID, Role: user.Role}

		for _, category := range expenseCategories {
			budget := &models.Budget{
				UserID:    user.ID,
				Category:  category,
				Amount:    faker.Price(500, 5000),
				StartDate: monthStart,
				EndDate:   monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond),
			}
			if err := e.store.CreateBudget(ctx, budget); err != nil {
				return fmt.Errorf("ошибка при добавлении бюджета: %w", err)
			}
		}

		goal := &models.Goal{
			UserID:       user.ID,
			Name:         faker.RandomString(expenseCategories),
			TargetAmount: faker.Price(1000, 10000),
			Deadline:     now.AddDate(0, faker.Number(1, 12), 0),
		}
		if err := e.store.CreateGoal(ctx, goal); err != nil {
			return fmt.Errorf("ошибка при добавлении цели: %w", err)
		}

		for j := 0; j < c.Transactions; j++ {
			in := finance.TransactionInput{
				Type:     models.TransactionExpense,
				Amount:   faker.Price(5, 500),
				Category: faker.RandomString(expenseCategories),
				Notes:    faker.Sentence(5),
				Tags:     []string{faker.Word()},
			}
			if faker.Number(0, 4) == 0 {
				in.Type = models.TransactionIncome
				in.Amount = faker.Price(500, 3000)
				in.Category = faker.RandomString(incomeCategories)
			}
			date := monthStart.Add(time.Duration(faker.Number(0, int(now.Sub(monthStart).Hours()))) * time.Hour)
			in.Date = &date

			if _, err := service.Create(ctx, p, in); err != nil {
				return fmt.Errorf("ошибка при добавлении транзакции: %w", err)
			}
		}
		e.log.Info().Str("email", user.Email).Msg("демо-пользователь создан")
	}
	return nil
}

func main() {
	kctx := kong.Parse(&cli, kong.Description("Заполнение базы данных finance-tracker."))

	log := logger.New()
	if !cli.Verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)
	if cfg.Storage != config.StoragePostgres {
		kctx.Fatalf("seed работает только с STORAGE=postgres")
	}

	ctx := context.Background()
	db, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	kctx.FatalIfErrorf(err)
	defer db.Close()
	kctx.FatalIfErrorf(db.RunMigrations(ctx))

	kctx.FatalIfErrorf(kctx.Run(&env{cfg: cfg, store: db, log: log}))
}
