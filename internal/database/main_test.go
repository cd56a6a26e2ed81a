package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// connect открывает тестовую БД. Тесты запускаются только с DB_TEST=1.
func connect(t *testing.T) *database.DB {
	t.Helper()
	_ = godotenv.Load("../../.env")
	if os.Getenv("DB_TEST") != "1" {
		t.Skip("DB_TEST не задан, пропускаем тесты с Postgres")
	}

	ctx := context.Background()
	db, err := database.ConnectDB(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("ошибка миграции: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *database.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Vicky Crend",
		Email:    fmt.Sprintf("vickycred.%d@example.com", time.Now().UnixNano()),
		Password: "hash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}
	t.Cleanup(func() { _ = db.DeleteUser(context.Background(), user.ID) })
	return user
}
