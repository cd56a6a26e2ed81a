package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestCreateBudget(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	budget := &models.Budget{
		UserID:    user.ID,
		Category:  "Food",
		Amount:    500.00,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	if err := db.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	createdBudget, err := db.GetBudgetByID(ctx, budget.ID)
	if err != nil {
		t.Fatalf("ошибка получения бюджета по ID: %v", err)
	}
	if createdBudget.Amount != budget.Amount || createdBudget.Category != budget.Category {
		t.Errorf("данные бюджета не совпадают: получили %+v, хотели %+v", createdBudget, budget)
	}
}

func TestFindBudgetForDate(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	budget := &models.Budget{
		UserID:    user.ID,
		Category:  "Rent",
		Amount:    1000,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
	}
	if err := db.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	found, err := db.FindBudgetForDate(ctx, user.ID, "Rent", start)
	if err != nil {
		t.Fatalf("бюджет на начальную дату не найден: %v", err)
	}
	if found.ID != budget.ID {
		t.Errorf("найден другой бюджет: %s", found.ID)
	}

	_, err = db.FindBudgetForDate(ctx, user.ID, "Rent", start.AddDate(0, 2, 0))
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("ожидали ErrNotFound вне окна бюджета, получили %v", err)
	}
}

func TestUpdateBudgetSpending(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	budget := &models.Budget{
		UserID:    user.ID,
		Category:  "Food",
		Amount:    600.00,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	if err := db.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	if err := db.UpdateBudgetSpending(ctx, budget.ID, -250); err != nil {
		t.Fatalf("ошибка обновления трат: %v", err)
	}

	budget.Amount = 700.00
	if err := db.UpdateBudget(ctx, budget); err != nil {
		t.Fatalf("ошибка обновления бюджета: %v", err)
	}

	updatedBudget, err := db.GetBudgetByID(ctx, budget.ID)
	if err != nil {
		t.Fatalf("не смогли получить обновленный бюджет по ID: %v", err)
	}
	if updatedBudget.Amount != 700 || updatedBudget.CurrentSpending != -250 {
		t.Errorf("данные бюджета не совпадают после обновления: %+v", updatedBudget)
	}
}

func TestDeleteBudget(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	budget := &models.Budget{
		UserID:    user.ID,
		Category:  "Food",
		Amount:    800.00,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	if err := db.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}
	if err := db.DeleteBudget(ctx, budget.ID); err != nil {
		t.Fatalf("ошибка удаления бюджета: %v", err)
	}

	if _, err := db.GetBudgetByID(ctx, budget.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("бюджет все еще существует: %v", err)
	}
}
