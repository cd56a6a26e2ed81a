package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func newTransaction(user models.User, typ models.TransactionType, amount float64, category string) *models.Transaction {
	return &models.Transaction{
		UserID:          user.ID,
		Type:            typ,
		Amount:          amount,
		Currency:        "LKR",
		ConvertedAmount: amount,
		Category:        category,
		Date:            time.Now().UTC(),
		Notes:           "Test transaction",
		Tags:            []string{"test"},
	}
}

func TestCreateTransaction(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	transaction := newTransaction(*user, models.TransactionExpense, 100, "Food")
	if err := db.CreateTransaction(ctx, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	created, err := db.GetTransactionByID(ctx, transaction.ID)
	if err != nil {
		t.Fatalf("ошибка получения транзакции по ID: %v", err)
	}
	if created.Amount != transaction.Amount || created.Notes != transaction.Notes || created.RecurrencePattern != models.RecurrenceNone {
		t.Errorf("данные транзакции не совпадают: получили %+v, хотели %+v", created, transaction)
	}
}

func TestUpdateTransaction(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	transaction := newTransaction(*user, models.TransactionExpense, 100, "Food")
	if err := db.CreateTransaction(ctx, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	transaction.Amount = 150
	transaction.IsRecurring = true
	transaction.RecurrencePattern = models.RecurrenceDaily
	if err := db.UpdateTransaction(ctx, transaction); err != nil {
		t.Fatalf("ошибка обновления транзакции: %v", err)
	}

	updated, err := db.GetTransactionByID(ctx, transaction.ID)
	if err != nil {
		t.Fatalf("ошибка получения транзакции: %v", err)
	}
	if updated.Amount != 150 || updated.RecurrencePattern != models.RecurrenceDaily {
		t.Errorf("данные транзакции не обновились: %+v", updated)
	}

	latest, err := db.GetLatestRecurringTransaction(ctx, user.ID, "Food")
	if err != nil {
		t.Fatalf("повторяющаяся транзакция не найдена: %v", err)
	}
	if latest.ID != transaction.ID {
		t.Errorf("ожидали %s, получили %s", transaction.ID, latest.ID)
	}
}

func TestListTransactionsAndSums(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	for _, tr := range []*models.Transaction{
		newTransaction(*user, models.TransactionExpense, 40, "Food"),
		newTransaction(*user, models.TransactionExpense, 60, "Food"),
		newTransaction(*user, models.TransactionIncome, 25, "Food"),
	} {
		if err := db.CreateTransaction(ctx, tr); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	list, total, err := db.ListTransactions(ctx, models.TransactionFilter{
		UserID: &user.ID,
		Type:   models.TransactionExpense,
		Page:   1,
		Limit:  1,
	})
	if err != nil {
		t.Fatalf("ошибка получения транзакций: %v", err)
	}
	if total != 2 || len(list) != 1 {
		t.Errorf("ожидали 2 записи и страницу из 1, получили %d и %d", total, len(list))
	}

	income, expense, err := db.SumConvertedByType(ctx, user.ID, "Food", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ошибка подсчёта сумм: %v", err)
	}
	if income != 25 || expense != 100 {
		t.Errorf("неверные суммы: доход %v, расход %v", income, expense)
	}
}

func TestDeleteTransaction(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	transaction := newTransaction(*user, models.TransactionIncome, 300, "Salary")
	if err := db.CreateTransaction(ctx, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if err := db.DeleteTransaction(ctx, transaction.ID); err != nil {
		t.Fatalf("ошибка удаления транзакции: %v", err)
	}
	if _, err := db.GetTransactionByID(ctx, transaction.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("транзакция все еще существует: %v", err)
	}
}
