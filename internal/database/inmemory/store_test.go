package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database/inmemory"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestTransactionsCopyOnRead(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStore()

	tr := &models.Transaction{UserID: uuid.New(), Type: models.TransactionExpense, Amount: 10, Category: "Food", Tags: []string{"a"}}
	require.NoError(t, s.CreateTransaction(ctx, tr))
	require.NotEqual(t, uuid.Nil, tr.ID)

	got, err := s.GetTransactionByID(ctx, tr.ID)
	require.NoError(t, err)
	got.Amount = 999
	got.Tags[0] = "mutated"

	again, err := s.GetTransactionByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Amount)
	assert.Equal(t, []string{"a"}, again.Tags)
}

func TestListTransactionsFilters(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStore()
	user := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, tr := range []models.Transaction{
		{UserID: user, Type: models.TransactionExpense, Amount: 30, Category: "Food", Notes: "Lunch at CAFE", Tags: []string{"work"}},
		{UserID: user, Type: models.TransactionExpense, Amount: 10, Category: "Food", Notes: "groceries", Tags: []string{"home"}},
		{UserID: user, Type: models.TransactionIncome, Amount: 500, Category: "Salary"},
		{UserID: uuid.New(), Type: models.TransactionExpense, Amount: 70, Category: "Food"},
	} {
		tr := tr
		tr.Date = base.AddDate(0, 0, i)
		require.NoError(t, s.CreateTransaction(ctx, &tr))
	}

	list, total, err := s.ListTransactions(ctx, models.TransactionFilter{UserID: &user, Notes: "cafe"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 30.0, list[0].Amount)

	list, total, err = s.ListTransactions(ctx, models.TransactionFilter{UserID: &user, Tags: []string{"home", "other"}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 10.0, list[0].Amount)

	list, total, err = s.ListTransactions(ctx, models.TransactionFilter{
		Category: "Food", SortBy: "amount", SortOrder: models.SortAsc, Page: 2, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, 70.0, list[0].Amount)
}

func TestFindBudgetForDateWindow(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStore()
	user := uuid.New()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	b := &models.Budget{UserID: user, Category: "Rent", Amount: 1000, StartDate: start, EndDate: end}
	require.NoError(t, s.CreateBudget(ctx, b))

	for _, d := range []time.Time{start, end, start.AddDate(0, 0, 10)} {
		found, err := s.FindBudgetForDate(ctx, user, "Rent", d)
		require.NoError(t, err)
		assert.Equal(t, b.ID, found.ID)
	}

	_, err := s.FindBudgetForDate(ctx, user, "Rent", end.Add(time.Second))
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = s.FindBudgetForDate(ctx, user, "Food", start)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestLatestRecurringTransaction(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStore()
	user := uuid.New()
	now := time.Now()

	older := &models.Transaction{UserID: user, Category: "Rent", IsRecurring: true, CreatedAt: now.Add(-48 * time.Hour)}
	newer := &models.Transaction{UserID: user, Category: "Rent", IsRecurring: true, CreatedAt: now.Add(-time.Hour)}
	other := &models.Transaction{UserID: user, Category: "Rent", CreatedAt: now}
	for _, tr := range []*models.Transaction{older, newer, other} {
		require.NoError(t, s.CreateTransaction(ctx, tr))
	}

	latest, err := s.GetLatestRecurringTransaction(ctx, user, "Rent")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestSavingsAggregates(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStore()
	user := uuid.New()
	source := uuid.New()

	require.NoError(t, s.CreateSaving(ctx, &models.Saving{UserID: user, Amount: 50, SourceTransactionID: source, SourceCategory: "Salary"}))
	require.NoError(t, s.CreateSaving(ctx, &models.Saving{UserID: user, Amount: 5, SourceTransactionID: uuid.New(), SourceCategory: "Gift"}))
	require.NoError(t, s.CreateSaving(ctx, &models.Saving{UserID: uuid.New(), Amount: 100, SourceTransactionID: uuid.New(), SourceCategory: "Salary"}))

	list, count, total, err := s.ListSavings(ctx, models.SavingFilter{UserID: &user, Limit: 1, Page: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 55, total, 1e-9)

	byCategory, err := s.SavingsByCategory(ctx, &user)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "Salary", byCategory[0].Category)

	require.NoError(t, s.DeleteSavingBySourceTransaction(ctx, source))
	require.NoError(t, s.DeleteSavingBySourceTransaction(ctx, source))
	_, count, _, err = s.ListSavings(ctx, models.SavingFilter{UserID: &user})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStore()

	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com"}))
	assert.Error(t, s.CreateUser(ctx, &models.User{Name: "B", Email: "A@example.com"}))
}
