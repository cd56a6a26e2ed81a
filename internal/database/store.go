package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// Store: полный набор операций хранилища. Реализуется *DB и inmemory.Store.
type Store interface {
	EnsureConnected(ctx context.Context) error
	Close()

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, int, error)
	ListRecurringTransactions(ctx context.Context) ([]models.Transaction, error)
	GetLatestRecurringTransaction(ctx context.Context, userID uuid.UUID, category string) (*models.Transaction, error)
	SumConvertedByType(ctx context.Context, userID uuid.UUID, category string, from, to time.Time) (income, expense float64, err error)

	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudgetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID *uuid.UUID) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error
	FindBudgetForDate(ctx context.Context, userID uuid.UUID, category string, date time.Time) (*models.Budget, error)
	UpdateBudgetSpending(ctx context.Context, id uuid.UUID, spending float64) error

	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoalByID(ctx context.Context, id uuid.UUID) (*models.Goal, error)
	ListGoals(ctx context.Context, userID *uuid.UUID) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	FindGoalByName(ctx context.Context, userID uuid.UUID, name string) (*models.Goal, error)
	UpdateGoalProgress(ctx context.Context, id uuid.UUID, current float64, completed bool) error
	ListGoalsDueBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error)

	CreateSaving(ctx context.Context, s *models.Saving) error
	GetSavingByID(ctx context.Context, id uuid.UUID) (*models.Saving, error)
	UpdateSaving(ctx context.Context, s *models.Saving) error
	DeleteSaving(ctx context.Context, id uuid.UUID) error
	DeleteSavingBySourceTransaction(ctx context.Context, transactionID uuid.UUID) error
	ListSavings(ctx context.Context, f models.SavingFilter) ([]models.Saving, int, float64, error)
	SavingsByCategory(ctx context.Context, userID *uuid.UUID) ([]models.CategoryTotal, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID *uuid.UUID) ([]models.Notification, error)
}

var _ Store = (*DB)(nil)
