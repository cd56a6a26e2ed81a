package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const budgetColumns = `id, user_id, category, amount, start_date, end_date, current_spending, created_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	b := &models.Budget{}
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Category,
		&b.Amount,
		&b.StartDate,
		&b.EndDate,
		&b.CurrentSpending,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	query := `
		INSERT INTO budgets (id, user_id, category, amount, start_date, end_date, current_spending)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := db.p().QueryRow(ctx, query,
		budget.ID,
		budget.UserID,
		budget.Category,
		budget.Amount,
		budget.StartDate,
		budget.EndDate,
		budget.CurrentSpending).Scan(&budget.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %w", err)
	}
	return nil
}

func (db *DB) GetBudgetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	b, err := scanBudget(db.p().QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("бюджет с ID %s", id))
	}
	return b, nil
}

// ListBudgets: userID == nil: бюджеты всех пользователей.
func (db *DB) ListBudgets(ctx context.Context, userID *uuid.UUID) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets`
	var args []any
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY start_date`

	rows, err := db.p().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бюджетов: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

// UpdateBudget обновляет описательные поля; накопитель трат меняется только через UpdateBudgetSpending.
func (db *DB) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET category = $1, amount = $2, start_date = $3, end_date = $4
		WHERE id = $5`

	result, err := db.p().Exec(ctx, query,
		budget.Category,
		budget.Amount,
		budget.StartDate,
		budget.EndDate,
		budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %s: %w", budget.ID, ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	result, err := db.p().Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindBudgetForDate ищет бюджет пользователя по категории, окно которого содержит дату.
// Если окна пересекаются, берётся первый найденный.
func (db *DB) FindBudgetForDate(ctx context.Context, userID uuid.UUID, category string, date time.Time) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets
		WHERE user_id = $1 AND category = $2 AND start_date <= $3 AND end_date >= $3
		LIMIT 1`

	b, err := scanBudget(db.p().QueryRow(ctx, query, userID, category, date))
	if err != nil {
		return nil, notFound(err, "бюджет для категории "+category)
	}
	return b, nil
}

// UpdateBudgetSpending записывает новое значение накопителя (last write wins).
func (db *DB) UpdateBudgetSpending(ctx context.Context, id uuid.UUID, spending float64) error {
	result, err := db.p().Exec(ctx, `UPDATE budgets SET current_spending = $1 WHERE id = $2`, spending, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления трат бюджета: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %s: %w", id, ErrNotFound)
	}
	return nil
}
