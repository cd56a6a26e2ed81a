package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const savingColumns = `id, user_id, amount, source_transaction_id, source_category, description, date, created_at, updated_at`

var savingSortColumns = map[string]string{
	"date":           "date",
	"amount":         "amount",
	"sourceCategory": "source_category",
	"createdAt":      "created_at",
	"created_at":     "created_at",
}

func scanSaving(row pgx.Row) (*models.Saving, error) {
	s := &models.Saving{}
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Amount,
		&s.SourceTransactionID,
		&s.SourceCategory,
		&s.Description,
		&s.Date,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (db *DB) CreateSaving(ctx context.Context, s *models.Saving) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO savings (id, user_id, amount, source_transaction_id, source_category, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := db.p().QueryRow(ctx, query,
		s.ID,
		s.UserID,
		s.Amount,
		s.SourceTransactionID,
		s.SourceCategory,
		s.Description,
		s.Date).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении накопления: %w", err)
	}
	return nil
}

func (db *DB) GetSavingByID(ctx context.Context, id uuid.UUID) (*models.Saving, error) {
	s, err := scanSaving(db.p().QueryRow(ctx, `SELECT `+savingColumns+` FROM savings WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("накопление с ID %s", id))
	}
	return s, nil
}

// UpdateSaving меняет сумму, категорию, описание и дату. Владелец и исходная транзакция неизменны.
func (db *DB) UpdateSaving(ctx context.Context, s *models.Saving) error {
	query := `
		UPDATE savings
		SET amount = $1, source_category = $2, description = $3, date = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at`

	err := db.p().QueryRow(ctx, query, s.Amount, s.SourceCategory, s.Description, s.Date, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		return notFound(err, fmt.Sprintf("ошибка обновления накопления %s", s.ID))
	}
	return nil
}

func (db *DB) DeleteSaving(ctx context.Context, id uuid.UUID) error {
	result, err := db.p().Exec(ctx, `DELETE FROM savings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления накопления: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("накопление с ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSavingBySourceTransaction удаляет накопление транзакции; отсутствие записи не ошибка.
func (db *DB) DeleteSavingBySourceTransaction(ctx context.Context, transactionID uuid.UUID) error {
	_, err := db.p().Exec(ctx, `DELETE FROM savings WHERE source_transaction_id = $1`, transactionID)
	if err != nil {
		return fmt.Errorf("ошибка удаления накопления транзакции %s: %w", transactionID, err)
	}
	return nil
}

// ListSavings возвращает страницу накоплений, их общее число и сумму по всей выборке.
func (db *DB) ListSavings(ctx context.Context, f models.SavingFilter) ([]models.Saving, int, float64, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != nil {
		add("user_id = $%d", *f.UserID)
	}
	if f.SourceCategory != "" {
		add("source_category = $%d", f.SourceCategory)
	}
	if f.StartDate != nil {
		add("date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d", *f.EndDate)
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var (
		count int
		total float64
	)
	err := db.p().QueryRow(ctx, `SELECT count(*), COALESCE(SUM(amount), 0) FROM savings`+cond, args...).Scan(&count, &total)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("ошибка подсчёта накоплений: %w", err)
	}

	query := `SELECT ` + savingColumns + ` FROM savings` + cond +
		orderBy(savingSortColumns, f.SortBy, "date", f.SortOrder) + limitOffset(f.Page, f.Limit)
	rows, err := db.p().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("ошибка при получении накоплений: %w", err)
	}
	defer rows.Close()

	savings := []models.Saving{}
	for rows.Next() {
		s, err := scanSaving(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		savings = append(savings, *s)
	}
	return savings, count, total, rows.Err()
}

// SavingsByCategory группирует накопления по исходной категории, по убыванию суммы.
func (db *DB) SavingsByCategory(ctx context.Context, userID *uuid.UUID) ([]models.CategoryTotal, error) {
	query := `SELECT source_category, SUM(amount), count(*) FROM savings`
	var args []any
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` GROUP BY source_category ORDER BY SUM(amount) DESC`

	rows, err := db.p().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка группировки накоплений: %w", err)
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.TotalAmount, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
