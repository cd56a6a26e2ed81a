package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const transactionColumns = `id, user_id, type, amount, currency, converted_amount, category, date,
	notes, tags, is_recurring, COALESCE(recurrence_pattern, ''), created_at, updated_at`

var transactionSortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"category":   "category",
	"type":       "type",
	"createdAt":  "created_at",
	"created_at": "created_at",
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Type,
		&t.Amount,
		&t.Currency,
		&t.ConvertedAmount,
		&t.Category,
		&t.Date,
		&t.Notes,
		&t.Tags,
		&t.IsRecurring,
		&t.RecurrencePattern,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (db *DB) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	query := `
		INSERT INTO transactions (id, user_id, type, amount, currency, converted_amount, category, date,
			notes, tags, is_recurring, recurrence_pattern)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''))
		RETURNING created_at, updated_at`

	err := db.p().QueryRow(ctx, query,
		t.ID,
		t.UserID,
		t.Type,
		t.Amount,
		t.Currency,
		t.ConvertedAmount,
		t.Category,
		t.Date,
		t.Notes,
		t.Tags,
		t.IsRecurring,
		string(t.RecurrencePattern)).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %w", err)
	}
	return nil
}

func (db *DB) GetTransactionByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(db.p().QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("транзакция с ID %s", id))
	}
	return t, nil
}

func (db *DB) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, currency = $3, converted_amount = $4, category = $5, date = $6,
			notes = $7, tags = $8, is_recurring = $9, recurrence_pattern = NULLIF($10, ''), updated_at = now()
		WHERE id = $11
		RETURNING updated_at`

	err := db.p().QueryRow(ctx, query,
		t.Type,
		t.Amount,
		t.Currency,
		t.ConvertedAmount,
		t.Category,
		t.Date,
		t.Notes,
		t.Tags,
		t.IsRecurring,
		string(t.RecurrencePattern),
		t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		return notFound(err, fmt.Sprintf("ошибка обновления транзакции %s", t.ID))
	}
	return nil
}

func (db *DB) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	result, err := db.p().Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListTransactions возвращает страницу транзакций и общее число подходящих записей.
func (db *DB) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, int, error) {
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
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Notes != "" {
		add("notes ILIKE '%%' || $%d || '%%'", f.Notes)
	}
	if len(f.Tags) > 0 {
		add("tags && $%d", f.Tags)
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.p().QueryRow(ctx, `SELECT count(*) FROM transactions`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта транзакций: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + cond +
		orderBy(transactionSortColumns, f.SortBy, "date", f.SortOrder) +
		limitOffset(f.Page, f.Limit)

	rows, err := db.p().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении транзакций: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, total, rows.Err()
}

func (db *DB) ListRecurringTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := db.p().Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE is_recurring ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении повторяющихся транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// GetLatestRecurringTransaction: последняя по времени создания повторяющаяся транзакция
// пользователя в категории.
func (db *DB) GetLatestRecurringTransaction(ctx context.Context, userID uuid.UUID, category string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND category = $2 AND is_recurring
		ORDER BY created_at DESC
		LIMIT 1`

	t, err := scanTransaction(db.p().QueryRow(ctx, query, userID, category))
	if err != nil {
		return nil, notFound(err, "повторяющаяся транзакция")
	}
	return t, nil
}

// SumConvertedByType суммирует конвертированные суммы по типу за период (границы включительно).
func (db *DB) SumConvertedByType(ctx context.Context, userID uuid.UUID, category string, from, to time.Time) (income, expense float64, err error) {
	query := `
		SELECT
			COALESCE(SUM(converted_amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(converted_amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND category = $2 AND date >= $3 AND date <= $4`

	if err := db.p().QueryRow(ctx, query, userID, category, from, to).Scan(&income, &expense); err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта сумм транзакций: %w", err)
	}
	return income, expense, nil
}

func orderBy(columns map[string]string, sortBy, fallback string, order models.SortOrder) string {
	col, ok := columns[sortBy]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if order == models.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

func limitOffset(page, limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, models.Offset(page, limit))
}
