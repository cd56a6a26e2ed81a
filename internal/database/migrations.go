package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'regular',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		amount DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL DEFAULT 'LKR',
		converted_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		category TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		is_recurring BOOLEAN NOT NULL DEFAULT false,
		recurrence_pattern TEXT CHECK (recurrence_pattern IN ('5minute', 'daily', 'weekly', 'monthly')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_category ON transactions(user_id, category, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_recurring ON transactions(is_recurring) WHERE is_recurring`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		current_spending DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_user_category ON budgets(user_id, category)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		target_amount DOUBLE PRECISION NOT NULL,
		current_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		deadline TIMESTAMPTZ NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_deadline ON goals(deadline)`,
	`CREATE TABLE IF NOT EXISTS savings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount DOUBLE PRECISION NOT NULL,
		source_transaction_id UUID NOT NULL,
		source_category TEXT NOT NULL,
		description TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_savings_source ON savings(source_transaction_id)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('budget', 'transaction', 'reminder')),
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// RunMigrations создаёт таблицы, если их ещё нет. Повторный запуск безопасен.
func (db *DB) RunMigrations(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.p().Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка миграции #%d: %w", i+1, err)
		}
	}
	return nil
}
