package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, is_completed, created_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	g := &models.Goal{}
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Deadline,
		&g.IsCompleted,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func scanGoals(rows pgx.Rows) ([]models.Goal, error) {
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// CreateGoal добавляет новую цель в базу данных
func (db *DB) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := db.p().QueryRow(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.IsCompleted).Scan(&goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %w", err)
	}
	return nil
}

// GetGoalByID извлекает цель по ID
func (db *DB) GetGoalByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	g, err := scanGoal(db.p().QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("цель с ID %s", id))
	}
	return g, nil
}

// ListGoals извлекает цели пользователя (или все, если userID == nil)
func (db *DB) ListGoals(ctx context.Context, userID *uuid.UUID) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []any
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	rows, err := db.p().Query(ctx, query+` ORDER BY deadline`, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %w", err)
	}
	return scanGoals(rows)
}

// UpdateGoal обновляет информацию о цели
func (db *DB) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, is_completed = $5
		WHERE id = $6`
	result, err := db.p().Exec(ctx, query,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.IsCompleted,
		goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %s: %w", goal.ID, ErrNotFound)
	}
	return nil
}

// DeleteGoal удаляет цель по ID
func (db *DB) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	result, err := db.p().Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindGoalByName: первая цель пользователя с таким именем (уникальность не гарантируется).
func (db *DB) FindGoalByName(ctx context.Context, userID uuid.UUID, name string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 AND name = $2 ORDER BY created_at LIMIT 1`
	g, err := scanGoal(db.p().QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, notFound(err, "цель "+name)
	}
	return g, nil
}

// UpdateGoalProgress сохраняет накопленную сумму и флаг выполнения
func (db *DB) UpdateGoalProgress(ctx context.Context, id uuid.UUID, current float64, completed bool) error {
	result, err := db.p().Exec(ctx,
		`UPDATE goals SET current_amount = $1, is_completed = $2 WHERE id = $3`, current, completed, id)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении прогресса к цели: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListGoalsDueBetween: цели со сроком в интервале [from, to].
func (db *DB) ListGoalsDueBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error) {
	rows, err := db.p().Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE deadline >= $1 AND deadline <= $2 ORDER BY deadline`, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей по сроку: %w", err)
	}
	return scanGoals(rows)
}
