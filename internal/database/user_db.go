package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const userColumns = `id, name, email, password, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleRegular
	}
	query := `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := db.p().QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Password, user.Role).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %w", err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(db.p().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "пользователь")
	}
	return u, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(db.p().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err, "пользователь")
	}
	return u, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.p().Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователей: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = $1, email = $2, role = $3 WHERE id = $4`
	result, err := db.p().Exec(ctx, query, user.Name, user.Email, user.Role, user.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("пользователь %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := db.p().Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("пользователь %s: %w", id, ErrNotFound)
	}
	return nil
}
