package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, user_id, message, type, timestamp)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING timestamp`

	var ts any
	if !n.Timestamp.IsZero() {
		ts = n.Timestamp
	}
	err := db.p().QueryRow(ctx, query, n.ID, n.UserID, n.Message, n.Type, ts).Scan(&n.Timestamp)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении уведомления: %w", err)
	}
	return nil
}

// ListNotifications: уведомления пользователя (или все), новые первыми.
func (db *DB) ListNotifications(ctx context.Context, userID *uuid.UUID) ([]models.Notification, error) {
	query := `SELECT id, user_id, message, type, timestamp FROM notifications`
	var args []any
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := db.p().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Timestamp); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
