package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationBudget      NotificationType = "budget"
	NotificationTransaction NotificationType = "transaction"
	NotificationReminder    NotificationType = "reminder"
)

// Notification: запись в журнале уведомлений, только добавление.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	Timestamp time.Time        `json:"timestamp" db:"timestamp"`
}
