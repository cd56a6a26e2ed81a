package models

import (
	"time"

	"github.com/google/uuid"
)

// Saving: отчисление с доходной транзакции. На одну транзакцию не больше одной записи.
type Saving struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	UserID              uuid.UUID `json:"user_id" db:"user_id"`
	Amount              float64   `json:"amount" db:"amount"`
	SourceTransactionID uuid.UUID `json:"source_transaction_id" db:"source_transaction_id"`
	SourceCategory      string    `json:"source_category" db:"source_category"`
	Description         string    `json:"description" db:"description"`
	Date                time.Time `json:"date" db:"date"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

type CategoryTotal struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"total_amount"`
	Count       int     `json:"count"`
}
