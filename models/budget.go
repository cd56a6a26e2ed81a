package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget хранит накопленные траты по категории за период.
// CurrentSpending: накопитель, а не пересчитываемый агрегат.
type Budget struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Category        string    `json:"category" db:"category"`
	Amount          float64   `json:"amount" db:"amount"`
	StartDate       time.Time `json:"start_date" db:"start_date"`
	EndDate         time.Time `json:"end_date" db:"end_date"`
	CurrentSpending float64   `json:"current_spending" db:"current_spending"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Covers сообщает, попадает ли дата в окно бюджета (границы включительно).
func (b *Budget) Covers(t time.Time) bool {
	return !t.Before(b.StartDate) && !t.After(b.EndDate)
}

func (b *Budget) PercentageSpent() float64 {
	return b.CurrentSpending / b.Amount * 100
}
