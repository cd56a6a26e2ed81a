package models

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	TargetAmount  float64   `json:"target_amount" db:"target_amount"`
	CurrentAmount float64   `json:"current_amount" db:"current_amount"`
	Deadline      time.Time `json:"deadline" db:"deadline"`
	IsCompleted   bool      `json:"is_completed" db:"is_completed"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (g *Goal) RemainingAmount() float64 {
	return g.TargetAmount - g.CurrentAmount
}

// UpdateCompletion пересчитывает флаг выполнения цели
func (g *Goal) UpdateCompletion() {
	g.IsCompleted = g.CurrentAmount >= g.TargetAmount
}
