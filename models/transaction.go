package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType: доход или расход
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// RecurrencePattern задаёт интервал повторения; пустое значение означает отсутствие повторения.
type RecurrencePattern string

const (
	RecurrenceNone        RecurrencePattern = ""
	RecurrenceFiveMinutes RecurrencePattern = "5minute"
	RecurrenceDaily       RecurrencePattern = "daily"
	RecurrenceWeekly      RecurrencePattern = "weekly"
	RecurrenceMonthly     RecurrencePattern = "monthly"
)

func (p RecurrencePattern) Valid() bool {
	switch p {
	case RecurrenceNone, RecurrenceFiveMinutes, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

type Transaction struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	UserID            uuid.UUID         `json:"user_id" db:"user_id"`
	Type              TransactionType   `json:"type" db:"type"`
	Amount            float64           `json:"amount" db:"amount"`
	Currency          string            `json:"currency" db:"currency"`
	ConvertedAmount   float64           `json:"converted_amount" db:"converted_amount"` // сумма в базовой валюте
	Category          string            `json:"category" db:"category"`
	Date              time.Time         `json:"date" db:"date"`
	Notes             string            `json:"notes" db:"notes"`
	Tags              []string          `json:"tags" db:"tags"`
	IsRecurring       bool              `json:"is_recurring" db:"is_recurring"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty" db:"recurrence_pattern"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}
