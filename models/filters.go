package models

import (
	"time"

	"github.com/google/uuid"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TransactionFilter описывает выборку транзакций. UserID == nil: все пользователи (админ).
type TransactionFilter struct {
	UserID    *uuid.UUID
	Type      TransactionType
	Category  string
	Notes     string
	Tags      []string
	SortBy    string
	SortOrder SortOrder
	Page      int
	Limit     int
}

type SavingFilter struct {
	UserID         *uuid.UUID
	SourceCategory string
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         string
	SortOrder      SortOrder
	Page           int
	Limit          int
}

// Offset возвращает смещение для страницы (страницы нумеруются с 1).
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
