package finance

import (
	"errors"

	"github.com/valeriaulyamaeva/finance-tracker-api/internal/currency"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
)

var (
	ErrValidation   = errors.New("некорректные данные")
	ErrUnauthorized = errors.New("нет доступа")
	// ErrAllocationFailed не доходит до клиента: накопления создаются по возможности.
	ErrAllocationFailed = errors.New("не удалось создать накопление")

	ErrNotFound              = database.ErrNotFound
	ErrConversionUnavailable = currency.ErrConversionUnavailable
)
