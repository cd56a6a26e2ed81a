package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// SavingsRate: доля дохода, откладываемая в накопления.
var SavingsRate = decimal.RequireFromString("0.05")

type SavingStore interface {
	CreateSaving(ctx context.Context, s *models.Saving) error
	DeleteSavingBySourceTransaction(ctx context.Context, transactionID uuid.UUID) error
}

type SavingsAllocator struct {
	store        SavingStore
	baseCurrency string
	log          zerolog.Logger
}

func NewSavingsAllocator(store SavingStore, baseCurrency string, log zerolog.Logger) *SavingsAllocator {
	return &SavingsAllocator{store: store, baseCurrency: baseCurrency, log: log}
}

// SavingAmount округляет долю дохода до копеек.
func SavingAmount(convertedIncome float64) decimal.Decimal {
	return decimal.NewFromFloat(convertedIncome).Mul(SavingsRate).Round(2)
}

func (a *SavingsAllocator) Allocate(ctx context.Context, userID, transactionID uuid.UUID, category string, convertedIncome float64, occurredOn time.Time) (*models.Saving, error) {
	amount := SavingAmount(convertedIncome)
	saving := &models.Saving{
		UserID:              userID,
		Amount:              amount.InexactFloat64(),
		SourceTransactionID: transactionID,
		SourceCategory:      category,
		Description: fmt.Sprintf("%s %s has been allocated as a saving from %s transaction.",
			amount.StringFixed(2), a.baseCurrency, category),
		Date: occurredOn,
	}

	if err := a.store.CreateSaving(ctx, saving); err != nil {
		a.log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("transaction_id", transactionID.String()).
			Msg("ошибка создания накопления")
		return nil, fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}

	a.log.Debug().
		Str("transaction_id", transactionID.String()).
		Str("amount", amount.StringFixed(2)).
		Msg("накопление создано")
	return saving, nil
}

// Release удаляет накопление транзакции, если оно есть.
func (a *SavingsAllocator) Release(ctx context.Context, transactionID uuid.UUID) error {
	if err := a.store.DeleteSavingBySourceTransaction(ctx, transactionID); err != nil {
		a.log.Error().Err(err).Str("transaction_id", transactionID.String()).Msg("ошибка удаления накопления")
		return err
	}
	return nil
}
