package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func (s *Store) CreateBudget(_ context.Context, budget *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = s.now()
	s.budgets[budget.ID] = *budget
	return nil
}

func (s *Store) GetBudgetByID(_ context.Context, id uuid.UUID) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return nil, notFound("бюджет", id)
	}
	return &b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID *uuid.UUID) ([]models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	budgets := []models.Budget{}
	for _, b := range s.budgets {
		if userID == nil || b.UserID == *userID {
			budgets = append(budgets, b)
		}
	}
	sort.SliceStable(budgets, func(i, j int) bool { return budgets[i].StartDate.Before(budgets[j].StartDate) })
	return budgets, nil
}

func (s *Store) UpdateBudget(_ context.Context, budget *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[budget.ID]
	if !ok {
		return notFound("бюджет", budget.ID)
	}
	b.Category, b.Amount, b.StartDate, b.EndDate = budget.Category, budget.Amount, budget.StartDate, budget.EndDate
	s.budgets[budget.ID] = b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[id]; !ok {
		return notFound("бюджет", id)
	}
	delete(s.budgets, id)
	return nil
}

// FindBudgetForDate: при пересечении окон берётся самый ранний по созданию.
func (s *Store) FindBudgetForDate(_ context.Context, userID uuid.UUID, category string, date time.Time) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Budget
	for _, b := range s.budgets {
		if b.UserID != userID || b.Category != category || !b.Covers(date) {
			continue
		}
		if found == nil || b.CreatedAt.Before(found.CreatedAt) {
			b := b
			found = &b
		}
	}
	if found == nil {
		return nil, notFound("бюджет для категории", category)
	}
	return found, nil
}

func (s *Store) UpdateBudgetSpending(_ context.Context, id uuid.UUID, spending float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok {
		return notFound("бюджет", id)
	}
	b.CurrentSpending = spending
	s.budgets[id] = b
	return nil
}
