package inmemory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func (s *Store) CreateSaving(_ context.Context, saving *models.Saving) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if saving.ID == uuid.Nil {
		saving.ID = uuid.New()
	}
	saving.CreatedAt = s.now()
	saving.UpdatedAt = saving.CreatedAt
	s.savings[saving.ID] = *saving
	return nil
}

func (s *Store) GetSavingByID(_ context.Context, id uuid.UUID) (*models.Saving, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sv, ok := s.savings[id]
	if !ok {
		return nil, notFound("накопление", id)
	}
	return &sv, nil
}

func (s *Store) UpdateSaving(_ context.Context, saving *models.Saving) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.savings[saving.ID]
	if !ok {
		return notFound("накопление", saving.ID)
	}
	sv.Amount, sv.SourceCategory, sv.Description, sv.Date = saving.Amount, saving.SourceCategory, saving.Description, saving.Date
	sv.UpdatedAt = s.now()
	saving.UpdatedAt = sv.UpdatedAt
	s.savings[saving.ID] = sv
	return nil
}

func (s *Store) DeleteSaving(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.savings[id]; !ok {
		return notFound("накопление", id)
	}
	delete(s.savings, id)
	return nil
}

func (s *Store) DeleteSavingBySourceTransaction(_ context.Context, transactionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sv := range s.savings {
		if sv.SourceTransactionID == transactionID {
			delete(s.savings, id)
		}
	}
	return nil
}

func matchSaving(sv models.Saving, f models.SavingFilter) bool {
	if f.UserID != nil && sv.UserID != *f.UserID {
		return false
	}
	if f.SourceCategory != "" && sv.SourceCategory != f.SourceCategory {
		return false
	}
	if f.StartDate != nil && sv.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && sv.Date.After(*f.EndDate) {
		return false
	}
	return true
}

func (s *Store) ListSavings(_ context.Context, f models.SavingFilter) ([]models.Saving, int, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	list := []models.Saving{}
	for _, sv := range s.savings {
		if matchSaving(sv, f) {
			list = append(list, sv)
			total += sv.Amount
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch f.SortBy {
		case "amount":
			return ordered(a.Amount < b.Amount, f.SortOrder)
		case "sourceCategory":
			return ordered(a.SourceCategory < b.SourceCategory, f.SortOrder)
		case "createdAt", "created_at":
			return ordered(a.CreatedAt.Before(b.CreatedAt), f.SortOrder)
		default:
			return ordered(a.Date.Before(b.Date), f.SortOrder)
		}
	})
	return page(list, f.Page, f.Limit), len(list), total, nil
}

func (s *Store) SavingsByCategory(_ context.Context, userID *uuid.UUID) ([]models.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCategory := make(map[string]*models.CategoryTotal)
	for _, sv := range s.savings {
		if userID != nil && sv.UserID != *userID {
			continue
		}
		ct, ok := byCategory[sv.SourceCategory]
		if !ok {
			ct = &models.CategoryTotal{Category: sv.SourceCategory}
			byCategory[sv.SourceCategory] = ct
		}
		ct.TotalAmount += sv.Amount
		ct.Count++
	}

	totals := make([]models.CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].TotalAmount > totals[j].TotalAmount })
	return totals, nil
}
