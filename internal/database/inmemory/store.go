// Package inmemory хранит данные в памяти процесса. Используется в режиме STORAGE=memory и в тестах.
// Данные теряются при перезапуске.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

var _ database.Store = (*Store)(nil)

// Store безопасен для конкурентного использования. Наружу отдаются только копии.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users         map[uuid.UUID]models.User
	transactions  map[uuid.UUID]models.Transaction
	budgets       map[uuid.UUID]models.Budget
	goals         map[uuid.UUID]models.Goal
	savings       map[uuid.UUID]models.Saving
	notifications []models.Notification
}

type Option func(*Store)

// WithClock задаёт источник времени для created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:          time.Now,
		users:        make(map[uuid.UUID]models.User),
		transactions: make(map[uuid.UUID]models.Transaction),
		budgets:      make(map[uuid.UUID]models.Budget),
		goals:        make(map[uuid.UUID]models.Goal),
		savings:      make(map[uuid.UUID]models.Saving),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) EnsureConnected(context.Context) error { return nil }

func (s *Store) Close() {}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, database.ErrNotFound)
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// page вырезает страницу из уже отсортированной выборки.
func page[T any](items []T, p, limit int) []T {
	if limit <= 0 {
		return items
	}
	from := models.Offset(p, limit)
	if from >= len(items) {
		return []T{}
	}
	to := from + limit
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}

func ordered(less bool, order models.SortOrder) bool {
	if order == models.SortAsc {
		return less
	}
	return !less
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("пользователь с email %s уже существует", user.Email)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleRegular
	}
	user.CreatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("пользователь", id)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("пользователь", email)
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[user.ID]
	if !ok {
		return notFound("пользователь", user.ID)
	}
	u.Name, u.Email, u.Role = user.Name, user.Email, user.Role
	s.users[user.ID] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return notFound("пользователь", id)
	}
	delete(s.users, id)
	return nil
}

// Transactions

// CreateTransaction сохраняет заданный CreatedAt, если он уже заполнен.
func (s *Store) CreateTransaction(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	stored := *t
	stored.Tags = cloneTags(t.Tags)
	s.transactions[t.ID] = stored
	return nil
}

func (s *Store) GetTransactionByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, notFound("транзакция", id)
	}
	t.Tags = cloneTags(t.Tags)
	return &t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.transactions[t.ID]
	if !ok {
		return notFound("транзакция", t.ID)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	t.UserID = old.UserID
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = s.now()

	stored := *t
	stored.Tags = cloneTags(t.Tags)
	s.transactions[t.ID] = stored
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return notFound("транзакция", id)
	}
	delete(s.transactions, id)
	return nil
}

func matchTransaction(t models.Transaction, f models.TransactionFilter) bool {
	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Notes != "" && !strings.Contains(strings.ToLower(t.Notes), strings.ToLower(f.Notes)) {
		return false
	}
	if len(f.Tags) > 0 {
		for _, want := range f.Tags {
			for _, have := range t.Tags {
				if want == have {
					return true
				}
			}
		}
		return false
	}
	return true
}

func (s *Store) ListTransactions(_ context.Context, f models.TransactionFilter) ([]models.Transaction, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []models.Transaction{}
	for _, t := range s.transactions {
		if matchTransaction(t, f) {
			t.Tags = cloneTags(t.Tags)
			list = append(list, t)
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch f.SortBy {
		case "amount":
			return ordered(a.Amount < b.Amount, f.SortOrder)
		case "category":
			return ordered(a.Category < b.Category, f.SortOrder)
		case "type":
			return ordered(a.Type < b.Type, f.SortOrder)
		case "createdAt", "created_at":
			return ordered(a.CreatedAt.Before(b.CreatedAt), f.SortOrder)
		default:
			return ordered(a.Date.Before(b.Date), f.SortOrder)
		}
	})
	return page(list, f.Page, f.Limit), len(list), nil
}

func (s *Store) ListRecurringTransactions(context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Transaction
	for _, t := range s.transactions {
		if t.IsRecurring {
			t.Tags = cloneTags(t.Tags)
			list = append(list, t)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) GetLatestRecurringTransaction(_ context.Context, userID uuid.UUID, category string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Transaction
	for _, t := range s.transactions {
		if t.UserID != userID || t.Category != category || !t.IsRecurring {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			t := t
			latest = &t
		}
	}
	if latest == nil {
		return nil, notFound("повторяющаяся транзакция", category)
	}
	latest.Tags = cloneTags(latest.Tags)
	return latest, nil
}

func (s *Store) SumConvertedByType(_ context.Context, userID uuid.UUID, category string, from, to time.Time) (income, expense float64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.UserID != userID || t.Category != category || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			income += t.ConvertedAmount
		case models.TransactionExpense:
			expense += t.ConvertedAmount
		}
	}
	return income, expense, nil
}
