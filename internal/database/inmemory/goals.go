package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func (s *Store) CreateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	goal.CreatedAt = s.now()
	s.goals[goal.ID] = *goal
	return nil
}

func (s *Store) GetGoalByID(_ context.Context, id uuid.UUID) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, notFound("цель", id)
	}
	return &g, nil
}

func (s *Store) filterGoals(keep func(models.Goal) bool) []models.Goal {
	goals := []models.Goal{}
	for _, g := range s.goals {
		if keep(g) {
			goals = append(goals, g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Deadline.Before(goals[j].Deadline) })
	return goals
}

func (s *Store) ListGoals(_ context.Context, userID *uuid.UUID) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterGoals(func(g models.Goal) bool { return userID == nil || g.UserID == *userID }), nil
}

func (s *Store) UpdateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goal.ID]
	if !ok {
		return notFound("цель", goal.ID)
	}
	g.Name, g.TargetAmount, g.CurrentAmount = goal.Name, goal.TargetAmount, goal.CurrentAmount
	g.Deadline, g.IsCompleted = goal.Deadline, goal.IsCompleted
	s.goals[goal.ID] = g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[id]; !ok {
		return notFound("цель", id)
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) FindGoalByName(_ context.Context, userID uuid.UUID, name string) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Goal
	for _, g := range s.goals {
		if g.UserID != userID || g.Name != name {
			continue
		}
		if found == nil || g.CreatedAt.Before(found.CreatedAt) {
			g := g
			found = &g
		}
	}
	if found == nil {
		return nil, notFound("цель", name)
	}
	return found, nil
}

func (s *Store) UpdateGoalProgress(_ context.Context, id uuid.UUID, current float64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return notFound("цель", id)
	}
	g.CurrentAmount, g.IsCompleted = current, completed
	s.goals[id] = g
	return nil
}

func (s *Store) ListGoalsDueBetween(_ context.Context, from, to time.Time) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterGoals(func(g models.Goal) bool {
		return !g.Deadline.Before(from) && !g.Deadline.After(to)
	}), nil
}
