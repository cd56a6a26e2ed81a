package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestGoalProgressAndDueWindow(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	deadline := time.Now().UTC().Add(2 * time.Hour)
	goal := &models.Goal{
		UserID:       user.ID,
		Name:         "Vacation",
		TargetAmount: 1000,
		Deadline:     deadline,
	}
	if err := db.CreateGoal(ctx, goal); err != nil {
		t.Fatalf("ошибка создания цели: %v", err)
	}

	found, err := db.FindGoalByName(ctx, user.ID, "Vacation")
	if err != nil {
		t.Fatalf("цель не найдена по имени: %v", err)
	}
	if found.ID != goal.ID {
		t.Errorf("найдена другая цель: %s", found.ID)
	}

	if err := db.UpdateGoalProgress(ctx, goal.ID, 1000, true); err != nil {
		t.Fatalf("ошибка обновления прогресса: %v", err)
	}
	updated, err := db.GetGoalByID(ctx, goal.ID)
	if err != nil {
		t.Fatalf("ошибка получения цели: %v", err)
	}
	if !updated.IsCompleted || updated.CurrentAmount != 1000 {
		t.Errorf("прогресс цели не сохранен: %+v", updated)
	}

	due, err := db.ListGoalsDueBetween(ctx, deadline.Add(-time.Minute), deadline.Add(time.Minute))
	if err != nil {
		t.Fatalf("ошибка выборки целей по сроку: %v", err)
	}
	var ok bool
	for _, g := range due {
		ok = ok || g.ID == goal.ID
	}
	if !ok {
		t.Errorf("цель не попала в окно срока")
	}
}
