package database_test

import (
	"context"
	"testing"

	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestCreateNotification(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	n := &models.Notification{
		UserID:  user.ID,
		Message: "Test notification",
		Type:    models.NotificationBudget,
	}
	if err := db.CreateNotification(ctx, n); err != nil {
		t.Fatalf("ошибка создания уведомления: %v", err)
	}
	if n.Timestamp.IsZero() {
		t.Errorf("время уведомления не заполнено")
	}

	list, err := db.ListNotifications(ctx, &user.ID)
	if err != nil {
		t.Fatalf("ошибка получения уведомлений: %v", err)
	}
	if len(list) != 1 || list[0].Message != n.Message {
		t.Errorf("неверный список уведомлений: %+v", list)
	}
}
