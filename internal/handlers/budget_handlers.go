package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type budgetRequest struct {
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (r *budgetRequest) valid() bool {
	return strings.TrimSpace(r.Category) != "" && r.Amount >= 0 &&
		!r.StartDate.IsZero() && !r.EndDate.IsZero() && !r.EndDate.Before(r.StartDate)
}

func (h *Handler) CreateBudget(c *gin.Context) {
	var in budgetRequest
	if err := c.ShouldBindJSON(&in); err != nil || !in.valid() {
		badRequest(c, "Некорректный ввод данных бюджета", err)
		return
	}

	budget := &models.Budget{
		UserID:    principal(c).ID,
		Category:  strings.TrimSpace(in.Category),
		Amount:    in.Amount,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if err := h.store.CreateBudget(c.Request.Context(), budget); err != nil {
		h.fail(c, err, "Ошибка при создании бюджета")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Бюджет успешно создан", "budget": budget})
}

func (h *Handler) ListBudgets(c *gin.Context) {
	budgets, err := h.store.ListBudgets(c.Request.Context(), scope(principal(c)))
	if err != nil {
		h.fail(c, err, "Ошибка при получении списка бюджетов")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// ownedBudget загружает бюджет и проверяет доступ (владелец или администратор).
func (h *Handler) ownedBudget(c *gin.Context, id uuid.UUID) (*models.Budget, error) {
	budget, err := h.store.GetBudgetByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if !principal(c).CanAccess(budget.UserID) {
		return nil, errForbidden
	}
	return budget, nil
}

func (h *Handler) GetBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	budget, err := h.ownedBudget(c, id)
	if err != nil {
		h.fail(c, err, "Бюджет недоступен")
		return
	}
	c.JSON(http.StatusOK, budget)
}

// UpdateBudget меняет только категорию, лимит и период; current_spending не трогается.
func (h *Handler) UpdateBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in budgetRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректный ввод данных", err)
		return
	}

	ctx := c.Request.Context()
	budget, err := h.ownedBudget(c, id)
	if err != nil {
		h.fail(c, err, "Бюджет недоступен")
		return
	}
	if strings.TrimSpace(in.Category) != "" {
		budget.Category = strings.TrimSpace(in.Category)
	}
	if in.Amount > 0 {
		budget.Amount = in.Amount
	}
	if !in.StartDate.IsZero() {
		budget.StartDate = in.StartDate
	}
	if !in.EndDate.IsZero() {
		budget.EndDate = in.EndDate
	}
	if budget.EndDate.Before(budget.StartDate) {
		badRequest(c, "Дата окончания раньше даты начала", nil)
		return
	}

	if err := h.store.UpdateBudget(ctx, budget); err != nil {
		h.fail(c, err, "Ошибка при обновлении бюджета")
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.ownedBudget(c, id); err != nil {
		h.fail(c, err, "Бюджет недоступен")
		return
	}
	if err := h.store.DeleteBudget(ctx, id); err != nil {
		h.fail(c, err, "Ошибка при удалении бюджета")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно удалён"})
}

// ReconcileBudget пересчитывает current_spending по транзакциям периода.
func (h *Handler) ReconcileBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.ownedBudget(c, id); err != nil {
		h.fail(c, err, "Бюджет недоступен")
		return
	}
	budget, err := h.ledger.Reconcile(ctx, id)
	if err != nil {
		h.fail(c, err, "Ошибка пересчёта бюджета")
		return
	}
	c.JSON(http.StatusOK, budget)
}
