package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type goalRequest struct {
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Deadline      *time.Time `json:"deadline"`
}

func (h *Handler) CreateGoal(c *gin.Context) {
	var in goalRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректный формат ввода", err)
		return
	}
	if strings.TrimSpace(in.Name) == "" || in.TargetAmount <= 0 || in.Deadline == nil {
		badRequest(c, "Название, целевая сумма и срок обязательны", nil)
		return
	}

	goal := &models.Goal{
		UserID:       principal(c).ID,
		Name:         strings.TrimSpace(in.Name),
		TargetAmount: in.TargetAmount,
		Deadline:     *in.Deadline,
	}
	if err := h.store.CreateGoal(c.Request.Context(), goal); err != nil {
		h.fail(c, err, "Не удалось создать цель")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *Handler) ListGoals(c *gin.Context) {
	goals, err := h.store.ListGoals(c.Request.Context(), scope(principal(c)))
	if err != nil {
		h.fail(c, err, "Не удалось получить цели")
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *Handler) GetGoal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	goal, err := h.store.GetGoalByID(c.Request.Context(), id)
	if err == nil {
		err = finance.Authorize(principal(c), goal.UserID)
	}
	if err != nil {
		h.fail(c, err, "Цель недоступна")
		return
	}
	c.JSON(http.StatusOK, goal)
}

// ownGoal: изменять и удалять цель может только владелец, без исключения для администратора.
func (h *Handler) ownGoal(c *gin.Context, id uuid.UUID) (*models.Goal, error) {
	goal, err := h.store.GetGoalByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if goal.UserID != principal(c).ID {
		return nil, finance.ErrUnauthorized
	}
	return goal, nil
}

func (h *Handler) UpdateGoal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in goalRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректные данные", err)
		return
	}

	goal, err := h.ownGoal(c, id)
	if err != nil {
		h.fail(c, err, "Цель недоступна")
		return
	}
	if strings.TrimSpace(in.Name) != "" {
		goal.Name = strings.TrimSpace(in.Name)
	}
	if in.Deadline != nil {
		goal.Deadline = *in.Deadline
	}
	if in.CurrentAmount != 0 {
		goal.CurrentAmount = in.CurrentAmount
	}
	if in.TargetAmount != 0 {
		goal.TargetAmount = in.TargetAmount
	}
	goal.UpdateCompletion()

	if err := h.store.UpdateGoal(c.Request.Context(), goal); err != nil {
		h.fail(c, err, "Не удалось обновить цель")
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *Handler) DeleteGoal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := h.ownGoal(c, id); err != nil {
		h.fail(c, err, "Цель недоступна")
		return
	}
	if err := h.store.DeleteGoal(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Не удалось удалить цель")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Цель успешно удалена"})
}

// AddGoalProgress прибавляет ручной взнос к цели.
func (h *Handler) AddGoalProgress(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in struct {
		Progress decimal.Decimal `json:"progress"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректные данные", err)
		return
	}
	if !in.Progress.IsPositive() {
		badRequest(c, "Прогресс должен быть положительным", nil)
		return
	}

	goal, err := h.ownGoal(c, id)
	if err != nil {
		h.fail(c, err, "Цель недоступна")
		return
	}
	goal.CurrentAmount = decimal.NewFromFloat(goal.CurrentAmount).Add(in.Progress).Round(2).InexactFloat64()
	goal.UpdateCompletion()

	if err := h.store.UpdateGoalProgress(c.Request.Context(), goal.ID, goal.CurrentAmount, goal.IsCompleted); err != nil {
		h.fail(c, err, "Не удалось добавить прогресс")
		return
	}
	c.JSON(http.StatusOK, goal)
}
