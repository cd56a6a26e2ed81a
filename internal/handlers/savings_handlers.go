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

// parseDate принимает YYYY-MM-DD или RFC3339.
func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, v); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (h *Handler) ListSavings(c *gin.Context) {
	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		badRequest(c, "Некорректная дата startDate", err)
		return
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		badRequest(c, "Некорректная дата endDate", err)
		return
	}

	f := models.SavingFilter{
		UserID:         scope(principal(c)),
		SourceCategory: c.Query("sourceCategory"),
		StartDate:      start,
		EndDate:        end,
		SortBy:         c.DefaultQuery("sortBy", "date"),
		SortOrder:      models.SortOrder(c.DefaultQuery("sortOrder", string(models.SortDesc))),
		Page:           queryInt(c, "page", 1),
		Limit:          queryInt(c, "limit", 10),
	}
	savings, count, total, err := h.store.ListSavings(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "Ошибка получения накоплений")
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings": savings, "totalSavings": count, "totalAmount": total})
}

func (h *Handler) TotalSavings(c *gin.Context) {
	_, _, total, err := h.store.ListSavings(c.Request.Context(), models.SavingFilter{UserID: scope(principal(c))})
	if err != nil {
		h.fail(c, err, "Ошибка получения суммы накоплений")
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalAmount": total})
}

func (h *Handler) SavingsByCategory(c *gin.Context) {
	summary, err := h.store.SavingsByCategory(c.Request.Context(), scope(principal(c)))
	if err != nil {
		h.fail(c, err, "Ошибка получения сводки накоплений")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) accessibleSaving(c *gin.Context, id uuid.UUID) (*models.Saving, error) {
	saving, err := h.store.GetSavingByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := finance.Authorize(principal(c), saving.UserID); err != nil {
		return nil, err
	}
	return saving, nil
}

func (h *Handler) GetSaving(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	saving, err := h.accessibleSaving(c, id)
	if err != nil {
		h.fail(c, err, "Накопление недоступно")
		return
	}
	c.JSON(http.StatusOK, saving)
}

type savingUpdate struct {
	Amount         *decimal.Decimal `json:"amount"`
	SourceCategory *string          `json:"source_category"`
	Description    *string          `json:"description"`
	Date           *time.Time       `json:"date"`
}

// UpdateSaving не меняет владельца и исходную транзакцию.
func (h *Handler) UpdateSaving(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in savingUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректный ввод", err)
		return
	}

	saving, err := h.accessibleSaving(c, id)
	if err != nil {
		h.fail(c, err, "Накопление недоступно")
		return
	}
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			badRequest(c, "Сумма не может быть отрицательной", nil)
			return
		}
		saving.Amount = in.Amount.Round(2).InexactFloat64()
	}
	if in.SourceCategory != nil && strings.TrimSpace(*in.SourceCategory) != "" {
		saving.SourceCategory = strings.TrimSpace(*in.SourceCategory)
	}
	if in.Description != nil {
		saving.Description = *in.Description
	}
	if in.Date != nil {
		saving.Date = *in.Date
	}

	if err := h.store.UpdateSaving(c.Request.Context(), saving); err != nil {
		h.fail(c, err, "Ошибка обновления накопления")
		return
	}
	c.JSON(http.StatusOK, saving)
}

func (h *Handler) DeleteSaving(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := h.accessibleSaving(c, id); err != nil {
		h.fail(c, err, "Накопление недоступно")
		return
	}
	if err := h.store.DeleteSaving(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Ошибка удаления накопления")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Накопление удалено"})
}
