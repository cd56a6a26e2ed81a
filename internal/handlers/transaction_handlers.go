package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// CreateTransaction возвращает транзакцию; для дохода с накоплением: пару {transaction, savings}.
func (h *Handler) CreateTransaction(c *gin.Context) {
	var in finance.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректный ввод", err)
		return
	}

	res, err := h.transactions.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		h.fail(c, err, "Ошибка создания транзакции")
		return
	}

	if res.Saving != nil {
		c.JSON(http.StatusCreated, gin.H{
			"transaction": res.Transaction,
			"savings": gin.H{
				"amount":      res.Saving.Amount,
				"description": res.Saving.Description,
			},
		})
		return
	}
	c.JSON(http.StatusCreated, res.Transaction)
}

func transactionFilter(c *gin.Context) models.TransactionFilter {
	f := models.TransactionFilter{
		UserID:    scope(principal(c)),
		Type:      models.TransactionType(c.Query("type")),
		Category:  c.Query("category"),
		Notes:     c.Query("notes"),
		SortBy:    c.DefaultQuery("sortBy", "date"),
		SortOrder: models.SortOrder(c.DefaultQuery("sortOrder", string(models.SortDesc))),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 10),
	}
	if tags := c.Query("tags"); tags != "" {
		f.Tags = strings.Split(tags, ",")
	}
	return f
}

func (h *Handler) ListTransactions(c *gin.Context) {
	list, total, err := h.store.ListTransactions(c.Request.Context(), transactionFilter(c))
	if err != nil {
		h.fail(c, err, "Ошибка получения транзакций")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "totalTransactions": total})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	t, err := h.transactions.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, err, "Транзакция не найдена")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var patch finance.TransactionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Некорректный ввод", err)
		return
	}

	t, err := h.transactions.Update(c.Request.Context(), principal(c), id, patch)
	if err != nil {
		h.fail(c, err, "Ошибка обновления транзакции")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.transactions.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err, "Ошибка удаления транзакции")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно удалена"})
}
