package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications отдаёт уведомления от новых к старым; администратор видит все.
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.store.ListNotifications(c.Request.Context(), scope(principal(c)))
	if err != nil {
		h.fail(c, err, "Ошибка получения уведомлений")
		return
	}
	c.JSON(http.StatusOK, notifications)
}
