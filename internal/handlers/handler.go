// Package handlers: HTTP-слой на gin. Переводит ошибки ядра в коды ответа.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/logger"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// errForbidden: чужой бюджет (403, в отличие от 401 у остальных сущностей).
var errForbidden = errors.New("доступ запрещён")

type Handler struct {
	store        database.Store
	auth         *auth.Service
	transactions *finance.TransactionService
	ledger       *finance.BudgetLedger
	log          zerolog.Logger
}

func New(store database.Store, authService *auth.Service, transactions *finance.TransactionService,
	ledger *finance.BudgetLedger, log zerolog.Logger) *Handler {
	return &Handler{
		store:        store,
		auth:         authService,
		transactions: transactions,
		ledger:       ledger,
		log:          log,
	}
}

func (h *Handler) logger(c *gin.Context) *zerolog.Logger {
	l := logger.FromContextOr(c.Request.Context(), h.log)
	return &l
}

// fail пишет ответ по типу ошибки. message: текст для клиента.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, finance.ErrValidation), errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, auth.ErrUserExists), errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, finance.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		status = http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	}

	body := gin.H{"message": message}
	if status == http.StatusInternalServerError {
		h.logger(c).Error().Err(err).Msg(message)
		body["error"] = err.Error()
	} else if status == http.StatusBadRequest {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

func principal(c *gin.Context) models.Principal {
	p, _ := auth.PrincipalFrom(c)
	return p
}

// scope возвращает nil для администратора (все пользователи), иначе id владельца.
func scope(p models.Principal) *uuid.UUID {
	if p.IsAdmin() {
		return nil
	}
	id := p.ID
	return &id
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Некорректный идентификатор", err)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
