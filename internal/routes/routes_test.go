package routes_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/currency"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database/inmemory"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/handlers"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/logger"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/routes"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	store  *inmemory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	store := inmemory.NewStore()
	// Базовая валюта конвертируется без обращения к API.
	rates := currency.NewConverter(currency.Config{BaseCurrency: "LKR"}, log)
	ledger := finance.NewBudgetLedger(store, log)
	service := finance.NewTransactionService(store, rates, ledger,
		finance.NewGoalTracker(store, log), finance.NewSavingsAllocator(store, rates.Base(), log), log)
	authService := auth.NewService(store, auth.NewTokenIssuer("test-secret", time.Hour), log)

	h := handlers.New(store, authService, service, ledger, log)
	return &api{t: t, router: routes.SetupRouter(h, authService, log), store: store}
}

func (a *api) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *api) register(name, email string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	w, body := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	a.register("Anna", "anna@example.com")

	w, _ := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Anna", "email": "anna@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "anna@example.com", "password": "bad-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "anna@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	w, body = a.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anna@example.com", body["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w, _ = a.do(http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTransactionLifecycleUpdatesBudgetAndSavings(t *testing.T) {
	a := newAPI(t)
	anna := a.register("Anna", "anna@example.com")
	bob := a.register("Bob", "bob@example.com")

	now := time.Now().UTC()
	w, body := a.do(http.MethodPost, "/api/budgets", anna, map[string]any{
		"category":   "Food",
		"amount":     1000,
		"start_date": now.AddDate(0, 0, -1),
		"end_date":   now.AddDate(0, 0, 30),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	budgetID := body["budget"].(map[string]any)["id"].(string)

	w, _ = a.do(http.MethodPost, "/api/transactions", anna, map[string]any{"type": "expense", "amount": 200})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = a.do(http.MethodPost, "/api/transactions", anna, map[string]any{
		"type": "expense", "amount": 200, "category": "Food", "tags": []string{"lunch"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	expenseID := body["id"].(string)

	w, body = a.do(http.MethodGet, "/api/budgets/"+budgetID, anna, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200.0, body["current_spending"])

	w, _ = a.do(http.MethodGet, "/api/budgets/"+budgetID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = a.do(http.MethodGet, "/api/transactions/"+expenseID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = a.do(http.MethodPost, "/api/transactions", anna, map[string]any{
		"type": "income", "amount": 1000, "category": "Salary",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	savings := body["savings"].(map[string]any)
	assert.Equal(t, 50.0, savings["amount"])
	assert.Contains(t, savings["description"], "50.00 LKR")

	w, body = a.do(http.MethodGet, "/api/savings", anna, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["totalSavings"])
	assert.Equal(t, 50.0, body["totalAmount"])

	w, body = a.do(http.MethodGet, "/api/transactions?tags=lunch,other", anna, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["totalTransactions"])

	w, body = a.do(http.MethodGet, "/api/transactions", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, body["totalTransactions"])

	w, body = a.do(http.MethodPut, "/api/transactions/"+expenseID, anna, map[string]any{"amount": 300})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 300.0, body["converted_amount"])

	w, body = a.do(http.MethodGet, "/api/budgets/"+budgetID, anna, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300.0, body["current_spending"])

	w, _ = a.do(http.MethodDelete, "/api/transactions/"+expenseID, anna, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = a.do(http.MethodGet, "/api/budgets/"+budgetID, anna, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, body["current_spending"])

	w, _ = a.do(http.MethodDelete, "/api/transactions/"+expenseID, anna, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReconcileBudget(t *testing.T) {
	a := newAPI(t)
	anna := a.register("Anna", "anna@example.com")

	now := time.Now().UTC()
	w, body := a.do(http.MethodPost, "/api/budgets", anna, map[string]any{
		"category": "Food", "amount": 500,
		"start_date": now.AddDate(0, 0, -1), "end_date": now.AddDate(0, 0, 1),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	budget := body["budget"].(map[string]any)
	budgetID := budget["id"].(string)

	w, _ = a.do(http.MethodPost, "/api/transactions", anna, map[string]any{"type": "expense", "amount": 120, "category": "Food"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Рассинхронизируем накопитель вручную.
	b, err := a.store.GetBudgetByID(context.Background(), uuid.MustParse(budgetID))
	require.NoError(t, err)
	require.NoError(t, a.store.UpdateBudgetSpending(context.Background(), b.ID, 999))

	w, body = a.do(http.MethodPost, "/api/budgets/"+budgetID+"/reconcile", anna, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 120.0, body["current_spending"])
}

func TestGoalProgressAndOwnership(t *testing.T) {
	a := newAPI(t)
	anna := a.register("Anna", "anna@example.com")
	bob := a.register("Bob", "bob@example.com")

	w, _ := a.do(http.MethodPost, "/api/goals", anna, map[string]any{"name": "Car"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := a.do(http.MethodPost, "/api/goals", anna, map[string]any{
		"name": "Car", "target_amount": 100, "deadline": time.Now().AddDate(0, 1, 0),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goalID := body["id"].(string)

	w, _ = a.do(http.MethodPatch, "/api/goals/"+goalID+"/progress", anna, map[string]any{"progress": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = a.do(http.MethodPatch, "/api/goals/"+goalID+"/progress", anna, map[string]any{"progress": "60.5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 60.5, body["current_amount"])
	assert.Equal(t, false, body["is_completed"])

	w, body = a.do(http.MethodPatch, "/api/goals/"+goalID+"/progress", anna, map[string]any{"progress": 39.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["is_completed"])

	w, _ = a.do(http.MethodPut, "/api/goals/"+goalID, bob, map[string]any{"name": "Mine"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = a.do(http.MethodDelete, "/api/goals/"+goalID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/goals/"+goalID, anna, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminSeesEverything(t *testing.T) {
	a := newAPI(t)
	anna := a.register("Anna", "anna@example.com")

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	require.NoError(t, a.store.CreateUser(context.Background(), &models.User{Name: "Root", Email: "root@example.com", Password: hash, Role: models.RoleAdmin}))
	w, body := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "root@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	admin := body["token"].(string)

	w, _ = a.do(http.MethodPost, "/api/transactions", anna, map[string]any{"type": "income", "amount": 400, "category": "Salary"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = a.do(http.MethodGet, "/api/transactions", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["totalTransactions"])

	w, body = a.do(http.MethodGet, "/api/savings/total", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20.0, body["totalAmount"])

	w, _ = a.do(http.MethodGet, "/api/users", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
