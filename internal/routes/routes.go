package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/handlers"
)

// AllowedOrigins: адреса фронтенда для CORS.
var AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

func SetupRouter(h *handlers.Handler, authService *auth.Service, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(log), handlers.CORSMiddleware(AllowedOrigins...))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	protected := api.Group("", auth.Protect(authService))

	users := protected.Group("/users")
	users.GET("/me", h.Profile)
	users.GET("", auth.AdminOnly(), h.ListUsers)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", auth.AdminOnly(), h.DeleteUser)

	transactions := protected.Group("/transactions")
	transactions.POST("", h.CreateTransaction)
	transactions.GET("", h.ListTransactions)
	transactions.GET("/:id", h.GetTransaction)
	transactions.PUT("/:id", h.UpdateTransaction)
	transactions.DELETE("/:id", h.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", h.CreateBudget)
	budgets.GET("", h.ListBudgets)
	budgets.GET("/:id", h.GetBudget)
	budgets.PUT("/:id", h.UpdateBudget)
	budgets.DELETE("/:id", h.DeleteBudget)
	budgets.POST("/:id/reconcile", h.ReconcileBudget)

	goals := protected.Group("/goals")
	goals.POST("", h.CreateGoal)
	goals.GET("", h.ListGoals)
	goals.GET("/:id", h.GetGoal)
	goals.PUT("/:id", h.UpdateGoal)
	goals.PATCH("/:id/progress", h.AddGoalProgress)
	goals.DELETE("/:id", h.DeleteGoal)

	savings := protected.Group("/savings")
	savings.GET("", h.ListSavings)
	savings.GET("/total", h.TotalSavings)
	savings.GET("/summary/category", h.SavingsByCategory)
	savings.GET("/:id", h.GetSaving)
	savings.PUT("/:id", h.UpdateSaving)
	savings.DELETE("/:id", h.DeleteSaving)

	protected.GET("/notifications", h.ListNotifications)

	return r
}
