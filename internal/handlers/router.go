package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/berling9700/budget-tracker/internal/docs" // Import swagger docs
	"github.com/berling9700/budget-tracker/internal/middleware"
	"github.com/berling9700/budget-tracker/internal/services"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Budgets     services.BudgetServicer
	Expenses    services.ExpenseServicer
	Assets      services.AssetServicer
	Liabilities services.LiabilityServicer
	NetWorth    services.NetWorthServicer
	Data        services.DataServicer
	Advisor     services.AdvisorServicer
}

// RouterConfig holds the HTTP-level settings.
type RouterConfig struct {
	APIKey         string
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with every route mounted under /api/v1.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	budgetHandler := NewBudgetHandler(svc.Budgets)
	expenseHandler := NewExpenseHandler(svc.Expenses)
	assetHandler := NewAssetHandler(svc.Assets)
	liabilityHandler := NewLiabilityHandler(svc.Liabilities, svc.NetWorth)
	dataHandler := NewDataHandler(svc.Data, svc.Advisor)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(cfg.APIKey))
	v1.Use(middleware.Timeout(cfg.RequestTimeout))

	v1.GET("/state", dataHandler.GetState)
	v1.GET("/settings", dataHandler.GetSettings)
	v1.PUT("/settings", dataHandler.UpdateSettings)
	v1.GET("/export", dataHandler.Export)
	v1.POST("/import", dataHandler.Import)
	v1.POST("/advice", dataHandler.Advise)

	budgets := v1.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/draft", budgetHandler.DraftBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/activate", budgetHandler.ActivateBudget)
	budgets.GET("/:id/copy", budgetHandler.CopyBudget)
	budgets.GET("/:id/summary", budgetHandler.GetBudgetSummary)

	expenses := v1.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.AddExpenses)
	expenses.DELETE("", expenseHandler.DeleteInView)
	expenses.POST("/csv", expenseHandler.ImportCSV)
	expenses.POST("/delete", expenseHandler.DeleteSelected)
	expenses.POST("/recategorize", expenseHandler.Recategorize)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	assets := v1.Group("/assets")
	assets.GET("", assetHandler.GetAssets)
	assets.POST("", assetHandler.CreateAsset)
	assets.POST("/refresh-prices", assetHandler.RefreshPrices)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.POST("/:id/holdings", assetHandler.AddHolding)
	assets.DELETE("/:id/holdings/:holdingId", assetHandler.DeleteHolding)
	v1.PUT("/holdings/:id", assetHandler.UpdateHolding)
	v1.GET("/quotes/:ticker", assetHandler.GetQuote)

	liabilities := v1.Group("/liabilities")
	liabilities.GET("", liabilityHandler.GetLiabilities)
	liabilities.POST("", liabilityHandler.CreateLiability)
	liabilities.PUT("/:id", liabilityHandler.UpdateLiability)
	liabilities.DELETE("/:id", liabilityHandler.DeleteLiability)

	v1.GET("/net-worth", liabilityHandler.GetNetWorth)
	v1.GET("/allocation", liabilityHandler.GetAllocation)

	return router
}
