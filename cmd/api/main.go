package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/berling9700/budget-tracker/internal/assistant"
	"github.com/berling9700/budget-tracker/internal/blobstore"
	"github.com/berling9700/budget-tracker/internal/config"
	"github.com/berling9700/budget-tracker/internal/database"
	"github.com/berling9700/budget-tracker/internal/handlers"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/quotes"
	"github.com/berling9700/budget-tracker/internal/services"
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/validator"
)

// @title           Budget Tracker API
// @version         1.0
// @description     Personal budgeting and net-worth tracking: yearly budgets with categorized expenses, assets with investment holdings, liabilities and net-worth history.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key configured on the server. Not required when the server runs without one.
func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	st := store.New(blobstore.NewGormStore(dbManager.DB()))
	if err := st.Load(); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	// The assistant is optional; without a key its endpoints report
	// NOT_CONFIGURED.
	var (
		parser  services.ExpenseParser
		advisor services.Advisor
	)
	if appConfig.GeminiAPIKey != "" {
		gen, err := assistant.NewGemini(context.Background(), appConfig.GeminiAPIKey, appConfig.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		parser = assistant.NewCSVParser(gen, nil)
		advisor = assistant.NewAdvisor(gen)
	} else {
		log.Warn("GEMINI_API_KEY not set, CSV import and advice are disabled")
	}

	httpClient := &http.Client{Timeout: appConfig.RequestTimeout}
	providerFactory := func(apiKey string) quotes.Provider {
		return quotes.NewAlphaVantage(httpClient, apiKey, appConfig.QuoteNameDelay)
	}

	validator.Register()

	router := handlers.NewRouter(handlers.Services{
		Budgets:  services.NewBudgetService(st),
		Expenses: services.NewExpenseService(st, parser),
		Assets: services.NewAssetService(st, providerFactory, services.QuoteOptions{
			DefaultAPIKey: appConfig.AlphaVantageAPIKey,
			Delay:         appConfig.QuoteDelay,
			NameDelay:     appConfig.QuoteNameDelay,
		}),
		Liabilities: services.NewLiabilityService(st),
		NetWorth:    services.NewNetWorthService(st),
		Data:        services.NewDataService(st),
		Advisor:     services.NewAdvisorService(st, advisor),
	}, handlers.RouterConfig{
		APIKey:         appConfig.APIKey,
		RequestTimeout: appConfig.RequestTimeout,
	})

	if appConfig.APIKey == "" {
		log.Warn("API_KEY not set, the API is open to anyone who can reach it")
	}
	log.Infof("Starting budget tracker server on port %s (%s database)", appConfig.Port, appConfig.DBDriver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
