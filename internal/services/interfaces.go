package services

import (
	"context"

	"github.com/berling9700/budget-tracker/internal/assistant"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/pagination"
	"github.com/berling9700/budget-tracker/internal/quotes"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/views"
)

// BudgetList is the budget selector: every budget plus the active one.
type BudgetList struct {
	Budgets        []models.Budget `json:"budgets"`
	ActiveBudgetID *string         `json:"activeBudgetId"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	ListBudgets() *BudgetList
	CreateBudget(in reconcile.BudgetInput) (*models.Budget, error)
	UpdateBudget(id string, in reconcile.BudgetInput) (*models.Budget, error)
	DeleteBudget(id string) (*BudgetList, error)
	ActivateBudget(id string) (*BudgetList, error)
	CopyDraft(id string, year int) (*models.Budget, error)
	BlankDraft(year int) *models.Budget
	GetSummary(id string, month int) (*views.BudgetSummary, error)
}

// ExpenseFilter selects the expenses shown in a list.
type ExpenseFilter struct {
	Month      int
	CategoryID string
}

// ExpenseServicer defines the contract for expense operations on the active
// budget.
type ExpenseServicer interface {
	ListExpenses(filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	AddExpenses(incoming []reconcile.IncomingExpense) (*reconcile.ImportReport, error)
	ImportCSV(ctx context.Context, csv string) (*reconcile.ImportReport, error)
	UpdateExpense(e models.Expense) (*models.Expense, error)
	DeleteExpense(id string) error
	DeleteExpenses(ids []string) (int, error)
	Recategorize(ids []string, categoryID string) (*models.Budget, error)
	DeleteExpensesInView(month int) (int, error)
}

// AssetServicer defines the contract for asset and holding operations.
type AssetServicer interface {
	ListAssets() []views.AssetView
	SaveAsset(in reconcile.AssetInput, editingID string) (*views.AssetView, error)
	DeleteAsset(id string) error
	AddHolding(assetID string, in reconcile.HoldingInput) (*views.HoldingView, error)
	UpdateHolding(holdingID string, in reconcile.HoldingInput) (*views.HoldingView, error)
	DeleteHolding(assetID, holdingID string) error
	RefreshPrices(ctx context.Context) (*quotes.RunResult, error)
	LookupQuote(ctx context.Context, ticker string) (*quotes.Quote, error)
}

// LiabilityServicer defines the contract for liability operations.
type LiabilityServicer interface {
	ListLiabilities() []models.Liability
	SaveLiability(in reconcile.LiabilityInput, editingID string) (*models.Liability, error)
	DeleteLiability(id string) error
}

// NetWorthServicer exposes the derived net-worth views.
type NetWorthServicer interface {
	Summary() *views.NetWorthSummary
	Allocation() []views.Slice
}

// StateResponse is the full snapshot returned to clients.
type StateResponse struct {
	State    models.AppState `json:"state"`
	Settings models.Settings `json:"settings"`
	Dirty    bool            `json:"dirty"`
}

// DataServicer defines the contract for whole-state operations.
type DataServicer interface {
	State() *StateResponse
	Settings() models.Settings
	UpdateSettings(settings models.Settings) (models.Settings, error)
	Export() ([]byte, error)
	Import(data []byte) (*models.AppState, error)
}

// AdvisorServicer answers finance questions about the current state.
type AdvisorServicer interface {
	Advise(ctx context.Context, query string, page assistant.Page, history []assistant.ChatMessage) (string, error)
}

// ExpenseParser turns CSV text into importable expenses.
type ExpenseParser interface {
	Parse(ctx context.Context, csv string, categoryNames []string) ([]reconcile.IncomingExpense, error)
}

// Advisor produces advice for a request.
type Advisor interface {
	Advice(ctx context.Context, req assistant.AdviceRequest) (string, error)
}

// ProviderFactory builds a quote provider for an API key.
type ProviderFactory func(apiKey string) quotes.Provider
