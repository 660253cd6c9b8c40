package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/berling9700/budget-tracker/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func fixtureID(prefix string) string {
	return fmt.Sprintf("%s-fixture-%d", prefix, nextID())
}

// NewTestCategory builds a category with a unique id.
func NewTestCategory(name string, budgeted float64) models.Category {
	return models.Category{ID: fixtureID("cat"), Name: name, Budgeted: budgeted}
}

// NewTestBudget builds a budget for year with the given categories and no
// expenses.
func NewTestBudget(name string, year int, categories ...models.Category) models.Budget {
	if categories == nil {
		categories = []models.Category{}
	}
	return models.Budget{
		ID:         fixtureID("budget"),
		Name:       name,
		Year:       year,
		Categories: categories,
		Expenses:   []models.Expense{},
	}
}

// NewTestExpense builds an expense against categoryID.
func NewTestExpense(name string, amount float64, date, categoryID string) models.Expense {
	return models.Expense{
		ID:         fixtureID("exp"),
		Name:       name,
		Amount:     amount,
		Date:       date,
		CategoryID: categoryID,
	}
}

// NewTestCashAsset builds a Cash & Savings asset worth value.
func NewTestCashAsset(name string, value float64) models.Asset {
	return models.NewAsset(fixtureID("asset"), name, models.AssetTypeCashSavings, value, nil)
}

// NewTestBrokerageAsset builds a Brokerage asset holding the given positions.
func NewTestBrokerageAsset(name string, holdings ...models.Holding) models.Asset {
	return models.NewAsset(fixtureID("asset"), name, models.AssetTypeBrokerage, 0, holdings)
}

// NewTestHolding builds a holding of shares at the given prices.
func NewTestHolding(ticker string, shares, purchasePrice, currentPrice float64) models.Holding {
	return models.Holding{
		ID:            fixtureID("holding"),
		Ticker:        ticker,
		Name:          ticker + " Inc.",
		Shares:        shares,
		PurchasePrice: purchasePrice,
		CurrentPrice:  currentPrice,
	}
}

// NewTestLiability builds a liability of amount.
func NewTestLiability(name string, amount float64) models.Liability {
	return models.Liability{ID: fixtureID("liab"), Name: name, Amount: amount}
}

// NewTestState builds an AppState with the given budgets, the first of which
// is active.
func NewTestState(budgets ...models.Budget) models.AppState {
	state := models.AppState{
		Budgets:         append([]models.Budget{}, budgets...),
		Assets:          []models.Asset{},
		Liabilities:     []models.Liability{},
		NetWorthHistory: []models.NetWorthSnapshot{},
	}
	if len(budgets) > 0 {
		state.ActiveBudgetID = budgets[0].ID
	}
	return state
}
