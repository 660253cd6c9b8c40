// Package views derives read-only projections from the application state:
// monthly budget proportioning, per-category spend, portfolio allocation and
// net-worth totals. Nothing here is cached; every call recomputes from its
// inputs.
package views

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/berling9700/budget-tracker/internal/models"
)

// AnnualView is the view month that aggregates the whole year.
const AnnualView = 0

// InMonth reports whether e falls in view month m. The annual view includes
// everything.
func InMonth(e models.Expense, month int) bool {
	if month == AnnualView {
		return true
	}
	t, err := e.Time()
	if err != nil {
		return false
	}
	return int(t.Month()) == month
}

// FilterExpenses returns the expenses visible in the view month.
func FilterExpenses(expenses []models.Expense, month int) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if InMonth(e, month) {
			out = append(out, e)
		}
	}
	return out
}

// Divisor is what annual budgeted amounts are divided by for display.
func Divisor(month int) int64 {
	if month == AnnualView {
		return 1
	}
	return 12
}

// CategorySummary is one category row of a budget view.
type CategorySummary struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Budgeted          float64 `json:"budgeted"`
	DisplayedBudgeted float64 `json:"displayedBudgeted"`
	Spent             float64 `json:"spent"`
	Remaining         float64 `json:"remaining"`
	ExpenseCount      int     `json:"expenseCount"`
}

// BudgetSummary is the budget view for one month (or the whole year).
type BudgetSummary struct {
	BudgetID      string            `json:"budgetId"`
	Name          string            `json:"name"`
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	Categories    []CategorySummary `json:"categories"`
	TotalBudgeted float64           `json:"totalBudgeted"`
	TotalSpent    float64           `json:"totalSpent"`
	Remaining     float64           `json:"remaining"`
}

// SummarizeBudget projects b onto a view month. Budgeted amounts are always
// annual in storage and divided by 12 here when a month is selected.
func SummarizeBudget(b models.Budget, month int) BudgetSummary {
	divisor := decimal.NewFromInt(Divisor(month))

	spent := map[string]decimal.Decimal{}
	counts := map[string]int{}
	for _, e := range FilterExpenses(b.Expenses, month) {
		spent[e.CategoryID] = spent[e.CategoryID].Add(decimal.NewFromFloat(e.Amount))
		counts[e.CategoryID]++
	}

	summary := BudgetSummary{
		BudgetID:   b.ID,
		Name:       b.Name,
		Year:       b.Year,
		Month:      month,
		Categories: make([]CategorySummary, 0, len(b.Categories)),
	}
	totalBudgeted, totalSpent := decimal.Zero, decimal.Zero
	for _, c := range b.Categories {
		displayed := decimal.NewFromFloat(c.Budgeted).Div(divisor)
		s := spent[c.ID]
		summary.Categories = append(summary.Categories, CategorySummary{
			ID:                c.ID,
			Name:              c.Name,
			Budgeted:          c.Budgeted,
			DisplayedBudgeted: displayed.InexactFloat64(),
			Spent:             s.InexactFloat64(),
			Remaining:         displayed.Sub(s).InexactFloat64(),
			ExpenseCount:      counts[c.ID],
		})
		totalBudgeted = totalBudgeted.Add(displayed)
		totalSpent = totalSpent.Add(s)
	}
	summary.TotalBudgeted = totalBudgeted.InexactFloat64()
	summary.TotalSpent = totalSpent.InexactFloat64()
	summary.Remaining = totalBudgeted.Sub(totalSpent).InexactFloat64()
	return summary
}

// CategoryExpenses returns the expenses of one category within the view
// month, newest first.
func CategoryExpenses(b models.Budget, categoryID string, month int) []models.Expense {
	out := []models.Expense{}
	for _, e := range FilterExpenses(b.Expenses, month) {
		if categoryID == "" || e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].Time()
		tj, _ := out[j].Time()
		return ti.After(tj)
	})
	return out
}
