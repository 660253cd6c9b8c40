package reconcile

import (
	"sort"
	"strings"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

// IncomingExpense is an expense-like record from manual entry or the CSV
// parser. It is either resolved (CategoryID set) or named (CategoryName set).
type IncomingExpense struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	CategoryID   string  `json:"categoryId,omitempty"`
	CategoryName string  `json:"categoryName,omitempty"`
}

// ImportReport summarizes what an import accepted and what it left out.
// Skipped records are reported here, never as an error.
type ImportReport struct {
	Added             int               `json:"added"`
	SkippedByYear     int               `json:"skippedByYear"`
	SkippedYears      []int             `json:"skippedYears"`
	InvalidDates      int               `json:"invalidDates"`
	Unresolved        int               `json:"unresolved"`
	CreatedCategories []models.Category `json:"createdCategories"`
	Expenses          []models.Expense  `json:"expenses"`
}

// Skipped returns the number of incoming records that were not added.
func (r ImportReport) Skipped() int {
	return r.SkippedByYear + r.InvalidDates + r.Unresolved
}

// ImportExpenses merges incoming records into b. Records dated outside the
// budget year are rejected and counted per year. Named records resolve
// against existing categories case-insensitively; an unknown name creates one
// category with a zero budget, shared by every record carrying that name.
// Records that still have no category are dropped.
func ImportExpenses(b models.Budget, incoming []IncomingExpense, ids uuid.Generator) (models.Budget, ImportReport) {
	out := b.Clone()
	report := ImportReport{
		SkippedYears:      []int{},
		CreatedCategories: []models.Category{},
		Expenses:          []models.Expense{},
	}

	byName := make(map[string]string, len(out.Categories))
	for _, c := range out.Categories {
		key := foldName(c.Name)
		if _, taken := byName[key]; !taken {
			byName[key] = c.ID
		}
	}
	skippedYears := map[int]bool{}

	for _, in := range incoming {
		date := strings.TrimSpace(in.Date)
		t, err := models.ParseDate(date)
		if err != nil {
			report.InvalidDates++
			continue
		}
		if t.Year() != out.Year {
			report.SkippedByYear++
			skippedYears[t.Year()] = true
			continue
		}

		categoryID := ""
		if in.CategoryID != "" && out.HasCategory(in.CategoryID) {
			categoryID = in.CategoryID
		} else if name := strings.TrimSpace(in.CategoryName); name != "" {
			key := foldName(name)
			id, ok := byName[key]
			if !ok {
				created := models.Category{ID: ids.NewID(), Name: name, Budgeted: 0}
				out.Categories = append(out.Categories, created)
				report.CreatedCategories = append(report.CreatedCategories, created)
				byName[key] = created.ID
				id = created.ID
			}
			categoryID = id
		}
		if categoryID == "" {
			report.Unresolved++
			continue
		}

		e := models.Expense{
			ID:         ids.NewID(),
			Name:       strings.TrimSpace(in.Name),
			Amount:     in.Amount,
			Date:       date,
			CategoryID: categoryID,
		}
		out.Expenses = append(out.Expenses, e)
		report.Expenses = append(report.Expenses, e)
		report.Added++
	}

	for y := range skippedYears {
		report.SkippedYears = append(report.SkippedYears, y)
	}
	sort.Ints(report.SkippedYears)
	return out, report
}
