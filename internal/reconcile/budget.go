// Package reconcile holds the pure state transitions of the tracker. Every
// function takes the current value plus a user action and returns a new,
// consistent value; inputs are never mutated, so a caller can keep handing
// out the old value as an immutable snapshot.
package reconcile

import (
	"fmt"
	"strings"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

// BudgetInput carries the editable fields of a budget.
type BudgetInput struct {
	Name       string
	Year       int
	Categories []models.Category
}

// CreateOrUpdateBudget applies a budget form submission. With an editingID the
// named budget keeps its identity and expenses and takes the new name, year
// and categories; otherwise a new budget with no expenses is appended. Either
// way the saved budget becomes the active one.
func CreateOrUpdateBudget(state models.AppState, in BudgetInput, editingID string, ids uuid.Generator) (models.AppState, models.Budget, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return state, models.Budget{}, apperrors.ErrEmptyBudgetName
	}
	if in.Year < 1000 || in.Year > 9999 {
		return state, models.Budget{}, apperrors.ErrInvalidYear
	}

	categories, err := normalizeCategories(in.Categories, ids)
	if err != nil {
		return state, models.Budget{}, err
	}

	next := state
	if editingID == "" {
		budget := models.Budget{
			ID:         ids.NewID(),
			Name:       name,
			Year:       in.Year,
			Categories: categories,
			Expenses:   []models.Expense{},
		}
		next.Budgets = append(append([]models.Budget{}, state.Budgets...), budget)
		next.ActiveBudgetID = budget.ID
		return next, budget, nil
	}

	existing, idx, ok := state.Budget(editingID)
	if !ok {
		return state, models.Budget{}, apperrors.ErrBudgetNotFound
	}

	updated := existing.Clone()
	updated.Name = name
	updated.Year = in.Year
	updated.Categories = categories
	for _, e := range updated.Expenses {
		if !updated.HasCategory(e.CategoryID) {
			c, _ := existing.Category(e.CategoryID)
			return state, models.Budget{}, apperrors.WithMessage(apperrors.ErrCategoryInUse,
				fmt.Sprintf("Category %q still has expenses and cannot be removed", c.Name))
		}
	}

	next.Budgets = append([]models.Budget{}, state.Budgets...)
	next.Budgets[idx] = updated
	next.ActiveBudgetID = updated.ID
	return next, updated, nil
}

// normalizeCategories drops unnamed rows, trims names, assigns ids where
// missing or repeated, and rejects case-insensitive duplicate names.
func normalizeCategories(in []models.Category, ids uuid.Generator) ([]models.Category, error) {
	out := make([]models.Category, 0, len(in))
	seenIDs := make(map[string]bool, len(in))
	seenNames := make(map[string]bool, len(in))

	for _, c := range in {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		key := foldName(c.Name)
		if seenNames[key] {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateCategory,
				fmt.Sprintf("Category %q appears more than once", c.Name))
		}
		seenNames[key] = true

		if c.ID == "" || seenIDs[c.ID] {
			c.ID = ids.NewID()
		}
		seenIDs[c.ID] = true
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, apperrors.ErrNoCategories
	}
	return out, nil
}

// CopyBudget produces an unsaved draft from source: new id, the given year,
// cloned categories under fresh ids, and no expenses.
func CopyBudget(source models.Budget, year int, ids uuid.Generator) models.Budget {
	categories := make([]models.Category, len(source.Categories))
	for i, c := range source.Categories {
		c.ID = ids.NewID()
		categories[i] = c
	}
	return models.Budget{
		ID:         ids.NewID(),
		Name:       "Copy of " + source.Name,
		Year:       year,
		Categories: categories,
		Expenses:   []models.Expense{},
	}
}

// BlankBudget produces the default draft offered when starting from scratch.
func BlankBudget(year int, ids uuid.Generator) models.Budget {
	return models.Budget{
		ID:         ids.NewID(),
		Name:       fmt.Sprintf("%d Budget", year),
		Year:       year,
		Categories: []models.Category{{ID: ids.NewID(), Name: "", Budgeted: 0}},
		Expenses:   []models.Expense{},
	}
}

// DeleteBudget removes a budget. Deleting the active budget activates the
// first remaining budget, or none.
func DeleteBudget(state models.AppState, id string) (models.AppState, error) {
	_, idx, ok := state.Budget(id)
	if !ok {
		return state, apperrors.ErrBudgetNotFound
	}

	next := state
	next.Budgets = make([]models.Budget, 0, len(state.Budgets)-1)
	next.Budgets = append(next.Budgets, state.Budgets[:idx]...)
	next.Budgets = append(next.Budgets, state.Budgets[idx+1:]...)

	if state.ActiveBudgetID == id {
		next.ActiveBudgetID = ""
		if len(next.Budgets) > 0 {
			next.ActiveBudgetID = next.Budgets[0].ID
		}
	}
	return next, nil
}

// SetActiveBudget points the active-budget pointer at id.
func SetActiveBudget(state models.AppState, id string) (models.AppState, error) {
	if _, _, ok := state.Budget(id); !ok {
		return state, apperrors.ErrBudgetNotFound
	}
	next := state
	next.ActiveBudgetID = id
	return next, nil
}

// ResolveActiveBudget keeps a stored active id only if it names a budget,
// falling back to the first budget or none.
func ResolveActiveBudget(state models.AppState) models.AppState {
	if _, _, ok := state.Budget(state.ActiveBudgetID); ok {
		return state
	}
	next := state
	next.ActiveBudgetID = ""
	if len(state.Budgets) > 0 {
		next.ActiveBudgetID = state.Budgets[0].ID
	}
	return next
}

// ReplaceBudget swaps in an updated copy of a budget, matched by id.
func ReplaceBudget(state models.AppState, b models.Budget) (models.AppState, error) {
	_, idx, ok := state.Budget(b.ID)
	if !ok {
		return state, apperrors.ErrBudgetNotFound
	}
	next := state
	next.Budgets = append([]models.Budget{}, state.Budgets...)
	next.Budgets[idx] = b
	return next, nil
}
