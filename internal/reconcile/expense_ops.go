package reconcile

import (
	"strings"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
)

// IDSet is a set of entity ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from a list of ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// UpdateExpense replaces the expense with the same id. An absent id leaves
// the budget unchanged. The replacement must be a valid expense that points
// at a category of b.
func UpdateExpense(b models.Budget, e models.Expense) (models.Budget, error) {
	if _, ok := b.Expense(e.ID); !ok {
		return b, nil
	}
	if err := validateExpense(b, e); err != nil {
		return b, err
	}

	out := b.Clone()
	e.Name = strings.TrimSpace(e.Name)
	e.Date = strings.TrimSpace(e.Date)
	for i := range out.Expenses {
		if out.Expenses[i].ID == e.ID {
			out.Expenses[i] = e
			break
		}
	}
	return out, nil
}

func validateExpense(b models.Budget, e models.Expense) error {
	if strings.TrimSpace(e.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Expense name is required")
	}
	if e.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if _, err := models.ParseDate(strings.TrimSpace(e.Date)); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidDate, err)
	}
	if !b.HasCategory(e.CategoryID) {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// DeleteExpense removes one expense by id.
func DeleteExpense(b models.Budget, id string) models.Budget {
	return DeleteExpenses(b, NewIDSet(id))
}

// DeleteExpenses removes every expense whose id is in ids.
func DeleteExpenses(b models.Budget, ids IDSet) models.Budget {
	return filterExpenses(b, func(e models.Expense) bool { return !ids.Has(e.ID) })
}

// Recategorize moves the matching expenses to categoryID, which must exist
// in b.
func Recategorize(b models.Budget, ids IDSet, categoryID string) (models.Budget, error) {
	if !b.HasCategory(categoryID) {
		return b, apperrors.ErrCategoryNotFound
	}
	out := b.Clone()
	for i := range out.Expenses {
		if ids.Has(out.Expenses[i].ID) {
			out.Expenses[i].CategoryID = categoryID
		}
	}
	return out, nil
}

// DeleteExpensesInView clears the expenses visible in a view. Month 0 is the
// annual view and clears everything; months 1-12 remove the expenses dated in
// that month of the budget's own year.
func DeleteExpensesInView(b models.Budget, month int) (models.Budget, error) {
	if month < 0 || month > 12 {
		return b, apperrors.WithMessage(apperrors.ErrInvalidInput, "Month must be between 0 and 12")
	}
	if month == 0 {
		out := b.Clone()
		out.Expenses = []models.Expense{}
		return out, nil
	}
	return filterExpenses(b, func(e models.Expense) bool {
		t, err := e.Time()
		if err != nil {
			return true
		}
		return !(int(t.Month()) == month && t.Year() == b.Year)
	}), nil
}

func filterExpenses(b models.Budget, keep func(models.Expense) bool) models.Budget {
	out := b.Clone()
	out.Expenses = make([]models.Expense, 0, len(b.Expenses))
	for _, e := range b.Expenses {
		if keep(e) {
			out.Expenses = append(out.Expenses, e)
		}
	}
	return out
}
