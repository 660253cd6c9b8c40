package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/pagination"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/views"
)

// expenseService handles expenses of the active budget.
type expenseService struct {
	store  *store.Store
	parser ExpenseParser
	log    *zap.SugaredLogger
}

// NewExpenseService creates a new ExpenseServicer. parser may be nil, in
// which case CSV import reports NOT_CONFIGURED.
func NewExpenseService(s *store.Store, parser ExpenseParser) ExpenseServicer {
	return &expenseService{store: s, parser: parser, log: logger.Named("expenses")}
}

func (s *expenseService) activeBudget() (models.Budget, error) {
	state := s.store.Snapshot()
	b, ok := state.ActiveBudget()
	if !ok {
		return models.Budget{}, apperrors.ErrNoActiveBudget
	}
	return b, nil
}

// ListExpenses returns a page of the active budget's expenses in the view
// month, newest first.
func (s *expenseService) ListExpenses(filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if filter.Month < views.AnnualView || filter.Month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 0 and 12")
	}
	b, err := s.activeBudget()
	if err != nil {
		return nil, err
	}
	if filter.CategoryID != "" && !b.HasCategory(filter.CategoryID) {
		return nil, apperrors.ErrCategoryNotFound
	}
	result := pagination.Slice(views.CategoryExpenses(b, filter.CategoryID, filter.Month), page)
	return &result, nil
}

// AddExpenses imports a batch into the active budget.
func (s *expenseService) AddExpenses(incoming []reconcile.IncomingExpense) (*reconcile.ImportReport, error) {
	report, err := s.store.AddExpenses(incoming)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ImportCSV parses csv with the AI parser, preferring the active budget's
// category names, and imports the result.
func (s *expenseService) ImportCSV(ctx context.Context, csv string) (*reconcile.ImportReport, error) {
	if s.parser == nil {
		return nil, apperrors.WithMessage(apperrors.ErrNotConfigured, "CSV import requires a Gemini API key")
	}
	if strings.TrimSpace(csv) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "CSV data is empty")
	}
	b, err := s.activeBudget()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		names = append(names, c.Name)
	}

	parsed, err := s.parser.Parse(ctx, csv, names)
	if err != nil {
		return nil, err
	}
	s.log.Infow("CSV parsed", "rows", len(parsed), "budget_id", b.ID)
	return s.AddExpenses(parsed)
}

// UpdateExpense replaces an expense of the active budget.
func (s *expenseService) UpdateExpense(e models.Expense) (*models.Expense, error) {
	updated, err := s.store.UpdateExpense(e)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteExpense removes one expense.
func (s *expenseService) DeleteExpense(id string) error {
	return s.store.DeleteExpense(id)
}

// DeleteExpenses removes a selection of expenses.
func (s *expenseService) DeleteExpenses(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "No expenses selected")
	}
	return s.store.DeleteExpenses(ids)
}

// Recategorize moves a selection of expenses to another category.
func (s *expenseService) Recategorize(ids []string, categoryID string) (*models.Budget, error) {
	if len(ids) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No expenses selected")
	}
	b, err := s.store.Recategorize(ids, categoryID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteExpensesInView clears the expenses visible in a view month.
func (s *expenseService) DeleteExpensesInView(month int) (int, error) {
	return s.store.DeleteExpensesInView(month)
}
