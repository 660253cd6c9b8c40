package services

import (
	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/views"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	store *store.Store
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(s *store.Store) BudgetServicer {
	return &budgetService{store: s}
}

func newBudgetList(state models.AppState) *BudgetList {
	list := &BudgetList{Budgets: state.Budgets}
	if state.ActiveBudgetID != "" {
		id := state.ActiveBudgetID
		list.ActiveBudgetID = &id
	}
	return list
}

// ListBudgets returns every budget and the active selection.
func (s *budgetService) ListBudgets() *BudgetList {
	return newBudgetList(s.store.Snapshot())
}

// CreateBudget saves a new budget and makes it active.
func (s *budgetService) CreateBudget(in reconcile.BudgetInput) (*models.Budget, error) {
	b, err := s.store.SaveBudget(in, "")
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBudget edits an existing budget, keeping its expenses.
func (s *budgetService) UpdateBudget(id string, in reconcile.BudgetInput) (*models.Budget, error) {
	if id == "" {
		return nil, apperrors.ErrBudgetNotFound
	}
	b, err := s.store.SaveBudget(in, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBudget removes a budget and returns the resulting selection.
func (s *budgetService) DeleteBudget(id string) (*BudgetList, error) {
	state, err := s.store.DeleteBudget(id)
	if err != nil {
		return nil, err
	}
	return newBudgetList(state), nil
}

// ActivateBudget selects the active budget.
func (s *budgetService) ActivateBudget(id string) (*BudgetList, error) {
	state, err := s.store.SetActiveBudget(id)
	if err != nil {
		return nil, err
	}
	return newBudgetList(state), nil
}

// CopyDraft returns an unsaved copy of a budget. Nothing is stored until
// the draft is submitted through CreateBudget.
func (s *budgetService) CopyDraft(id string, year int) (*models.Budget, error) {
	b, err := s.store.CopyBudget(id, year)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BlankDraft returns an unsaved empty budget for year, or the current year
// when year is zero.
func (s *budgetService) BlankDraft(year int) *models.Budget {
	if year == 0 {
		year = s.store.Today().Year()
	}
	b := reconcile.BlankBudget(year, s.store.IDs())
	return &b
}

// GetSummary projects a budget onto a view month.
func (s *budgetService) GetSummary(id string, month int) (*views.BudgetSummary, error) {
	if month < views.AnnualView || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 0 and 12")
	}
	state := s.store.Snapshot()
	b, _, ok := state.Budget(id)
	if !ok {
		return nil, apperrors.ErrBudgetNotFound
	}
	summary := views.SummarizeBudget(b, month)
	return &summary, nil
}
