package store

import (
	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
)

// SaveBudget creates a budget, or edits editingID when it is set.
func (s *Store) SaveBudget(in reconcile.BudgetInput, editingID string) (models.Budget, error) {
	var saved models.Budget
	_, err := s.mutate(func(state models.AppState) (models.AppState, error) {
		next, b, err := reconcile.CreateOrUpdateBudget(state, in, editingID, s.ids)
		saved = b
		return next, err
	})
	return saved, err
}

// DeleteBudget removes a budget.
func (s *Store) DeleteBudget(id string) (models.AppState, error) {
	return s.mutate(func(state models.AppState) (models.AppState, error) {
		return reconcile.DeleteBudget(state, id)
	})
}

// SetActiveBudget selects the active budget.
func (s *Store) SetActiveBudget(id string) (models.AppState, error) {
	return s.mutate(func(state models.AppState) (models.AppState, error) {
		return reconcile.SetActiveBudget(state, id)
	})
}

// CopyBudget returns an unsaved draft copy of budget id for year. A zero
// year means the current year.
func (s *Store) CopyBudget(id string, year int) (models.Budget, error) {
	state := s.Snapshot()
	b, _, ok := state.Budget(id)
	if !ok {
		return models.Budget{}, apperrors.ErrBudgetNotFound
	}
	if year == 0 {
		year = s.clock().Year()
	}
	return reconcile.CopyBudget(b, year, s.ids), nil
}

// updateActiveBudget runs fn against the active budget.
func (s *Store) updateActiveBudget(fn func(b models.Budget) (models.Budget, error)) (models.Budget, error) {
	var updated models.Budget
	_, err := s.mutate(func(state models.AppState) (models.AppState, error) {
		b, ok := state.ActiveBudget()
		if !ok {
			return state, apperrors.ErrNoActiveBudget
		}
		nb, err := fn(b)
		if err != nil {
			return state, err
		}
		updated = nb
		return reconcile.ReplaceBudget(state, nb)
	})
	return updated, err
}

// AddExpenses imports a batch into the active budget.
func (s *Store) AddExpenses(incoming []reconcile.IncomingExpense) (reconcile.ImportReport, error) {
	var report reconcile.ImportReport
	_, err := s.updateActiveBudget(func(b models.Budget) (models.Budget, error) {
		nb, r := reconcile.ImportExpenses(b, incoming, s.ids)
		report = r
		return nb, nil
	})
	if err != nil {
		return reconcile.ImportReport{}, err
	}
	if report.Skipped() > 0 {
		s.log.Warnw("Import skipped expenses",
			"skipped_by_year", report.SkippedByYear,
			"skipped_years", report.SkippedYears,
			"invalid_dates", report.InvalidDates,
			"unresolved", report.Unresolved,
		)
	}
	return report, nil
}

// UpdateExpense replaces an expense of the active budget.
func (s *Store) UpdateExpense(e models.Expense) (models.Expense, error) {
	b, err := s.updateActiveBudget(func(b models.Budget) (models.Budget, error) {
		if _, ok := b.Expense(e.ID); !ok {
			return b, apperrors.ErrExpenseNotFound
		}
		return reconcile.UpdateExpense(b, e)
	})
	if err != nil {
		return models.Expense{}, err
	}
	updated, _ := b.Expense(e.ID)
	return updated, nil
}

// DeleteExpense removes one expense of the active budget.
func (s *Store) DeleteExpense(id string) error {
	_, err := s.updateActiveBudget(func(b models.Budget) (models.Budget, error) {
		if _, ok := b.Expense(id); !ok {
			return b, apperrors.ErrExpenseNotFound
		}
		return reconcile.DeleteExpense(b, id), nil
	})
	return err
}

// DeleteExpenses removes the given expenses of the active budget and
// returns how many were removed.
func (s *Store) DeleteExpenses(ids []string) (int, error) {
	removed := 0
	_, err := s.updateActiveBudget(func(b models.Budget) (models.Budget, error) {
		nb := reconcile.DeleteExpenses(b, reconcile.NewIDSet(ids...))
		removed = len(b.Expenses) - len(nb.Expenses)
		return nb, nil
	})
	return removed, err
}

// Recategorize moves expenses of the active budget to categoryID.
func (s *Store) Recategorize(ids []string, categoryID string) (models.Budget, error) {
	return s.updateActiveBudget(func(b models.Budget) (models.Budget, error) {
		return reconcile.Recategorize(b, reconcile.NewIDSet(ids...), categoryID)
	})
}

// DeleteExpensesInView clears the active budget's expenses for a view month
// and returns how many were removed.
func (s *Store) DeleteExpensesInView(month int) (int, error) {
	removed := 0
	_, err := s.updateActiveBudget(func(b models.Budget) (models.Budget, error) {
		nb, err := reconcile.DeleteExpensesInView(b, month)
		if err != nil {
			return b, err
		}
		removed = len(b.Expenses) - len(nb.Expenses)
		return nb, nil
	})
	return removed, err
}

// SaveAsset creates an asset, or edits editingID when it is set.
func (s *Store) SaveAsset(in reconcile.AssetInput, editingID string) (models.Asset, error) {
	var saved models.Asset
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		assets, a, err := reconcile.CreateOrUpdateAsset(state.Assets, in, editingID, s.ids)
		state.Assets, saved = assets, a
		return state, err
	})
	return saved, err
}

// DeleteAsset removes an asset.
func (s *Store) DeleteAsset(id string) error {
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		assets, err := reconcile.DeleteAsset(state.Assets, id)
		state.Assets = assets
		return state, err
	})
	return err
}

// AddHolding adds a holding to an account asset.
func (s *Store) AddHolding(assetID string, in reconcile.HoldingInput) (models.Holding, error) {
	var saved models.Holding
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		assets, h, err := reconcile.AddHolding(state.Assets, assetID, in, s.ids)
		state.Assets, saved = assets, h
		return state, err
	})
	return saved, err
}

// UpdateHolding edits a holding wherever it lives.
func (s *Store) UpdateHolding(holdingID string, in reconcile.HoldingInput) (models.Holding, error) {
	var saved models.Holding
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		assets, h, err := reconcile.UpdateHolding(state.Assets, holdingID, in)
		state.Assets, saved = assets, h
		return state, err
	})
	return saved, err
}

// DeleteHolding removes a holding from an account asset.
func (s *Store) DeleteHolding(assetID, holdingID string) error {
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		assets, err := reconcile.DeleteHolding(state.Assets, assetID, holdingID)
		state.Assets = assets
		return state, err
	})
	return err
}

// Tickers returns the distinct tickers currently held.
func (s *Store) Tickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.Tickers(s.state.Assets)
}

// ApplyQuotes merges fetched prices into the holdings present now. Results
// of a refresh that started before later edits still land on the matching
// tickers.
func (s *Store) ApplyQuotes(prices map[string]float64) (int, error) {
	updated := 0
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		state.Assets, updated = reconcile.ApplyQuoteRefresh(state.Assets, prices)
		return state, nil
	})
	return updated, err
}

// SaveLiability creates a liability, or edits editingID when it is set.
func (s *Store) SaveLiability(in reconcile.LiabilityInput, editingID string) (models.Liability, error) {
	var saved models.Liability
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		liabilities, l, err := reconcile.CreateOrUpdateLiability(state.Liabilities, in, editingID, s.ids)
		state.Liabilities, saved = liabilities, l
		return state, err
	})
	return saved, err
}

// DeleteLiability removes a liability.
func (s *Store) DeleteLiability(id string) error {
	_, err := s.mutateWorth(func(state models.AppState) (models.AppState, error) {
		liabilities, err := reconcile.DeleteLiability(state.Liabilities, id)
		state.Liabilities = liabilities
		return state, err
	})
	return err
}

// ReplaceAll overwrites the whole state and settings, as a confirmed import
// does.
func (s *Store) ReplaceAll(state models.AppState, settings models.Settings) (models.AppState, error) {
	out, err := s.mutate(func(models.AppState) (models.AppState, error) {
		return reconcile.ResolveActiveBudget(state.Clone()), nil
	})
	if err != nil {
		return out, err
	}
	if err := s.SaveSettings(settings); err != nil {
		return out, err
	}
	return out, nil
}

// SaveSettings persists settings. Like state writes, a failed write is
// logged and the new settings stay in memory.
func (s *Store) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.persistSettingsLocked()
	return nil
}
