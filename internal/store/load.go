package store

import (
	"encoding/json"
	"fmt"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
)

// legacyState is the primary blob as written by older versions, which kept
// brokerage accounts under investmentAccounts.
type legacyState struct {
	Assets             json.RawMessage `json:"assets"`
	InvestmentAccounts json.RawMessage `json:"investmentAccounts"`
}

// Load reads the persisted state. A primary blob wins; otherwise the
// budgets-only legacy keys are migrated into a new primary blob and removed.
// An unreadable blob leaves the store empty and is reported.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadSettingsLocked(); err != nil {
		s.log.Errorw("Failed to load settings", "key", KeySettings, "error", err)
	}

	raw, found, err := s.blobs.Get(KeyState)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	if found {
		state, err := decodeState(raw)
		if err != nil {
			s.state = emptyState()
			s.log.Errorw("Failed to parse stored state", "key", KeyState, "error", err)
			return fmt.Errorf("parse state: %w", err)
		}
		s.state = reconcile.ResolveActiveBudget(state)
		s.log.Infow("State loaded", "budgets", len(s.state.Budgets), "assets", len(s.state.Assets))
		return nil
	}

	migrated, err := s.migrateLegacyLocked()
	if err != nil {
		s.state = emptyState()
		s.log.Errorw("Failed to migrate legacy budgets", "key", KeyLegacyBudgets, "error", err)
		return fmt.Errorf("migrate legacy state: %w", err)
	}
	if migrated {
		s.log.Infow("Migrated legacy budgets", "budgets", len(s.state.Budgets))
	}
	return nil
}

func decodeState(raw string) (models.AppState, error) {
	var state models.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.AppState{}, err
	}

	var legacy legacyState
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return models.AppState{}, err
	}
	if (len(legacy.Assets) == 0 || string(legacy.Assets) == "null") && len(legacy.InvestmentAccounts) > 0 {
		var assets []models.Asset
		if err := json.Unmarshal(legacy.InvestmentAccounts, &assets); err != nil {
			return models.AppState{}, fmt.Errorf("investmentAccounts: %w", err)
		}
		if assets != nil {
			state.Assets = assets
		}
	}
	return state, nil
}

// migrateLegacyLocked converts the budgets-only blob and its separate
// active-id key. It reports whether anything was migrated.
func (s *Store) migrateLegacyLocked() (bool, error) {
	raw, found, err := s.blobs.Get(KeyLegacyBudgets)
	if err != nil {
		return false, err
	}
	if !found {
		s.state = emptyState()
		return false, nil
	}

	var budgets []models.Budget
	if err := json.Unmarshal([]byte(raw), &budgets); err != nil {
		return false, err
	}
	for i := range budgets {
		if budgets[i].Categories == nil {
			budgets[i].Categories = []models.Category{}
		}
		if budgets[i].Expenses == nil {
			budgets[i].Expenses = []models.Expense{}
		}
	}

	state := emptyState()
	if budgets != nil {
		state.Budgets = budgets
	}
	if activeID, ok, err := s.blobs.Get(KeyLegacyActiveID); err == nil && ok {
		state.ActiveBudgetID = activeID
	}
	s.state = reconcile.ResolveActiveBudget(state)

	s.persistLocked()
	if s.dirty {
		return true, nil
	}
	for _, key := range []string{KeyLegacyBudgets, KeyLegacyActiveID} {
		if err := s.blobs.Remove(key); err != nil {
			s.log.Warnw("Failed to remove legacy key", "key", key, "error", err)
		}
	}
	return true, nil
}

func (s *Store) loadSettingsLocked() error {
	raw, found, err := s.blobs.Get(KeySettings)
	if err != nil || !found {
		return err
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return err
	}
	s.settings = settings
	return nil
}
