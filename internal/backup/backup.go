// Package backup turns the application state into a downloadable JSON file
// and validates such files before they replace the current state.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
)

// FileName is the suggested download name of an export.
const FileName = "finance-tracker-data.json"

// file is the export layout. Field order is the order written.
type file struct {
	Budgets         []models.Budget           `json:"budgets"`
	ActiveBudgetID  *string                   `json:"activeBudgetId"`
	Assets          []models.Asset            `json:"assets"`
	Liabilities     []models.Liability        `json:"liabilities"`
	Settings        models.Settings           `json:"settings"`
	NetWorthHistory []models.NetWorthSnapshot `json:"netWorthHistory"`
}

// Export renders state and settings as pretty-printed JSON.
func Export(state models.AppState, settings models.Settings) ([]byte, error) {
	f := file{
		Budgets:         orEmpty(state.Budgets),
		Assets:          orEmpty(state.Assets),
		Liabilities:     orEmpty(state.Liabilities),
		Settings:        settings,
		NetWorthHistory: orEmpty(state.NetWorthHistory),
	}
	if state.ActiveBudgetID != "" {
		id := state.ActiveBudgetID
		f.ActiveBudgetID = &id
	}
	return json.MarshalIndent(f, "", "  ")
}

// Parse validates an export and returns the state and settings it holds.
// A document that fails validation is rejected whole. A bare array of
// budgets, as written by the budgets-only version, is accepted too.
func Parse(data []byte) (models.AppState, models.Settings, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		budgets, err := parseBudgets(trimmed)
		if err != nil {
			return models.AppState{}, models.Settings{}, err
		}
		state := models.AppState{
			Budgets:         budgets,
			Assets:          []models.Asset{},
			Liabilities:     []models.Liability{},
			NetWorthHistory: []models.NetWorthSnapshot{},
		}
		return reconcile.ResolveActiveBudget(state), models.Settings{}, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil || doc == nil {
		return invalid("file is not a JSON object")
	}

	assetsKey := "assets"
	if !isArray(doc["assets"]) && isArray(doc["investmentAccounts"]) {
		assetsKey = "investmentAccounts"
	}
	for _, key := range []string{"budgets", assetsKey, "liabilities"} {
		if !isArray(doc[key]) {
			return invalid(fmt.Sprintf("%q must be an array", key))
		}
	}

	budgets, err := parseBudgets(doc["budgets"])
	if err != nil {
		return models.AppState{}, models.Settings{}, err
	}

	state := models.AppState{Budgets: budgets}
	if err := json.Unmarshal(doc[assetsKey], &state.Assets); err != nil {
		return invalid(fmt.Sprintf("%q: %v", assetsKey, err))
	}
	for _, a := range state.Assets {
		if a.ID == "" || a.Name == "" {
			return invalid("every asset needs an id and a name")
		}
		if !a.Type.Valid() {
			return invalid(fmt.Sprintf("asset %q has unsupported type %q", a.Name, a.Type))
		}
	}
	if err := json.Unmarshal(doc["liabilities"], &state.Liabilities); err != nil {
		return invalid(fmt.Sprintf("liabilities: %v", err))
	}
	if raw, ok := doc["netWorthHistory"]; ok && isArray(raw) {
		if err := json.Unmarshal(raw, &state.NetWorthHistory); err != nil {
			return invalid(fmt.Sprintf("netWorthHistory: %v", err))
		}
	}
	if raw, ok := doc["activeBudgetId"]; ok {
		var id *string
		if err := json.Unmarshal(raw, &id); err == nil && id != nil {
			state.ActiveBudgetID = *id
		}
	}

	var settings models.Settings
	if raw, ok := doc["settings"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return invalid(fmt.Sprintf("settings: %v", err))
		}
	}

	state.Assets = orEmpty(state.Assets)
	state.Liabilities = orEmpty(state.Liabilities)
	state.NetWorthHistory = orEmpty(state.NetWorthHistory)
	return reconcile.ResolveActiveBudget(state), settings, nil
}

// budgetShape mirrors Budget with pointers so missing fields are detectable.
type budgetShape struct {
	ID         *string            `json:"id"`
	Name       *string            `json:"name"`
	Year       *int               `json:"year"`
	Categories *[]models.Category `json:"categories"`
	Expenses   *[]models.Expense  `json:"expenses"`
}

func parseBudgets(raw json.RawMessage) ([]models.Budget, error) {
	var shapes []budgetShape
	if err := json.Unmarshal(raw, &shapes); err != nil {
		return nil, invalidImport(fmt.Sprintf("budgets: %v", err))
	}

	budgets := make([]models.Budget, 0, len(shapes))
	for i, s := range shapes {
		if s.ID == nil || *s.ID == "" || s.Name == nil || *s.Name == "" || s.Year == nil || s.Categories == nil || s.Expenses == nil {
			return nil, invalidImport(fmt.Sprintf("budget %d is missing id, name, year, categories or expenses", i+1))
		}
		budgets = append(budgets, models.Budget{
			ID:         *s.ID,
			Name:       *s.Name,
			Year:       *s.Year,
			Categories: orEmpty(*s.Categories),
			Expenses:   orEmpty(*s.Expenses),
		})
	}
	return budgets, nil
}

func invalid(reason string) (models.AppState, models.Settings, error) {
	return models.AppState{}, models.Settings{}, invalidImport(reason)
}

func invalidImport(reason string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidImport,
		"Import file is not a valid budget tracker export: "+reason)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
