package models

import "encoding/json"

// Liability is something the user owes.
type Liability struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// NetWorthSnapshot is one dated net-worth data point. Date is YYYY-MM-DD.
type NetWorthSnapshot struct {
	Date     string  `json:"date"`
	NetWorth float64 `json:"netWorth"`
}

// DateLayout is the calendar date format used by snapshots.
const DateLayout = "2006-01-02"

// AppState is the root of everything persisted in the primary blob.
// ActiveBudgetID is empty when no budget is active.
type AppState struct {
	Budgets         []Budget
	ActiveBudgetID  string
	Assets          []Asset
	Liabilities     []Liability
	NetWorthHistory []NetWorthSnapshot
}

// Settings are persisted separately from the app state.
type Settings struct {
	Currency           string `json:"currency,omitempty"`
	AlphaVantageAPIKey string `json:"alphaVantageApiKey,omitempty"`
}

type appStateJSON struct {
	Budgets         []Budget           `json:"budgets"`
	ActiveBudgetID  *string            `json:"activeBudgetId"`
	Assets          []Asset            `json:"assets"`
	Liabilities     []Liability        `json:"liabilities"`
	NetWorthHistory []NetWorthSnapshot `json:"netWorthHistory"`
}

// MarshalJSON implements json.Marshaler. Collections are never null and an
// unset active budget is written as null.
func (s AppState) MarshalJSON() ([]byte, error) {
	out := appStateJSON{
		Budgets:         nonNil(s.Budgets),
		Assets:          nonNil(s.Assets),
		Liabilities:     nonNil(s.Liabilities),
		NetWorthHistory: nonNil(s.NetWorthHistory),
	}
	if s.ActiveBudgetID != "" {
		id := s.ActiveBudgetID
		out.ActiveBudgetID = &id
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *AppState) UnmarshalJSON(data []byte) error {
	var in appStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Budgets = nonNil(in.Budgets)
	s.Assets = nonNil(in.Assets)
	s.Liabilities = nonNil(in.Liabilities)
	s.NetWorthHistory = nonNil(in.NetWorthHistory)
	s.ActiveBudgetID = ""
	if in.ActiveBudgetID != nil {
		s.ActiveBudgetID = *in.ActiveBudgetID
	}
	return nil
}

// Budget returns the budget with the given id.
func (s *AppState) Budget(id string) (Budget, int, bool) {
	for i, b := range s.Budgets {
		if b.ID == id {
			return b, i, true
		}
	}
	return Budget{}, -1, false
}

// ActiveBudget returns the currently active budget, if any.
func (s *AppState) ActiveBudget() (Budget, bool) {
	if s.ActiveBudgetID == "" {
		return Budget{}, false
	}
	b, _, ok := s.Budget(s.ActiveBudgetID)
	return b, ok
}

// Clone returns a deep copy, so a snapshot handed to readers is never
// affected by later mutations.
func (s AppState) Clone() AppState {
	out := AppState{
		ActiveBudgetID:  s.ActiveBudgetID,
		Budgets:         make([]Budget, len(s.Budgets)),
		Assets:          make([]Asset, len(s.Assets)),
		Liabilities:     append([]Liability{}, s.Liabilities...),
		NetWorthHistory: append([]NetWorthSnapshot{}, s.NetWorthHistory...),
	}
	for i, b := range s.Budgets {
		out.Budgets[i] = b.Clone()
	}
	for i, a := range s.Assets {
		out.Assets[i] = a.Clone()
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
