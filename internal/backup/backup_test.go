package backup

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/testutil"
)

func sampleState() models.AppState {
	groceries := testutil.NewTestCategory("Groceries", 1200)
	b1 := testutil.NewTestBudget("2024", 2024, groceries)
	b1.Expenses = []models.Expense{testutil.NewTestExpense("Milk", 4.5, "2024-01-05", groceries.ID)}
	b2 := testutil.NewTestBudget("2025", 2025, testutil.NewTestCategory("Rent", 12000))

	state := testutil.NewTestState(b1, b2)
	state.ActiveBudgetID = b2.ID
	state.Assets = []models.Asset{
		testutil.NewTestCashAsset("Savings", 5000),
		testutil.NewTestBrokerageAsset("Brokerage", testutil.NewTestHolding("AAPL", 10, 50, 60)),
		testutil.NewTestBrokerageAsset("Empty IRA"),
	}
	state.Liabilities = []models.Liability{testutil.NewTestLiability("Loan", 1200)}
	state.NetWorthHistory = []models.NetWorthSnapshot{{Date: "2024-06-01", NetWorth: 4400}}
	return state
}

func TestExportImportRoundTrip(t *testing.T) {
	state := sampleState()
	settings := models.Settings{Currency: "USD"}

	data, err := Export(state, settings)
	testutil.AssertNoError(t, err)

	gotState, gotSettings, err := Parse(data)
	testutil.AssertNoError(t, err)

	if !reflect.DeepEqual(gotState, state) {
		t.Errorf("state did not round-trip\nwant %+v\n got %+v", state, gotState)
	}
	if gotSettings != settings {
		t.Errorf("expected settings %+v, got %+v", settings, gotSettings)
	}
}

func TestExportLayout(t *testing.T) {
	data, err := Export(testutil.NewTestState(), models.Settings{})
	testutil.AssertNoError(t, err)

	text := string(data)
	if !strings.Contains(text, "\n  \"budgets\": []") {
		t.Errorf("expected pretty-printed output with empty budgets, got %s", text)
	}
	if !strings.Contains(text, `"activeBudgetId": null`) {
		t.Errorf("expected null active budget, got %s", text)
	}
	order := []string{`"budgets"`, `"activeBudgetId"`, `"assets"`, `"liabilities"`, `"settings"`, `"netWorthHistory"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"not_json":          `{nope`,
		"not_object":        `"hello"`,
		"budgets_missing":   `{"assets":[],"liabilities":[]}`,
		"assets_not_array":  `{"budgets":[],"assets":{},"liabilities":[]}`,
		"liabilities_null":  `{"budgets":[],"assets":[],"liabilities":null}`,
		"budget_incomplete": `{"budgets":[{"id":"b1","name":"x","year":2024}],"assets":[],"liabilities":[]}`,
		"bad_asset_type":    `{"budgets":[],"assets":[{"id":"a","name":"A","type":"Crypto","value":1}],"liabilities":[]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse([]byte(doc))
			testutil.AssertAppError(t, err, "INVALID_IMPORT")
		})
	}
}

func TestParseInvestmentAccountsFallback(t *testing.T) {
	doc := `{"budgets":[],"investmentAccounts":[{"id":"a1","name":"Brokerage","holdings":[]}],"liabilities":[]}`

	state, _, err := Parse([]byte(doc))
	testutil.AssertNoError(t, err)
	if len(state.Assets) != 1 || state.Assets[0].Type != models.AssetTypeBrokerage {
		t.Errorf("expected investment account as asset, got %+v", state.Assets)
	}
	if state.NetWorthHistory == nil {
		t.Error("expected empty history, got nil")
	}
}

func TestParseStaleActiveID(t *testing.T) {
	doc := map[string]any{
		"budgets":        []models.Budget{testutil.NewTestBudget("A", 2024)},
		"activeBudgetId": "gone",
		"assets":         []any{},
		"liabilities":    []any{},
	}
	data, _ := json.Marshal(doc)

	state, _, err := Parse(data)
	testutil.AssertNoError(t, err)
	if state.ActiveBudgetID != state.Budgets[0].ID {
		t.Errorf("expected fallback to first budget, got %q", state.ActiveBudgetID)
	}
}

func TestParseLegacyBudgetArray(t *testing.T) {
	data, _ := json.Marshal([]models.Budget{testutil.NewTestBudget("A", 2024)})

	state, _, err := Parse(data)
	testutil.AssertNoError(t, err)
	if len(state.Budgets) != 1 || state.ActiveBudgetID != state.Budgets[0].ID {
		t.Errorf("unexpected legacy import %+v", state)
	}
}
