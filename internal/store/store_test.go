package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/berling9700/budget-tracker/internal/blobstore"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/testutil"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

func init() {
	logger.Init("test")
}

var fixedDay = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, blobs blobstore.Store) *Store {
	t.Helper()
	s := New(blobs, WithClock(func() time.Time { return fixedDay }), WithIDGenerator(uuid.NewSequence("id")))
	testutil.AssertNoError(t, s.Load())
	return s
}

func storedState(t *testing.T, blobs blobstore.Store) models.AppState {
	t.Helper()
	raw, found, err := blobs.Get(KeyState)
	testutil.AssertNoError(t, err)
	if !found {
		t.Fatal("expected state blob to be written")
	}
	var state models.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		t.Fatalf("failed to decode stored state: %v", err)
	}
	return state
}

func TestLoadEmpty(t *testing.T) {
	s := newTestStore(t, testutil.SetupTestBlobStore(t))

	state := s.Snapshot()
	if len(state.Budgets) != 0 || state.ActiveBudgetID != "" {
		t.Errorf("expected empty state, got %+v", state)
	}
	if state.Assets == nil || state.Liabilities == nil || state.NetWorthHistory == nil {
		t.Error("expected non-nil collections")
	}
}

func TestLoadLegacyMigration(t *testing.T) {
	blobs := testutil.SetupTestBlobStore(t)
	a := testutil.NewTestBudget("A", 2023)
	b := testutil.NewTestBudget("B", 2024)
	testutil.SeedBlob(t, blobs, KeyLegacyBudgets, []models.Budget{a, b})
	testutil.AssertNoError(t, blobs.Set(KeyLegacyActiveID, b.ID))

	s := newTestStore(t, blobs)

	state := s.Snapshot()
	if len(state.Budgets) != 2 || state.ActiveBudgetID != b.ID {
		t.Errorf("expected migrated budgets with B active, got %+v", state)
	}
	if _, found, _ := blobs.Get(KeyLegacyBudgets); found {
		t.Error("legacy budgets key should be removed")
	}
	if _, found, _ := blobs.Get(KeyLegacyActiveID); found {
		t.Error("legacy active id key should be removed")
	}
	if got := storedState(t, blobs); len(got.Budgets) != 2 {
		t.Errorf("expected migrated state persisted, got %d budgets", len(got.Budgets))
	}
}

func TestLoadLegacyStaleActiveID(t *testing.T) {
	blobs := blobstore.NewMemory()
	a := testutil.NewTestBudget("A", 2023)
	testutil.SeedBlob(t, blobs, KeyLegacyBudgets, []models.Budget{a})
	testutil.AssertNoError(t, blobs.Set(KeyLegacyActiveID, "gone"))

	s := newTestStore(t, blobs)
	if got := s.Snapshot().ActiveBudgetID; got != a.ID {
		t.Errorf("expected fallback to first budget, got %q", got)
	}
}

func TestLoadInvestmentAccountsFallback(t *testing.T) {
	blobs := blobstore.NewMemory()
	raw := `{"budgets":[],"activeBudgetId":null,"investmentAccounts":[{"id":"a1","name":"Brokerage","holdings":[{"id":"h1","ticker":"AAPL","name":"Apple","shares":2,"purchasePrice":1,"currentPrice":3}]}],"liabilities":[]}`
	testutil.AssertNoError(t, blobs.Set(KeyState, raw))

	s := newTestStore(t, blobs)
	assets := s.Snapshot().Assets
	if len(assets) != 1 || assets[0].Type != models.AssetTypeBrokerage || assets[0].Value() != 6 {
		t.Errorf("expected investment account loaded as brokerage asset, got %+v", assets)
	}
}

func TestLoadCorruptState(t *testing.T) {
	blobs := blobstore.NewMemory()
	testutil.AssertNoError(t, blobs.Set(KeyState, "{not json"))

	s := New(blobs)
	if err := s.Load(); err == nil {
		t.Fatal("expected parse error")
	}
	if len(s.Snapshot().Budgets) != 0 {
		t.Error("expected empty state after a failed load")
	}
}

func TestSaveBudgetPersists(t *testing.T) {
	blobs := testutil.SetupTestBlobStore(t)
	s := newTestStore(t, blobs)

	b, err := s.SaveBudget(reconcile.BudgetInput{
		Name: "2024", Year: 2024, Categories: []models.Category{{Name: "Groceries", Budgeted: 1200}},
	}, "")
	testutil.AssertNoError(t, err)

	stored := storedState(t, blobs)
	if len(stored.Budgets) != 1 || stored.ActiveBudgetID != b.ID {
		t.Errorf("expected budget persisted and active, got %+v", stored)
	}

	reloaded := newTestStore(t, blobs)
	if got := reloaded.Snapshot(); got.ActiveBudgetID != b.ID {
		t.Errorf("expected active id %q after reload, got %q", b.ID, got.ActiveBudgetID)
	}
}

func TestAddExpensesScenario(t *testing.T) {
	s := newTestStore(t, blobstore.NewMemory())
	_, err := s.SaveBudget(reconcile.BudgetInput{
		Name: "2024", Year: 2024, Categories: []models.Category{{Name: "Groceries", Budgeted: 1200}},
	}, "")
	testutil.AssertNoError(t, err)

	report, err := s.AddExpenses([]reconcile.IncomingExpense{
		{Name: "Milk", Amount: 4.50, Date: "2024-01-05", CategoryName: "Groceries"},
		{Name: "Old", Amount: 1, Date: "2023-01-05", CategoryName: "Groceries"},
	})
	testutil.AssertNoError(t, err)
	if report.Added != 1 || report.SkippedByYear != 1 {
		t.Errorf("unexpected report %+v", report)
	}

	snap := s.Snapshot()
	active, _ := snap.ActiveBudget()
	if len(active.Categories) != 1 || len(active.Expenses) != 1 {
		t.Fatalf("unexpected budget %+v", active)
	}
	if active.Expenses[0].CategoryID != active.Categories[0].ID {
		t.Error("expected expense resolved to Groceries")
	}
}

func TestExpenseActionsNeedActiveBudget(t *testing.T) {
	s := newTestStore(t, blobstore.NewMemory())

	_, err := s.AddExpenses([]reconcile.IncomingExpense{{Name: "x", Amount: 1, Date: "2024-01-01", CategoryName: "A"}})
	testutil.AssertAppError(t, err, "NO_ACTIVE_BUDGET")

	_, err = s.DeleteExpensesInView(0)
	testutil.AssertAppError(t, err, "NO_ACTIVE_BUDGET")
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	s := newTestStore(t, blobstore.NewMemory())
	_, err := s.SaveBudget(reconcile.BudgetInput{
		Name: "2024", Year: 2024, Categories: []models.Category{{Name: "Groceries"}, {Name: "Fun"}},
	}, "")
	testutil.AssertNoError(t, err)
	_, err = s.AddExpenses([]reconcile.IncomingExpense{
		{Name: "Milk", Amount: 4.5, Date: "2024-01-05", CategoryName: "Groceries"},
		{Name: "Film", Amount: 12, Date: "2024-02-05", CategoryName: "Fun"},
	})
	testutil.AssertNoError(t, err)

	snap := s.Snapshot()
	active, _ := snap.ActiveBudget()
	milk := active.Expenses[0]
	milk.Amount = 5

	updated, err := s.UpdateExpense(milk)
	testutil.AssertNoError(t, err)
	if updated.Amount != 5 {
		t.Errorf("expected amount 5, got %f", updated.Amount)
	}

	_, err = s.UpdateExpense(models.Expense{ID: "missing", Name: "x", Amount: 1, Date: "2024-01-01", CategoryID: milk.CategoryID})
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	err = s.DeleteExpense("missing")
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	removed, err := s.DeleteExpensesInView(2)
	testutil.AssertNoError(t, err)
	if removed != 1 {
		t.Errorf("expected 1 February expense removed, got %d", removed)
	}

	removed, err = s.DeleteExpenses([]string{milk.ID})
	testutil.AssertNoError(t, err)
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
}

func TestAssetActionsUpdateHistory(t *testing.T) {
	s := newTestStore(t, blobstore.NewMemory())

	_, err := s.SaveAsset(reconcile.AssetInput{Name: "Savings", Type: models.AssetTypeCashSavings, Value: 5000}, "")
	testutil.AssertNoError(t, err)
	_, err = s.SaveLiability(reconcile.LiabilityInput{Name: "Loan", Amount: 1200}, "")
	testutil.AssertNoError(t, err)

	history := s.Snapshot().NetWorthHistory
	if len(history) != 1 || history[0].Date != "2024-06-01" || history[0].NetWorth != 3800 {
		t.Errorf("expected a single 3800 snapshot for 2024-06-01, got %v", history)
	}

	acct, err := s.SaveAsset(reconcile.AssetInput{Name: "Brokerage", Type: models.AssetTypeBrokerage}, "")
	testutil.AssertNoError(t, err)
	_, err = s.AddHolding(acct.ID, reconcile.HoldingInput{Ticker: "aapl", Name: "Apple", Shares: 10, PurchasePrice: 50, CurrentPrice: 60})
	testutil.AssertNoError(t, err)

	if got := s.Tickers(); len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("expected [AAPL], got %v", got)
	}

	n, err := s.ApplyQuotes(map[string]float64{"AAPL": 70})
	testutil.AssertNoError(t, err)
	if n != 1 {
		t.Errorf("expected 1 holding updated, got %d", n)
	}

	history = s.Snapshot().NetWorthHistory
	if len(history) != 1 || history[0].NetWorth != 4500 {
		t.Errorf("expected same-day snapshot replaced with 4500, got %v", history)
	}
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	blobs := blobstore.NewMemory()
	s := newTestStore(t, blobs)
	blobs.FailWrites = errors.New("quota exceeded")

	_, err := s.SaveLiability(reconcile.LiabilityInput{Name: "Loan", Amount: 10}, "")
	testutil.AssertNoError(t, err)

	if len(s.Snapshot().Liabilities) != 1 {
		t.Error("expected in-memory state to keep the change")
	}
	if !s.Dirty() {
		t.Error("expected store to be dirty")
	}

	blobs.FailWrites = nil
	_, err = s.SaveLiability(reconcile.LiabilityInput{Name: "Card", Amount: 20}, "")
	testutil.AssertNoError(t, err)
	if s.Dirty() {
		t.Error("expected dirty flag cleared by a successful write")
	}
	if got := storedState(t, blobs); len(got.Liabilities) != 2 {
		t.Errorf("expected both liabilities persisted, got %d", len(got.Liabilities))
	}
}

func TestSettingsWriteFailureRetriedWithState(t *testing.T) {
	blobs := blobstore.NewMemory()
	s := newTestStore(t, blobs)

	blobs.FailWrites = errors.New("quota exceeded")
	testutil.AssertNoError(t, s.SaveSettings(models.Settings{Currency: "EUR"}))
	if !s.Dirty() {
		t.Fatal("expected failed settings write to mark the store dirty")
	}

	blobs.FailWrites = nil
	_, err := s.SaveLiability(reconcile.LiabilityInput{Name: "Loan", Amount: 10}, "")
	testutil.AssertNoError(t, err)

	raw, found, err := blobs.Get(KeySettings)
	testutil.AssertNoError(t, err)
	var stored models.Settings
	if found {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			t.Fatalf("failed to decode stored settings: %v", err)
		}
	}
	if stored.Currency != "EUR" {
		t.Errorf("expected settings written with the next state write, got %q", stored.Currency)
	}
	if s.Dirty() {
		t.Error("expected dirty flag cleared once both blobs are written")
	}
}

func TestFailedActionLeavesStateUnchanged(t *testing.T) {
	blobs := blobstore.NewMemory()
	s := newTestStore(t, blobs)

	_, err := s.SaveBudget(reconcile.BudgetInput{Name: "", Year: 2024}, "")
	testutil.AssertAppError(t, err, "EMPTY_BUDGET_NAME")

	if _, found, _ := blobs.Get(KeyState); found {
		t.Error("a rejected action should not write")
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t, blobstore.NewMemory())
	ch, cancel := s.Subscribe()
	defer cancel()

	_, err := s.SaveLiability(reconcile.LiabilityInput{Name: "A", Amount: 1}, "")
	testutil.AssertNoError(t, err)
	_, err = s.SaveLiability(reconcile.LiabilityInput{Name: "B", Amount: 2}, "")
	testutil.AssertNoError(t, err)

	select {
	case state := <-ch:
		if len(state.Liabilities) != 2 {
			t.Errorf("expected the latest state, got %d liabilities", len(state.Liabilities))
		}
	default:
		t.Fatal("expected a published state")
	}
}

func TestCopyBudgetDefaultsToCurrentYear(t *testing.T) {
	s := newTestStore(t, blobstore.NewMemory())
	b, err := s.SaveBudget(reconcile.BudgetInput{Name: "Home", Year: 2020, Categories: []models.Category{{Name: "Rent"}}}, "")
	testutil.AssertNoError(t, err)

	draft, err := s.CopyBudget(b.ID, 0)
	testutil.AssertNoError(t, err)
	if draft.Year != 2024 || draft.Name != "Copy of Home" {
		t.Errorf("unexpected draft %+v", draft)
	}
	if len(s.Snapshot().Budgets) != 1 {
		t.Error("a draft should not be saved")
	}

	_, err = s.CopyBudget("missing", 0)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestSettingsRoundTrip(t *testing.T) {
	blobs := blobstore.NewMemory()
	s := newTestStore(t, blobs)
	testutil.AssertNoError(t, s.SaveSettings(models.Settings{Currency: "EUR"}))

	reloaded := newTestStore(t, blobs)
	if reloaded.Settings().Currency != "EUR" {
		t.Errorf("expected EUR, got %q", reloaded.Settings().Currency)
	}
}
