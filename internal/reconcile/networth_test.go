package reconcile

import (
	"reflect"
	"testing"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/testutil"
)

func TestDeriveNetWorth(t *testing.T) {
	assets := []models.Asset{
		testutil.NewTestCashAsset("Savings", 5000),
		testutil.NewTestBrokerageAsset("Brokerage", testutil.NewTestHolding("AAPL", 10, 50, 60)),
	}
	liabilities := []models.Liability{testutil.NewTestLiability("Loan", 1200)}

	testutil.AssertFloat(t, "net worth", DeriveNetWorth(assets, liabilities), 4400)
	testutil.AssertFloat(t, "empty net worth", DeriveNetWorth(nil, nil), 0)
}

func TestUpdateHistory(t *testing.T) {
	assets := []models.Asset{testutil.NewTestCashAsset("Savings", 5000)}
	liabilities := []models.Liability{testutil.NewTestLiability("Loan", 1200)}

	t.Run("first_snapshot", func(t *testing.T) {
		got := UpdateHistory(nil, assets, liabilities, "2024-06-01")
		want := []models.NetWorthSnapshot{{Date: "2024-06-01", NetWorth: 3800}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("idempotent_same_day", func(t *testing.T) {
		once := UpdateHistory(nil, assets, liabilities, "2024-06-01")
		twice := UpdateHistory(once, assets, liabilities, "2024-06-01")
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("expected no change, got %v", twice)
		}
		if &once[0] != &twice[0] {
			t.Error("expected the same slice back on a no-op")
		}
	})

	t.Run("empty_state_seeds_nothing", func(t *testing.T) {
		got := UpdateHistory([]models.NetWorthSnapshot{}, nil, nil, "2024-06-01")
		if len(got) != 0 {
			t.Errorf("expected no snapshot, got %v", got)
		}
	})

	t.Run("zero_with_entries_is_recorded", func(t *testing.T) {
		got := UpdateHistory(nil, []models.Asset{testutil.NewTestCashAsset("Empty", 0)}, nil, "2024-06-01")
		if len(got) != 1 || got[0].NetWorth != 0 {
			t.Errorf("expected a zero snapshot, got %v", got)
		}
	})

	t.Run("same_day_change_replaces", func(t *testing.T) {
		history := []models.NetWorthSnapshot{{Date: "2024-05-31", NetWorth: 100}, {Date: "2024-06-01", NetWorth: 200}}
		got := UpdateHistory(history, assets, liabilities, "2024-06-01")
		if len(got) != 2 || got[1].NetWorth != 3800 {
			t.Errorf("expected last entry replaced, got %v", got)
		}
		if history[1].NetWorth != 200 {
			t.Error("input history should not be mutated")
		}
	})

	t.Run("new_day_unchanged_value_suppressed", func(t *testing.T) {
		history := []models.NetWorthSnapshot{{Date: "2024-05-31", NetWorth: 3800.001}}
		got := UpdateHistory(history, assets, liabilities, "2024-06-01")
		if len(got) != 1 {
			t.Errorf("expected no new entry, got %v", got)
		}
	})

	t.Run("new_day_changed_value_appends", func(t *testing.T) {
		history := []models.NetWorthSnapshot{{Date: "2024-05-31", NetWorth: 3000}}
		got := UpdateHistory(history, assets, liabilities, "2024-06-01")
		want := []models.NetWorthSnapshot{{Date: "2024-05-31", NetWorth: 3000}, {Date: "2024-06-01", NetWorth: 3800}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("stored_at_cent_precision", func(t *testing.T) {
		got := UpdateHistory(nil, []models.Asset{testutil.NewTestCashAsset("Odd", 10.456)}, nil, "2024-06-01")
		if got[0].NetWorth != 10.46 {
			t.Errorf("expected 10.46, got %v", got[0].NetWorth)
		}
	})
}
