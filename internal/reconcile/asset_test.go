package reconcile

import (
	"reflect"
	"testing"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/testutil"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

func TestCreateOrUpdateAsset(t *testing.T) {
	t.Run("scalar_create", func(t *testing.T) {
		out, a, err := CreateOrUpdateAsset(nil, AssetInput{Name: "Savings", Type: models.AssetTypeCashSavings, Value: 5000}, "", uuid.NewSequence("a"))
		testutil.AssertNoError(t, err)
		if len(out) != 1 {
			t.Fatalf("expected 1 asset, got %d", len(out))
		}
		if _, ok := a.Valuation.(models.Scalar); !ok {
			t.Errorf("expected scalar valuation, got %T", a.Valuation)
		}
		if a.Value() != 5000 {
			t.Errorf("expected value 5000, got %f", a.Value())
		}
	})

	t.Run("account_create_starts_empty", func(t *testing.T) {
		_, a, err := CreateOrUpdateAsset(nil, AssetInput{Name: "Brokerage", Type: models.AssetTypeBrokerage, Value: 99}, "", uuid.NewSequence("a"))
		testutil.AssertNoError(t, err)
		holdings, ok := a.Holdings()
		if !ok || holdings == nil || len(holdings) != 0 {
			t.Errorf("expected empty holdings list, got %v (ok=%v)", holdings, ok)
		}
		if a.Value() != 0 {
			t.Errorf("expected value ignored for accounts, got %f", a.Value())
		}
	})

	t.Run("account_edit_keeps_holdings", func(t *testing.T) {
		acct := testutil.NewTestBrokerageAsset("Brokerage", testutil.NewTestHolding("AAPL", 10, 50, 60))
		out, a, err := CreateOrUpdateAsset([]models.Asset{acct}, AssetInput{Name: "IRA", Type: models.AssetTypeRetirement}, acct.ID, uuid.NewSequence("a"))
		testutil.AssertNoError(t, err)
		holdings, _ := a.Holdings()
		if len(holdings) != 1 || a.Type != models.AssetTypeRetirement || a.Name != "IRA" {
			t.Errorf("unexpected edited asset %+v", a)
		}
		if out[0].ID != acct.ID {
			t.Error("expected identity preserved")
		}
	})

	t.Run("scalar_to_account_rebuilds_body", func(t *testing.T) {
		cash := testutil.NewTestCashAsset("Cash", 100)
		_, a, err := CreateOrUpdateAsset([]models.Asset{cash}, AssetInput{Name: "Cash", Type: models.AssetTypeHSA}, cash.ID, uuid.NewSequence("a"))
		testutil.AssertNoError(t, err)
		if _, ok := a.Valuation.(models.Account); !ok {
			t.Errorf("expected account valuation, got %T", a.Valuation)
		}
	})

	t.Run("account_with_holdings_to_scalar", func(t *testing.T) {
		acct := testutil.NewTestBrokerageAsset("Brokerage", testutil.NewTestHolding("AAPL", 10, 50, 60))
		_, _, err := CreateOrUpdateAsset([]models.Asset{acct}, AssetInput{Name: "House", Type: models.AssetTypeRealEstate, Value: 1}, acct.ID, uuid.NewSequence("a"))
		testutil.AssertAppError(t, err, "ASSET_SHAPE_MISMATCH")
	})

	t.Run("empty_account_to_scalar", func(t *testing.T) {
		acct := testutil.NewTestBrokerageAsset("Brokerage")
		_, a, err := CreateOrUpdateAsset([]models.Asset{acct}, AssetInput{Name: "Car", Type: models.AssetTypeVehicle, Value: 8000}, acct.ID, uuid.NewSequence("a"))
		testutil.AssertNoError(t, err)
		if a.Value() != 8000 {
			t.Errorf("expected 8000, got %f", a.Value())
		}
	})

	t.Run("validation", func(t *testing.T) {
		ids := uuid.NewSequence("a")
		_, _, err := CreateOrUpdateAsset(nil, AssetInput{Name: "", Type: models.AssetTypeOther}, "", ids)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, _, err = CreateOrUpdateAsset(nil, AssetInput{Name: "X", Type: "Crypto"}, "", ids)
		testutil.AssertAppError(t, err, "INVALID_ASSET_TYPE")
		_, _, err = CreateOrUpdateAsset(nil, AssetInput{Name: "X", Type: models.AssetTypeOther, Value: -1}, "", ids)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		_, _, err = CreateOrUpdateAsset(nil, AssetInput{Name: "X", Type: models.AssetTypeOther}, "missing", ids)
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestHoldings(t *testing.T) {
	acct := testutil.NewTestBrokerageAsset("Brokerage")
	cash := testutil.NewTestCashAsset("Cash", 10)
	assets := []models.Asset{cash, acct}
	ids := uuid.NewSequence("h")

	out, h, err := AddHolding(assets, acct.ID, HoldingInput{Ticker: " aapl ", Name: "Apple", Shares: 10, PurchasePrice: 50, CurrentPrice: 60}, ids)
	testutil.AssertNoError(t, err)
	if h.Ticker != "AAPL" {
		t.Errorf("expected upper-cased ticker, got %q", h.Ticker)
	}
	if got, _ := out[1].Holdings(); len(got) != 1 {
		t.Fatalf("expected holding appended, got %d", len(got))
	}
	if got, _ := assets[1].Holdings(); len(got) != 0 {
		t.Error("input assets should not be mutated")
	}

	_, _, err = AddHolding(out, cash.ID, HoldingInput{Ticker: "X", Name: "X", Shares: 1}, ids)
	testutil.AssertAppError(t, err, "ASSET_SHAPE_MISMATCH")
	_, _, err = AddHolding(out, acct.ID, HoldingInput{Ticker: "X", Name: "X", Shares: 0}, ids)
	testutil.AssertAppError(t, err, "INVALID_SHARES")
	_, _, err = AddHolding(out, acct.ID, HoldingInput{Ticker: "", Name: "X", Shares: 1}, ids)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	edited, eh, err := UpdateHolding(out, h.ID, HoldingInput{Ticker: "AAPL", Name: "Apple", Shares: 12, PurchasePrice: 50, CurrentPrice: 70})
	testutil.AssertNoError(t, err)
	if eh.ID != h.ID || eh.Shares != 12 {
		t.Errorf("unexpected edited holding %+v", eh)
	}
	if edited[1].Value() != 840 {
		t.Errorf("expected account value 840, got %f", edited[1].Value())
	}

	_, _, err = UpdateHolding(out, "missing", HoldingInput{Ticker: "A", Name: "A", Shares: 1})
	testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")

	removed, err := DeleteHolding(edited, acct.ID, h.ID)
	testutil.AssertNoError(t, err)
	if got, _ := removed[1].Holdings(); len(got) != 0 {
		t.Errorf("expected holding removed, got %d", len(got))
	}
	_, err = DeleteHolding(removed, acct.ID, h.ID)
	testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
}

func TestHoldingMetrics(t *testing.T) {
	h := models.Holding{Shares: 10, PurchasePrice: 50, CurrentPrice: 60}
	if h.Value() != 600 {
		t.Errorf("expected value 600, got %f", h.Value())
	}
	if h.GainLoss() != 100 {
		t.Errorf("expected gain 100, got %f", h.GainLoss())
	}
	testutil.AssertFloat(t, "gain percent", h.GainLossPercent(), 20)

	free := models.Holding{Shares: 1, CurrentPrice: 5}
	if free.GainLossPercent() != 0 {
		t.Errorf("expected 0%% with zero cost basis, got %f", free.GainLossPercent())
	}
}

func TestApplyQuoteRefresh(t *testing.T) {
	aapl := testutil.NewTestHolding("aapl", 10, 50, 60)
	msft := testutil.NewTestHolding("MSFT", 1, 300, 310)
	acct := testutil.NewTestBrokerageAsset("Brokerage", aapl, msft)
	cash := testutil.NewTestCashAsset("Cash", 10)

	out, n := ApplyQuoteRefresh([]models.Asset{cash, acct}, map[string]float64{"AAPL": 75, "GOOG": 1})
	if n != 1 {
		t.Errorf("expected 1 holding updated, got %d", n)
	}
	holdings, _ := out[1].Holdings()
	if holdings[0].CurrentPrice != 75 || holdings[0].PurchasePrice != 50 {
		t.Errorf("expected only current price changed, got %+v", holdings[0])
	}
	if holdings[1].CurrentPrice != 310 {
		t.Errorf("unmatched holding should be untouched, got %+v", holdings[1])
	}
	if out[0].Value() != 10 {
		t.Error("scalar assets should be untouched")
	}
}

func TestTickers(t *testing.T) {
	a := testutil.NewTestBrokerageAsset("A", testutil.NewTestHolding("msft", 1, 1, 1), testutil.NewTestHolding("AAPL", 1, 1, 1))
	b := testutil.NewTestBrokerageAsset("B", testutil.NewTestHolding("MSFT", 1, 1, 1))

	got := Tickers([]models.Asset{a, b, testutil.NewTestCashAsset("Cash", 1)})
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT"}) {
		t.Errorf("expected [AAPL MSFT], got %v", got)
	}
}

func TestLiabilities(t *testing.T) {
	ids := uuid.NewSequence("l")
	out, l, err := CreateOrUpdateLiability(nil, LiabilityInput{Name: " Loan ", Amount: 1200}, "", ids)
	testutil.AssertNoError(t, err)
	if l.Name != "Loan" || len(out) != 1 {
		t.Errorf("unexpected liability %+v", l)
	}

	out, l, err = CreateOrUpdateLiability(out, LiabilityInput{Name: "Loan", Amount: 1000}, l.ID, ids)
	testutil.AssertNoError(t, err)
	if out[0].Amount != 1000 || l.Amount != 1000 {
		t.Errorf("expected amount updated, got %+v", out[0])
	}

	_, _, err = CreateOrUpdateLiability(out, LiabilityInput{Name: "X", Amount: -1}, "", ids)
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	_, _, err = CreateOrUpdateLiability(out, LiabilityInput{Name: "", Amount: 1}, "", ids)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	out, err = DeleteLiability(out, l.ID)
	testutil.AssertNoError(t, err)
	if len(out) != 0 {
		t.Errorf("expected no liabilities, got %d", len(out))
	}
	_, err = DeleteLiability(out, l.ID)
	testutil.AssertAppError(t, err, "LIABILITY_NOT_FOUND")
}
