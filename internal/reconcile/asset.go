package reconcile

import (
	"sort"
	"strings"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

// AssetInput carries the editable fields of an asset. Value only applies to
// scalar asset types.
type AssetInput struct {
	Name  string
	Type  models.AssetType
	Value float64
}

// CreateOrUpdateAsset saves an asset form. A new asset gets a body matching
// its type: the scalar value or an empty holdings list. Editing an account
// asset keeps its holdings. Changing type across the scalar/account boundary
// rebuilds the body, and is refused while the account still has holdings.
func CreateOrUpdateAsset(assets []models.Asset, in AssetInput, editingID string, ids uuid.Generator) ([]models.Asset, models.Asset, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return assets, models.Asset{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Asset name is required")
	}
	if !in.Type.Valid() {
		return assets, models.Asset{}, apperrors.ErrInvalidAssetType
	}
	if in.Type.Shape() == models.ShapeScalar && in.Value < 0 {
		return assets, models.Asset{}, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Asset value cannot be negative")
	}

	if editingID == "" {
		a := models.NewAsset(ids.NewID(), name, in.Type, in.Value, nil)
		return append(cloneAssets(assets), a), a, nil
	}

	idx := assetIndex(assets, editingID)
	if idx < 0 {
		return assets, models.Asset{}, apperrors.ErrAssetNotFound
	}
	existing := assets[idx]

	var updated models.Asset
	switch {
	case in.Type.Shape() == models.ShapeScalar:
		if holdings, ok := existing.Holdings(); ok && len(holdings) > 0 {
			return assets, models.Asset{}, apperrors.WithMessage(apperrors.ErrAssetShapeMismatch,
				"Remove the holdings of this account before changing it to a single-value asset")
		}
		updated = models.NewAsset(existing.ID, name, in.Type, in.Value, nil)
	default:
		holdings, _ := existing.Holdings()
		updated = models.NewAsset(existing.ID, name, in.Type, 0, append([]models.Holding{}, holdings...))
	}

	out := cloneAssets(assets)
	out[idx] = updated
	return out, updated, nil
}

// DeleteAsset removes an asset and its holdings.
func DeleteAsset(assets []models.Asset, id string) ([]models.Asset, error) {
	idx := assetIndex(assets, id)
	if idx < 0 {
		return assets, apperrors.ErrAssetNotFound
	}
	out := make([]models.Asset, 0, len(assets)-1)
	for i, a := range assets {
		if i != idx {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

// HoldingInput carries the editable fields of a holding.
type HoldingInput struct {
	Ticker        string
	Name          string
	Shares        float64
	PurchasePrice float64
	CurrentPrice  float64
}

func (in HoldingInput) normalize() (HoldingInput, error) {
	in.Ticker = strings.ToUpper(strings.TrimSpace(in.Ticker))
	in.Name = strings.TrimSpace(in.Name)
	if in.Ticker == "" || in.Name == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker and name are required")
	}
	if in.Shares <= 0 {
		return in, apperrors.ErrInvalidShares
	}
	if in.PurchasePrice < 0 || in.CurrentPrice < 0 {
		return in, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Prices cannot be negative")
	}
	return in, nil
}

// AddHolding appends a new holding to the account asset assetID.
func AddHolding(assets []models.Asset, assetID string, in HoldingInput, ids uuid.Generator) ([]models.Asset, models.Holding, error) {
	in, err := in.normalize()
	if err != nil {
		return assets, models.Holding{}, err
	}
	idx := assetIndex(assets, assetID)
	if idx < 0 {
		return assets, models.Holding{}, apperrors.ErrAssetNotFound
	}
	holdings, ok := assets[idx].Holdings()
	if !ok {
		return assets, models.Holding{}, apperrors.ErrAssetShapeMismatch
	}

	h := models.Holding{
		ID:            ids.NewID(),
		Ticker:        in.Ticker,
		Name:          in.Name,
		Shares:        in.Shares,
		PurchasePrice: in.PurchasePrice,
		CurrentPrice:  in.CurrentPrice,
	}
	out := cloneAssets(assets)
	out[idx].Valuation = models.Account{Holdings: append(append([]models.Holding{}, holdings...), h)}
	return out, h, nil
}

// UpdateHolding replaces a holding, locating its owning asset by scanning
// every account asset for the holding id.
func UpdateHolding(assets []models.Asset, holdingID string, in HoldingInput) ([]models.Asset, models.Holding, error) {
	in, err := in.normalize()
	if err != nil {
		return assets, models.Holding{}, err
	}
	out := cloneAssets(assets)
	for i := range out {
		holdings, ok := out[i].Holdings()
		if !ok {
			continue
		}
		for j := range holdings {
			if holdings[j].ID != holdingID {
				continue
			}
			holdings[j] = models.Holding{
				ID:            holdingID,
				Ticker:        in.Ticker,
				Name:          in.Name,
				Shares:        in.Shares,
				PurchasePrice: in.PurchasePrice,
				CurrentPrice:  in.CurrentPrice,
			}
			return out, holdings[j], nil
		}
	}
	return assets, models.Holding{}, apperrors.ErrHoldingNotFound
}

// DeleteHolding removes holdingID from the account asset assetID.
func DeleteHolding(assets []models.Asset, assetID, holdingID string) ([]models.Asset, error) {
	idx := assetIndex(assets, assetID)
	if idx < 0 {
		return assets, apperrors.ErrAssetNotFound
	}
	holdings, ok := assets[idx].Holdings()
	if !ok {
		return assets, apperrors.ErrAssetShapeMismatch
	}
	kept := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.ID != holdingID {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(holdings) {
		return assets, apperrors.ErrHoldingNotFound
	}
	out := cloneAssets(assets)
	out[idx].Valuation = models.Account{Holdings: kept}
	return out, nil
}

// ApplyQuoteRefresh overwrites currentPrice on every holding whose ticker has
// a quote. Keys of quotes are upper-case tickers. It returns the new assets
// and the number of holdings that were updated.
func ApplyQuoteRefresh(assets []models.Asset, quotes map[string]float64) ([]models.Asset, int) {
	out := cloneAssets(assets)
	updated := 0
	for i := range out {
		holdings, ok := out[i].Holdings()
		if !ok {
			continue
		}
		for j := range holdings {
			if price, hit := quotes[strings.ToUpper(holdings[j].Ticker)]; hit {
				holdings[j].CurrentPrice = price
				updated++
			}
		}
	}
	return out, updated
}

// Tickers returns the distinct upper-case tickers held across all accounts,
// sorted.
func Tickers(assets []models.Asset) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range assets {
		holdings, _ := a.Holdings()
		for _, h := range holdings {
			t := strings.ToUpper(strings.TrimSpace(h.Ticker))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func assetIndex(assets []models.Asset, id string) int {
	for i, a := range assets {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func cloneAssets(assets []models.Asset) []models.Asset {
	out := make([]models.Asset, len(assets))
	for i, a := range assets {
		out[i] = a.Clone()
	}
	return out
}
