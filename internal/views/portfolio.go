package views

import (
	"github.com/shopspring/decimal"

	"github.com/berling9700/budget-tracker/internal/models"
)

// UnknownTicker labels holdings that carry no ticker.
const UnknownTicker = "Unknown Ticker"

// Slice is one labelled, positive value of a chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Allocation buckets portfolio value for the allocation chart: holdings by
// ticker, scalar assets by name. Buckets keep first-seen order and zero
// buckets are left out.
func Allocation(assets []models.Asset) []Slice {
	var order []string
	totals := map[string]decimal.Decimal{}
	add := func(label string, v decimal.Decimal) {
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] = totals[label].Add(v)
	}

	for _, a := range assets {
		models.MatchAsset(a,
			func(s models.Scalar) struct{} {
				add(a.Name, decimal.NewFromFloat(s.Value))
				return struct{}{}
			},
			func(acc models.Account) struct{} {
				for _, h := range acc.Holdings {
					label := h.Ticker
					if label == "" {
						label = UnknownTicker
					}
					add(label, decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(h.CurrentPrice)))
				}
				return struct{}{}
			},
		)
	}

	out := []Slice{}
	for _, label := range order {
		if v := totals[label]; v.IsPositive() {
			out = append(out, Slice{Label: label, Value: v.InexactFloat64()})
		}
	}
	return out
}

// NetWorthSummary is the dashboard net-worth view.
type NetWorthSummary struct {
	TotalAssets      float64                   `json:"totalAssets"`
	TotalLiabilities float64                   `json:"totalLiabilities"`
	NetWorth         float64                   `json:"netWorth"`
	Chart            []Slice                   `json:"chart"`
	History          []models.NetWorthSnapshot `json:"history"`
}

// SummarizeNetWorth totals assets and liabilities of state.
func SummarizeNetWorth(state models.AppState) NetWorthSummary {
	assets, liabilities := decimal.Zero, decimal.Zero
	for _, a := range state.Assets {
		assets = assets.Add(decimal.NewFromFloat(a.Value()))
	}
	for _, l := range state.Liabilities {
		liabilities = liabilities.Add(decimal.NewFromFloat(l.Amount))
	}

	chart := []Slice{}
	if assets.IsPositive() {
		chart = append(chart, Slice{Label: "Assets", Value: assets.InexactFloat64()})
	}
	if liabilities.IsPositive() {
		chart = append(chart, Slice{Label: "Liabilities", Value: liabilities.InexactFloat64()})
	}

	history := state.NetWorthHistory
	if history == nil {
		history = []models.NetWorthSnapshot{}
	}
	return NetWorthSummary{
		TotalAssets:      assets.InexactFloat64(),
		TotalLiabilities: liabilities.InexactFloat64(),
		NetWorth:         assets.Sub(liabilities).InexactFloat64(),
		Chart:            chart,
		History:          history,
	}
}

// HoldingView is a holding with its derived metrics.
type HoldingView struct {
	models.Holding
	Value           float64 `json:"value"`
	CostBasis       float64 `json:"costBasis"`
	GainLoss        float64 `json:"gainLoss"`
	GainLossPercent float64 `json:"gainLossPercent"`
}

// AssetView is an asset with its total value and, for accounts, the holdings
// with their metrics.
type AssetView struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Type     models.AssetType `json:"type"`
	Value    float64          `json:"value"`
	Holdings []HoldingView    `json:"holdings,omitempty"`
}

// NewHoldingView computes the metrics of h.
func NewHoldingView(h models.Holding) HoldingView {
	return HoldingView{
		Holding:         h,
		Value:           h.Value(),
		CostBasis:       h.CostBasis(),
		GainLoss:        h.GainLoss(),
		GainLossPercent: h.GainLossPercent(),
	}
}

// NewAssetView renders one asset.
func NewAssetView(a models.Asset) AssetView {
	return models.MatchAsset(a,
		func(s models.Scalar) AssetView {
			return AssetView{ID: a.ID, Name: a.Name, Type: a.Type, Value: s.Value}
		},
		func(acc models.Account) AssetView {
			v := AssetView{ID: a.ID, Name: a.Name, Type: a.Type, Value: a.Value(), Holdings: []HoldingView{}}
			for _, h := range acc.Holdings {
				v.Holdings = append(v.Holdings, NewHoldingView(h))
			}
			return v
		},
	)
}

// AssetViews renders the asset list.
func AssetViews(assets []models.Asset) []AssetView {
	out := make([]AssetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, NewAssetView(a))
	}
	return out
}
