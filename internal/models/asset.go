package models

import (
	"encoding/json"
)

// AssetType is the user-facing kind of an asset. The type decides the
// asset's shape: scalar types are valued by a single number, account types
// by the holdings they contain.
type AssetType string

const (
	AssetTypeBrokerage   AssetType = "Brokerage"
	AssetTypeRetirement  AssetType = "Retirement"
	AssetTypeHSA         AssetType = "HSA"
	AssetTypeCashSavings AssetType = "Cash & Savings"
	AssetTypeRealEstate  AssetType = "Real Estate"
	AssetTypeVehicle     AssetType = "Vehicle"
	AssetTypeOther       AssetType = "Other"
)

// AssetTypes lists every supported type in display order.
var AssetTypes = []AssetType{
	AssetTypeBrokerage,
	AssetTypeRetirement,
	AssetTypeHSA,
	AssetTypeCashSavings,
	AssetTypeRealEstate,
	AssetTypeVehicle,
	AssetTypeOther,
}

// Shape distinguishes the two asset variants.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeAccount
)

// Valid reports whether t is a supported asset type.
func (t AssetType) Valid() bool {
	for _, at := range AssetTypes {
		if at == t {
			return true
		}
	}
	return false
}

// Shape returns the variant an asset of this type carries.
func (t AssetType) Shape() Shape {
	switch t {
	case AssetTypeCashSavings, AssetTypeRealEstate, AssetTypeVehicle, AssetTypeOther:
		return ShapeScalar
	default:
		return ShapeAccount
	}
}

// Valuation is the sealed two-variant body of an asset: Scalar or Account.
type Valuation interface {
	isValuation()
}

// Scalar is the body of an asset valued by a single number.
type Scalar struct {
	Value float64
}

// Account is the body of an asset valued as the sum of its holdings.
type Account struct {
	Holdings []Holding
}

func (Scalar) isValuation()  {}
func (Account) isValuation() {}

// Asset is something the user owns.
type Asset struct {
	ID        string
	Name      string
	Type      AssetType
	Valuation Valuation
}

// NewAsset builds an asset whose body matches the shape of its type. value is
// used for scalar types; account types start with the given holdings.
func NewAsset(id, name string, t AssetType, value float64, holdings []Holding) Asset {
	a := Asset{ID: id, Name: name, Type: t}
	if t.Shape() == ShapeScalar {
		a.Valuation = Scalar{Value: value}
	} else {
		if holdings == nil {
			holdings = []Holding{}
		}
		a.Valuation = Account{Holdings: holdings}
	}
	return a
}

// MatchAsset dispatches on the asset variant. Both branches are required, so
// every consumer handles scalar and account assets explicitly. An asset
// without a body is treated as an empty instance of its type's shape.
func MatchAsset[T any](a Asset, scalar func(Scalar) T, account func(Account) T) T {
	switch v := a.Valuation.(type) {
	case Scalar:
		return scalar(v)
	case Account:
		return account(v)
	}
	if a.Type.Shape() == ShapeScalar {
		return scalar(Scalar{})
	}
	return account(Account{})
}

// Value returns the asset's current total value.
func (a Asset) Value() float64 {
	return MatchAsset(a,
		func(s Scalar) float64 { return s.Value },
		func(acc Account) float64 {
			var total float64
			for _, h := range acc.Holdings {
				total += h.Value()
			}
			return total
		},
	)
}

// Holdings returns the asset's holdings and whether it is an account asset.
func (a Asset) Holdings() ([]Holding, bool) {
	type result struct {
		holdings []Holding
		ok       bool
	}
	r := MatchAsset(a,
		func(Scalar) result { return result{} },
		func(acc Account) result { return result{holdings: acc.Holdings, ok: true} },
	)
	return r.holdings, r.ok
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	if acc, ok := a.Valuation.(Account); ok {
		a.Valuation = Account{Holdings: append([]Holding{}, acc.Holdings...)}
	}
	return a
}

// assetJSON is the persisted form: value for scalar assets, holdings for
// account assets, never both.
type assetJSON struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     AssetType  `json:"type"`
	Value    *float64   `json:"value,omitempty"`
	Holdings *[]Holding `json:"holdings,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a Asset) MarshalJSON() ([]byte, error) {
	out := assetJSON{ID: a.ID, Name: a.Name, Type: a.Type}
	MatchAsset(a,
		func(s Scalar) struct{} {
			v := s.Value
			out.Value = &v
			return struct{}{}
		},
		func(acc Account) struct{} {
			h := acc.Holdings
			if h == nil {
				h = []Holding{}
			}
			out.Holdings = &h
			return struct{}{}
		},
	)
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The type decides the shape; a
// body that does not fit the type is dropped. When the type is missing or
// unknown, a holdings list means Brokerage and anything else means Other.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var in assetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	a.ID, a.Name, a.Type = in.ID, in.Name, in.Type

	shape := ShapeScalar
	if in.Holdings != nil {
		shape = ShapeAccount
	}
	switch {
	case a.Type == "" && shape == ShapeAccount:
		a.Type = AssetTypeBrokerage
	case a.Type == "":
		a.Type = AssetTypeOther
	case a.Type.Valid():
		shape = a.Type.Shape()
	}

	if shape == ShapeAccount {
		holdings := []Holding{}
		if in.Holdings != nil && *in.Holdings != nil {
			holdings = *in.Holdings
		}
		a.Valuation = Account{Holdings: holdings}
		return nil
	}
	var v float64
	if in.Value != nil {
		v = *in.Value
	}
	a.Valuation = Scalar{Value: v}
	return nil
}

// Holding is a position in one ticker inside an account asset.
type Holding struct {
	ID            string  `json:"id"`
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchasePrice"`
	CurrentPrice  float64 `json:"currentPrice"`
}

// Value returns shares times current price.
func (h Holding) Value() float64 {
	return h.Shares * h.CurrentPrice
}

// CostBasis returns shares times purchase price.
func (h Holding) CostBasis() float64 {
	return h.Shares * h.PurchasePrice
}

// GainLoss returns the unrealized gain (negative for a loss).
func (h Holding) GainLoss() float64 {
	return (h.CurrentPrice - h.PurchasePrice) * h.Shares
}

// GainLossPercent returns the gain relative to cost basis, or 0 when the
// cost basis is zero.
func (h Holding) GainLossPercent() float64 {
	basis := h.CostBasis()
	if basis == 0 {
		return 0
	}
	return h.GainLoss() / basis * 100
}
