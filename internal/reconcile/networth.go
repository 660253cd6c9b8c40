package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/berling9700/budget-tracker/internal/models"
)

// DeriveNetWorth sums scalar asset values and holding values, minus
// liabilities.
func DeriveNetWorth(assets []models.Asset, liabilities []models.Liability) float64 {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(models.MatchAsset(a,
			func(s models.Scalar) decimal.Decimal { return decimal.NewFromFloat(s.Value) },
			func(acc models.Account) decimal.Decimal {
				sum := decimal.Zero
				for _, h := range acc.Holdings {
					sum = sum.Add(decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(h.CurrentPrice)))
				}
				return sum
			},
		))
	}
	for _, l := range liabilities {
		total = total.Sub(decimal.NewFromFloat(l.Amount))
	}
	return total.InexactFloat64()
}

// UpdateHistory records today's net worth. There is at most one snapshot per
// date: today's entry is rewritten only when the value moved, and a new day is
// appended only when the value differs from the last recorded one. Values are
// compared and stored at cent precision. When nothing changes the input slice
// is returned as is.
func UpdateHistory(history []models.NetWorthSnapshot, assets []models.Asset, liabilities []models.Liability, today string) []models.NetWorthSnapshot {
	value := decimal.NewFromFloat(DeriveNetWorth(assets, liabilities)).Round(2)

	if len(history) == 0 {
		if value.IsZero() && len(assets) == 0 && len(liabilities) == 0 {
			return history
		}
		return []models.NetWorthSnapshot{{Date: today, NetWorth: value.InexactFloat64()}}
	}

	last := history[len(history)-1]
	if sameCents(last.NetWorth, value) {
		return history
	}

	snapshot := models.NetWorthSnapshot{Date: today, NetWorth: value.InexactFloat64()}
	if last.Date == today {
		out := append([]models.NetWorthSnapshot{}, history...)
		out[len(out)-1] = snapshot
		return out
	}
	out := make([]models.NetWorthSnapshot, len(history), len(history)+1)
	copy(out, history)
	return append(out, snapshot)
}

func sameCents(recorded float64, value decimal.Decimal) bool {
	return decimal.NewFromFloat(recorded).Round(2).Equal(value)
}
