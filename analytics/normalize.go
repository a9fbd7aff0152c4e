/*
normalize.go - Cross-store sales normalization

PURPOSE:

	Stores differ wildly in volume; comparing their raw dollars is unfair.
	Each store gets a scaling factor such that applying it to any of the
	store's dollar metrics yields a value "as if" that store did the average
	network volume.

ALGORITHM:

	networkAvg = mean of window totals over stores with strictly positive
	totals. factor(s) = networkAvg / total(s) when total(s) > 0, else exactly
	1 (no distortion, and the store is excluded from the average other stores
	are measured against).

SCOPE:

	Adjusted values exist purely for cross-store comparison. They are never
	financial reporting figures.
*/
package analytics

import "github.com/shopspring/decimal"

// StoreTotal pairs a store with its total reconstructed sales over the
// window. The slice order is the deterministic iteration order.
type StoreTotal struct {
	StoreID    string
	SalesCents Cents
}

// ComputeScalingFactors derives the per-store normalization factor from
// window sales totals. Every input store gets a factor; stores with zero
// measured sales get exactly 1.
func ComputeScalingFactors(totals []StoreTotal) map[string]decimal.Decimal {
	factors := make(map[string]decimal.Decimal, len(totals))

	sum := decimal.Zero
	positive := 0
	for _, st := range totals {
		if st.SalesCents > 0 {
			sum = sum.Add(st.SalesCents.Decimal())
			positive++
		}
	}

	if positive == 0 {
		for _, st := range totals {
			factors[st.StoreID] = decimal.NewFromInt(1)
		}
		return factors
	}

	networkAvg := sum.Div(decimal.NewFromInt(int64(positive)))
	for _, st := range totals {
		if st.SalesCents > 0 {
			factors[st.StoreID] = networkAvg.Div(st.SalesCents.Decimal())
		} else {
			factors[st.StoreID] = decimal.NewFromInt(1)
		}
	}
	return factors
}
