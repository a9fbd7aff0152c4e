/*
engine.go - Pipeline entry point and period comparison

PURPOSE:

	Run executes the whole pipeline over the requested window and, when a
	prior-window start date is supplied, runs it a second time over
	[previousFrom, currentFrom) to fill the per-store delta block.

COMPARISON SEMANTICS:

	Deltas are current minus previous for the five headline metrics. Either
	side being nil makes the delta nil. With no comparison window the deltas
	block is still present, every field nil - callers never need to
	distinguish "not compared" from "field omitted".

CONCURRENCY:

	Run is a pure function over its input snapshot. No state survives a
	call, so a single Engine may serve concurrent requests for different
	(store-set, window) pairs without locking.
*/
package analytics

import "github.com/shopspring/decimal"

// Run executes the pipeline and returns one summary per input store. The
// previous-period pipeline reuses the same input snapshot; the caller is
// responsible for materializing records covering both windows.
func (e *Engine) Run(in Input) []StorePeriodSummary {
	current := e.summarizeWindow(in, in.Window)

	if in.PreviousFrom == nil || !in.PreviousFrom.Before(in.Window.From) {
		return current
	}

	prevWindow := DateRange{From: *in.PreviousFrom, To: in.Window.From.AddDays(-1)}
	previous := e.summarizeWindow(in, prevWindow)

	prevByStore := make(map[string]StorePeriodSummary, len(previous))
	for _, p := range previous {
		prevByStore[p.StoreID] = p
	}

	for i := range current {
		if p, ok := prevByStore[current[i].StoreID]; ok {
			current[i].Previous = buildDeltas(current[i], p)
		}
	}
	return current
}

// buildDeltas computes current - previous for the headline metrics,
// propagating nil from either side.
func buildDeltas(cur, prev StorePeriodSummary) PreviousDeltas {
	d := PreviousDeltas{}

	if cur.GrossSalesCents != nil && prev.GrossSalesCents != nil {
		d.GrossSalesCents = DecimalPtr(cur.GrossSalesCents.Decimal().Sub(prev.GrossSalesCents.Decimal()))
	}
	d.AdjustedGrossSales = subDecimals(cur.AdjustedGrossSales, prev.AdjustedGrossSales)
	if cur.TotalTransactions != nil && prev.TotalTransactions != nil {
		d.Transactions = DecimalPtr(decimal.NewFromInt(int64(*cur.TotalTransactions - *prev.TotalTransactions)))
	}
	d.BasketSize = subDecimals(cur.BasketSize, prev.BasketSize)
	d.RPLH = subDecimals(cur.RPLH, prev.RPLH)

	return d
}

func subDecimals(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil || b == nil {
		return nil
	}
	return DecimalPtr(a.Sub(*b))
}
