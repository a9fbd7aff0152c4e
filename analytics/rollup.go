/*
rollup.go - Per-day merge of all record kinds

PURPOSE:

	Produces exactly one DailyRollup per (store, date) by merging register
	readings, safe closeouts, shift labor and shift weather samples. This is
	the grain every downstream component (trend, buckets, weather, summary)
	consumes.

MERGE RULES:

	Sales:   reconstructed day sales; when no register reading exists, fall
	         back to the sum of the date's closeout cash+card totals. The
	         closeout is a last-resort proxy only - it never overrides a
	         register reading.
	Labor:   sum of max(0, endedAt - plannedStartAt) in hours over ended
	         shifts on the date. Still-open shifts contribute nothing.
	Weather: the date keeps the FIRST shift's start observation; the end
	         observation is filled from the first shift that has one. This is
	         first-start/first-available-end, not latest-wins.

ORDERING:

	RollupSet preserves insertion order (first appearance in the input), so
	every downstream scan is deterministic regardless of map iteration order.
*/
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROLLUP SET - Insertion-ordered (store, date) -> rollup map
// =============================================================================

// RollupSet holds the merged rollups keyed by DayKey, iterable in a stable
// order.
type RollupSet struct {
	byKey map[DayKey]*DailyRollup
	keys  []DayKey
}

func newRollupSet() *RollupSet {
	return &RollupSet{byKey: make(map[DayKey]*DailyRollup)}
}

// get returns the rollup for the key, creating it on first touch.
func (rs *RollupSet) get(key DayKey) *DailyRollup {
	if r, ok := rs.byKey[key]; ok {
		return r
	}
	r := &DailyRollup{StoreID: key.StoreID, Date: key.Date}
	rs.byKey[key] = r
	rs.keys = append(rs.keys, key)
	return r
}

// Lookup returns the rollup for the key, or nil.
func (rs *RollupSet) Lookup(key DayKey) *DailyRollup { return rs.byKey[key] }

// Len returns the number of store-days present.
func (rs *RollupSet) Len() int { return len(rs.keys) }

// ForStore returns the store's rollups ordered by date ascending.
func (rs *RollupSet) ForStore(storeID string) []DailyRollup {
	var out []DailyRollup
	for _, key := range rs.keys {
		if key.StoreID == storeID {
			out = append(out, *rs.byKey[key])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// All returns every rollup in insertion order.
func (rs *RollupSet) All() []DailyRollup {
	out := make([]DailyRollup, 0, len(rs.keys))
	for _, key := range rs.keys {
		out = append(out, *rs.byKey[key])
	}
	return out
}

// =============================================================================
// ROLLUP BUILDER
// =============================================================================

// BuildRollups merges the window's records into one rollup per store-date.
// Records whose business date falls outside the window are ignored; the
// caller usually pre-filters, but the guard keeps the engine honest when it
// is handed a widened snapshot (e.g. one covering a comparison window).
func BuildRollups(cfg Config, window DateRange, shifts []ShiftRecord, sales []SalesRecord, closeouts []SafeCloseoutRecord) *RollupSet {
	rs := newRollupSet()
	loc := cfg.Location()

	// Register readings first: they are the authoritative sales source.
	for _, rec := range sales {
		if !window.Contains(rec.BusinessDate) {
			continue
		}
		r := rs.get(DayKey{StoreID: rec.StoreID, Date: rec.BusinessDate})
		if s := ReconstructDaySales(rec); s != nil {
			r.SalesCents = s
			r.SalesFromCloseout = false
		}
		if n := ReconstructTransactions(rec); n != nil {
			r.TxnCount = n
		}
	}

	// Closeouts: last-resort sales proxy for days with no register reading.
	for _, co := range closeouts {
		if !window.Contains(co.BusinessDate) {
			continue
		}
		r := rs.get(DayKey{StoreID: co.StoreID, Date: co.BusinessDate})
		if r.SalesCents == nil || r.SalesFromCloseout {
			proxy := co.CashCents + co.CardCents
			if r.SalesFromCloseout {
				proxy += *r.SalesCents
			}
			r.SalesCents = CentsPtr(proxy)
			r.SalesFromCloseout = true
		}
	}

	// Shifts: labor hours and weather samples.
	for _, sh := range shifts {
		date := BusinessDate(sh.PlannedStartAt, loc)
		if !window.Contains(date) {
			continue
		}
		r := rs.get(DayKey{StoreID: sh.StoreID, Date: date})

		if sh.EndedAt != nil {
			hours := sh.EndedAt.Sub(sh.PlannedStartAt).Hours()
			if hours > 0 {
				r.LaborHours = r.LaborHours.Add(decimal.NewFromFloat(hours))
			}
		}

		if r.StartWeather == nil && sh.StartWeather != nil {
			r.StartWeather = sh.StartWeather
		}
		if r.EndWeather == nil && sh.EndWeather != nil {
			r.EndWeather = sh.EndWeather
		}
	}

	return rs
}
