/*
buckets.go - Day-of-week and shift-type breakdown tables

PURPOSE:

	Buckets daily rollups by weekday and shift-level contributions by shift
	kind, producing the two breakdown tables of the period summary.

INDEPENDENT DENOMINATORS:

	Each average divides by the count of samples where THAT metric had data.
	A day missing its transaction count still contributes to the sales
	average; metrics never drag each other down. This is the property most
	easily lost in a rewrite, so both aggregators share one accumulator type
	that tracks a per-metric sample count.

DATE BUCKETING:

	Weekday comes from Date.Weekday(), which anchors to UTC noon (see
	date.go) so a DST or timezone shift can never move a day into the wrong
	bucket.
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// METRIC ACCUMULATOR - Independent per-metric denominators
// =============================================================================

// metricAvg accumulates one metric's sum and its own sample count.
type metricAvg struct {
	sum decimal.Decimal
	n   int
}

func (m *metricAvg) add(v decimal.Decimal) {
	m.sum = m.sum.Add(v)
	m.n++
}

// avg returns the mean, or nil when the metric never had a sample.
func (m *metricAvg) avg() *decimal.Decimal {
	if m.n == 0 {
		return nil
	}
	return DecimalPtr(m.sum.Div(decimal.NewFromInt(int64(m.n))))
}

// =============================================================================
// DAY-OF-WEEK BREAKDOWN
// =============================================================================

// WeekdayStats is one row of the day-of-week table. Every average is nil
// when no day in the bucket had that metric.
type WeekdayStats struct {
	Weekday time.Weekday

	AvgSalesCents   *decimal.Decimal
	AvgTransactions *decimal.Decimal
	AvgBasketSize   *decimal.Decimal
	AvgLaborHours   *decimal.Decimal
	AvgRPLH         *decimal.Decimal

	// DayCount is the number of rollup days in the bucket regardless of
	// which metrics they carried.
	DayCount int
}

// BuildWeekdayBreakdown buckets a store's rollups into all seven weekdays
// (Sunday first). Buckets with no days keep nil averages and a zero count.
func BuildWeekdayBreakdown(rollups []DailyRollup) []WeekdayStats {
	type acc struct {
		sales, txns, basket, labor, rplh metricAvg
		days                             int
	}
	var buckets [7]acc

	for _, r := range rollups {
		b := &buckets[int(r.Date.Weekday())]
		b.days++
		if r.SalesCents != nil {
			b.sales.add(r.SalesCents.Decimal())
		}
		if r.TxnCount != nil {
			b.txns.add(decimal.NewFromInt(int64(*r.TxnCount)))
		}
		if bs := r.BasketSize(); bs != nil {
			b.basket.add(*bs)
		}
		if !r.LaborHours.IsZero() {
			b.labor.add(r.LaborHours)
		}
		if v := r.RPLH(); v != nil {
			b.rplh.add(*v)
		}
	}

	out := make([]WeekdayStats, 7)
	for wd := 0; wd < 7; wd++ {
		b := &buckets[wd]
		out[wd] = WeekdayStats{
			Weekday:         time.Weekday(wd),
			AvgSalesCents:   b.sales.avg(),
			AvgTransactions: b.txns.avg(),
			AvgBasketSize:   b.basket.avg(),
			AvgLaborHours:   b.labor.avg(),
			AvgRPLH:         b.rplh.avg(),
			DayCount:        b.days,
		}
	}
	return out
}

// =============================================================================
// SHIFT-TYPE BREAKDOWN
// =============================================================================

// ShiftTypeStats is one row of the shift-type table, aggregated over
// shift-level contributions rather than whole days.
type ShiftTypeStats struct {
	Kind ShiftKind

	AvgSalesCents   *decimal.Decimal
	AvgTransactions *decimal.Decimal
	AvgBasketSize   *decimal.Decimal
	AvgLaborHours   *decimal.Decimal
	AvgRPLH         *decimal.Decimal

	ShiftCount int
}

// BuildShiftTypeBreakdown aggregates a store's shifts by kind, attributing
// register readings at shift scope via the shift-level reconstruction
// policy. salesByDay maps each business date to its SalesRecord.
func BuildShiftTypeBreakdown(cfg Config, shifts []ShiftRecord, salesByDay map[DayKey]SalesRecord) []ShiftTypeStats {
	type acc struct {
		sales, txns, basket, labor, rplh metricAvg
		count                            int
	}
	accs := make(map[ShiftKind]*acc, len(AllShiftKinds))
	for _, k := range AllShiftKinds {
		accs[k] = &acc{}
	}
	loc := cfg.Location()

	for _, sh := range shifts {
		kind := sh.Kind
		b, ok := accs[kind]
		if !ok {
			kind = ShiftOther
			b = accs[kind]
		}
		b.count++

		var hours decimal.Decimal
		if sh.EndedAt != nil {
			if h := sh.EndedAt.Sub(sh.PlannedStartAt).Hours(); h > 0 {
				hours = decimal.NewFromFloat(h)
			}
		}
		if sh.EndedAt != nil {
			b.labor.add(hours)
		}

		rec, ok := salesByDay[DayKey{StoreID: sh.StoreID, Date: BusinessDate(sh.PlannedStartAt, loc)}]
		if !ok {
			continue
		}

		sales := ReconstructShiftSales(kind, rec)
		txns := ReconstructShiftTransactions(kind, rec)

		if sales != nil {
			b.sales.add(sales.Decimal())
			if !hours.IsZero() {
				b.rplh.add(sales.Decimal().Div(hours))
			}
			if txns != nil {
				b.basket.add(sales.Decimal().Div(decimal.NewFromInt(int64(*txns))))
			}
		}
		if txns != nil {
			b.txns.add(decimal.NewFromInt(int64(*txns)))
		}
	}

	out := make([]ShiftTypeStats, 0, len(AllShiftKinds))
	for _, k := range AllShiftKinds {
		b := accs[k]
		out = append(out, ShiftTypeStats{
			Kind:            k,
			AvgSalesCents:   b.sales.avg(),
			AvgTransactions: b.txns.avg(),
			AvgBasketSize:   b.basket.avg(),
			AvgLaborHours:   b.labor.avg(),
			AvgRPLH:         b.rplh.avg(),
			ShiftCount:      b.count,
		})
	}
	return out
}
