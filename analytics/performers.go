/*
performers.go - Employee accumulation and top-performer selection

PURPOSE:

	Aggregates shift-level contributions per employee, then picks a single
	top performer independently for each of six metrics: three volume (total
	sales, total transactions, total labor hours) and three efficiency (RPLH,
	transactions per labor hour, basket size).

DETERMINISM:

	Candidates are kept in first-appearance order (chronological, since the
	shift list arrives in clock order) and selection is a linear scan keeping
	only STRICTLY greater values - ties go to the earlier candidate. A metric
	where nobody has a positive value gets no winner (nil), never an
	arbitrary pick.

BASKET-SIZE SKEW:

	Basket size uses sales accumulated ONLY on days that also had transaction
	data. Without that split, an employee working many count-less days would
	show an inflated basket.
*/
package analytics

import "github.com/shopspring/decimal"

// =============================================================================
// PER-EMPLOYEE ACCUMULATION
// =============================================================================

// EmployeeStats is one employee's accumulated contribution over the window.
type EmployeeStats struct {
	EmployeeID string
	Name       string

	ShiftCount      int
	TotalSalesCents Cents
	// SalesWithTxnDataCents is the sales total restricted to shifts whose
	// day carried a transaction count; the basket-size denominator pairs
	// with this, not with TotalSalesCents.
	SalesWithTxnDataCents Cents
	TotalTransactions     int
	TotalLaborHours       decimal.Decimal
}

// RPLH is the employee's revenue per labor hour, nil without labor.
func (e EmployeeStats) RPLH() *decimal.Decimal {
	if e.TotalLaborHours.IsZero() {
		return nil
	}
	return DecimalPtr(e.TotalSalesCents.Decimal().Div(e.TotalLaborHours))
}

// TxnPerLaborHour is transactions per labor hour, nil without labor.
func (e EmployeeStats) TxnPerLaborHour() *decimal.Decimal {
	if e.TotalLaborHours.IsZero() {
		return nil
	}
	return DecimalPtr(decimal.NewFromInt(int64(e.TotalTransactions)).Div(e.TotalLaborHours))
}

// BasketSize is average sales per transaction, nil without transaction
// data.
func (e EmployeeStats) BasketSize() *decimal.Decimal {
	if e.TotalTransactions == 0 {
		return nil
	}
	return DecimalPtr(e.SalesWithTxnDataCents.Decimal().Div(decimal.NewFromInt(int64(e.TotalTransactions))))
}

// AccumulateEmployeeStats folds shift-level contributions per employee,
// preserving first-appearance order. salesByDay maps business dates to
// their SalesRecord; names resolves employee display names.
func AccumulateEmployeeStats(cfg Config, shifts []ShiftRecord, salesByDay map[DayKey]SalesRecord, names map[string]string) []EmployeeStats {
	byID := make(map[string]*EmployeeStats)
	var order []string
	loc := cfg.Location()

	for _, sh := range shifts {
		st, ok := byID[sh.EmployeeID]
		if !ok {
			st = &EmployeeStats{EmployeeID: sh.EmployeeID, Name: names[sh.EmployeeID]}
			byID[sh.EmployeeID] = st
			order = append(order, sh.EmployeeID)
		}
		st.ShiftCount++

		if sh.EndedAt != nil {
			if h := sh.EndedAt.Sub(sh.PlannedStartAt).Hours(); h > 0 {
				st.TotalLaborHours = st.TotalLaborHours.Add(decimal.NewFromFloat(h))
			}
		}

		rec, ok := salesByDay[DayKey{StoreID: sh.StoreID, Date: BusinessDate(sh.PlannedStartAt, loc)}]
		if !ok {
			continue
		}
		sales := ReconstructShiftSales(sh.Kind, rec)
		txns := ReconstructShiftTransactions(sh.Kind, rec)
		if sales != nil {
			st.TotalSalesCents += *sales
			if txns != nil {
				st.SalesWithTxnDataCents += *sales
			}
		}
		if txns != nil {
			st.TotalTransactions += *txns
		}
	}

	out := make([]EmployeeStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// =============================================================================
// TOP-1 SELECTION
// =============================================================================

// PerformerMetric names one ranking dimension.
type PerformerMetric string

const (
	MetricTotalSales        PerformerMetric = "total_sales"
	MetricTotalTransactions PerformerMetric = "total_transactions"
	MetricTotalLaborHours   PerformerMetric = "total_labor_hours"
	MetricRPLH              PerformerMetric = "rplh"
	MetricTxnPerLaborHour   PerformerMetric = "txn_per_labor_hour"
	MetricBasketSize        PerformerMetric = "basket_size"
)

// TopPerformer is the winner of one metric.
type TopPerformer struct {
	EmployeeID string
	Name       string
	Value      decimal.Decimal
}

// TopPerformers holds the six independent winners; any of them may be nil
// when no employee has a positive value for that metric.
type TopPerformers struct {
	TotalSales        *TopPerformer
	TotalTransactions *TopPerformer
	TotalLaborHours   *TopPerformer
	RPLH              *TopPerformer
	TxnPerLaborHour   *TopPerformer
	BasketSize        *TopPerformer
}

// RankPerformers selects the top employee per metric from accumulated
// stats. The input order is the tie-break order.
func RankPerformers(stats []EmployeeStats) TopPerformers {
	pick := func(value func(EmployeeStats) *decimal.Decimal) *TopPerformer {
		var best *TopPerformer
		for _, st := range stats {
			v := value(st)
			if v == nil || !v.IsPositive() {
				continue
			}
			if best == nil || v.GreaterThan(best.Value) {
				best = &TopPerformer{EmployeeID: st.EmployeeID, Name: st.Name, Value: *v}
			}
		}
		return best
	}

	return TopPerformers{
		TotalSales: pick(func(st EmployeeStats) *decimal.Decimal {
			return DecimalPtr(st.TotalSalesCents.Decimal())
		}),
		TotalTransactions: pick(func(st EmployeeStats) *decimal.Decimal {
			return DecimalPtr(decimal.NewFromInt(int64(st.TotalTransactions)))
		}),
		TotalLaborHours: pick(func(st EmployeeStats) *decimal.Decimal {
			return DecimalPtr(st.TotalLaborHours)
		}),
		RPLH:            pick(EmployeeStats.RPLH),
		TxnPerLaborHour: pick(EmployeeStats.TxnPerLaborHour),
		BasketSize:      pick(EmployeeStats.BasketSize),
	}
}
