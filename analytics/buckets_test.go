package analytics_test

import (
	"testing"
	"time"

	"github.com/keystone/store-analytics/analytics"
	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY-OF-WEEK BREAKDOWN
// =============================================================================

func TestBuildWeekdayBreakdown_IndependentDenominators(t *testing.T) {
	// GIVEN: two Saturdays with sales, only one of them with a transaction
	//        count (March 1 and March 8, 2025 are Saturdays)
	// THEN: avgSales divides by 2, avgTransactions divides by 1

	rollups := []analytics.DailyRollup{
		{StoreID: "s1", Date: march(1), SalesCents: analytics.CentsPtr(10000), TxnCount: analytics.IntPtr(50)},
		{StoreID: "s1", Date: march(8), SalesCents: analytics.CentsPtr(20000)},
	}

	rows := analytics.BuildWeekdayBreakdown(rollups)
	sat := rows[int(time.Saturday)]

	if sat.DayCount != 2 {
		t.Fatalf("expected 2 Saturday samples, got %d", sat.DayCount)
	}
	if sat.AvgSalesCents == nil || !sat.AvgSalesCents.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("avg sales: expected 15000 over 2 days, got %v", sat.AvgSalesCents)
	}
	if sat.AvgTransactions == nil || !sat.AvgTransactions.Equal(decimal.NewFromInt(50)) {
		t.Errorf("avg transactions: expected 50 over 1 day, got %v", sat.AvgTransactions)
	}
}

func TestBuildWeekdayBreakdown_AllSevenRowsAlwaysPresent(t *testing.T) {
	rows := analytics.BuildWeekdayBreakdown(nil)
	if len(rows) != 7 {
		t.Fatalf("expected 7 weekday rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.AvgSalesCents != nil || row.DayCount != 0 {
			t.Errorf("%v: expected an empty bucket", row.Weekday)
		}
	}
}

func TestBuildWeekdayBreakdown_BucketsByUTCNoonWeekday(t *testing.T) {
	// March 2, 2025 is a Sunday regardless of what timezone produced the
	// rollup date.
	rollups := []analytics.DailyRollup{
		{StoreID: "s1", Date: march(2), SalesCents: analytics.CentsPtr(7000)},
	}
	rows := analytics.BuildWeekdayBreakdown(rollups)
	if rows[int(time.Sunday)].DayCount != 1 {
		t.Error("expected the day in the Sunday bucket")
	}
}

// =============================================================================
// SHIFT-TYPE BREAKDOWN
// =============================================================================

func TestBuildShiftTypeBreakdown_AttributesReadingsPerKind(t *testing.T) {
	// GIVEN: an open and a close shift on a day with both register sides
	// THEN: the open row averages the AM figure, the close row the PM figure

	recDay := analytics.SalesRecord{
		StoreID:         "s1",
		BusinessDate:    march(3),
		OpenXCents:      analytics.CentsPtr(5000),
		RolloverInCents: analytics.CentsPtr(1000),
		CloseSalesCents: analytics.CentsPtr(3000),
		OpenTxnCount:    analytics.IntPtr(40),
		CloseTxnCount:   analytics.IntPtr(20),
	}
	salesByDay := map[analytics.DayKey]analytics.SalesRecord{
		{StoreID: "s1", Date: march(3)}: recDay,
	}
	shifts := []analytics.ShiftRecord{
		shiftAt("sh1", "s1", "e1", analytics.ShiftOpen, 3, 8),
		shiftAt("sh2", "s1", "e2", analytics.ShiftClose, 3, 8),
	}

	rows := analytics.BuildShiftTypeBreakdown(analytics.DefaultConfig(), shifts, salesByDay)
	byKind := make(map[analytics.ShiftKind]analytics.ShiftTypeStats)
	for _, row := range rows {
		byKind[row.Kind] = row
	}

	open := byKind[analytics.ShiftOpen]
	if open.AvgSalesCents == nil || !open.AvgSalesCents.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("open avg sales: expected 4000, got %v", open.AvgSalesCents)
	}
	if open.AvgTransactions == nil || !open.AvgTransactions.Equal(decimal.NewFromInt(40)) {
		t.Errorf("open avg transactions: expected 40, got %v", open.AvgTransactions)
	}

	clo := byKind[analytics.ShiftClose]
	if clo.AvgSalesCents == nil || !clo.AvgSalesCents.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("close avg sales: expected 3000, got %v", clo.AvgSalesCents)
	}
	if clo.AvgRPLH == nil || !approxEqual(*clo.AvgRPLH, decimal.NewFromFloat(375)) {
		t.Errorf("close avg RPLH: expected 375, got %v", clo.AvgRPLH)
	}
}

func TestBuildShiftTypeBreakdown_AllFourRowsAlwaysPresent(t *testing.T) {
	rows := analytics.BuildShiftTypeBreakdown(analytics.DefaultConfig(), nil, nil)
	if len(rows) != 4 {
		t.Fatalf("expected 4 shift-type rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.ShiftCount != 0 || row.AvgSalesCents != nil {
			t.Errorf("%s: expected an empty row", row.Kind)
		}
	}
}

func TestBuildShiftTypeBreakdown_UnknownKindFallsIntoOther(t *testing.T) {
	sh := shiftAt("sh1", "s1", "e1", analytics.ShiftKind("swing"), 3, 6)
	rows := analytics.BuildShiftTypeBreakdown(analytics.DefaultConfig(), []analytics.ShiftRecord{sh}, nil)
	for _, row := range rows {
		if row.Kind == analytics.ShiftOther && row.ShiftCount != 1 {
			t.Errorf("expected the unknown kind counted under 'other', got %d", row.ShiftCount)
		}
	}
}
