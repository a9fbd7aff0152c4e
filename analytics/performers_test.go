package analytics_test

import (
	"testing"

	"github.com/keystone/store-analytics/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsFor(shifts []analytics.ShiftRecord, sales []analytics.SalesRecord) []analytics.EmployeeStats {
	salesByDay := make(map[analytics.DayKey]analytics.SalesRecord)
	for _, rec := range sales {
		salesByDay[analytics.DayKey{StoreID: rec.StoreID, Date: rec.BusinessDate}] = rec
	}
	names := map[string]string{"e1": "Ada", "e2": "Grace", "e3": "Edsger"}
	return analytics.AccumulateEmployeeStats(analytics.DefaultConfig(), shifts, salesByDay, names)
}

// =============================================================================
// ACCUMULATION
// =============================================================================

func TestAccumulateEmployeeStats_FirstAppearanceOrder(t *testing.T) {
	shifts := []analytics.ShiftRecord{
		shiftAt("sh1", "s1", "e2", analytics.ShiftOpen, 1, 8),
		shiftAt("sh2", "s1", "e1", analytics.ShiftClose, 1, 8),
		shiftAt("sh3", "s1", "e2", analytics.ShiftClose, 2, 8),
	}

	stats := statsFor(shifts, nil)
	require.Len(t, stats, 2)
	assert.Equal(t, "e2", stats[0].EmployeeID, "first-seen employee comes first")
	assert.Equal(t, "e1", stats[1].EmployeeID)
	assert.Equal(t, 2, stats[0].ShiftCount)
}

func TestAccumulateEmployeeStats_BasketSalesRestrictedToTxnDays(t *testing.T) {
	// GIVEN: e1 closes on a day with a transaction count and on a day
	//        without one
	// THEN: TotalSales includes both days, SalesWithTxnData only the first,
	//       and the basket divides the restricted total

	withTxns := pmOnlySales("s1", 1, 10000)
	withTxns.CloseTxnCount = analytics.IntPtr(50)
	withoutTxns := pmOnlySales("s1", 2, 99000)

	shifts := []analytics.ShiftRecord{
		shiftAt("sh1", "s1", "e1", analytics.ShiftClose, 1, 8),
		shiftAt("sh2", "s1", "e1", analytics.ShiftClose, 2, 8),
	}

	stats := statsFor(shifts, []analytics.SalesRecord{withTxns, withoutTxns})
	require.Len(t, stats, 1)
	st := stats[0]

	assert.Equal(t, analytics.Cents(109000), st.TotalSalesCents)
	assert.Equal(t, analytics.Cents(10000), st.SalesWithTxnDataCents)
	assert.Equal(t, 50, st.TotalTransactions)

	basket := st.BasketSize()
	require.NotNil(t, basket)
	assert.True(t, basket.Equal(decimal.NewFromInt(200)), "basket = 10000/50, not 109000/50")
}

// =============================================================================
// TOP-1 SELECTION
// =============================================================================

func TestRankPerformers_TiesKeepEarlierCandidate(t *testing.T) {
	// GIVEN: two employees with identical totals
	// THEN: the first-seen employee wins every tied metric

	stats := []analytics.EmployeeStats{
		{EmployeeID: "e1", Name: "Ada", TotalSalesCents: 5000, TotalLaborHours: decimal.NewFromInt(8)},
		{EmployeeID: "e2", Name: "Grace", TotalSalesCents: 5000, TotalLaborHours: decimal.NewFromInt(8)},
	}

	top := analytics.RankPerformers(stats)
	require.NotNil(t, top.TotalSales)
	assert.Equal(t, "e1", top.TotalSales.EmployeeID)
	require.NotNil(t, top.RPLH)
	assert.Equal(t, "e1", top.RPLH.EmployeeID)
}

func TestRankPerformers_StrictlyGreaterWins(t *testing.T) {
	stats := []analytics.EmployeeStats{
		{EmployeeID: "e1", Name: "Ada", TotalSalesCents: 5000},
		{EmployeeID: "e2", Name: "Grace", TotalSalesCents: 5001},
	}
	top := analytics.RankPerformers(stats)
	require.NotNil(t, top.TotalSales)
	assert.Equal(t, "e2", top.TotalSales.EmployeeID)
}

func TestRankPerformers_NoPositiveValue_NoWinner(t *testing.T) {
	// GIVEN: employees with zero across the board
	// THEN: every metric has no winner (nil), never an arbitrary pick

	stats := []analytics.EmployeeStats{
		{EmployeeID: "e1", Name: "Ada"},
		{EmployeeID: "e2", Name: "Grace"},
	}

	top := analytics.RankPerformers(stats)
	assert.Nil(t, top.TotalSales)
	assert.Nil(t, top.TotalTransactions)
	assert.Nil(t, top.TotalLaborHours)
	assert.Nil(t, top.RPLH)
	assert.Nil(t, top.TxnPerLaborHour)
	assert.Nil(t, top.BasketSize)
}

func TestRankPerformers_MetricsIndependent(t *testing.T) {
	// GIVEN: e1 leads volume, e2 leads efficiency
	stats := []analytics.EmployeeStats{
		{EmployeeID: "e1", Name: "Ada", TotalSalesCents: 90000, TotalLaborHours: decimal.NewFromInt(40)},
		{EmployeeID: "e2", Name: "Grace", TotalSalesCents: 30000, TotalLaborHours: decimal.NewFromInt(10)},
	}

	top := analytics.RankPerformers(stats)
	require.NotNil(t, top.TotalSales)
	require.NotNil(t, top.RPLH)
	assert.Equal(t, "e1", top.TotalSales.EmployeeID, "volume leader")
	assert.Equal(t, "e2", top.RPLH.EmployeeID, "efficiency leader: 3000 vs 2250")
}
