package analytics_test

import (
	"testing"

	"github.com/keystone/store-analytics/analytics"
	"github.com/shopspring/decimal"
)

func trendFor(sales ...analytics.Cents) []analytics.DailyTrendPoint {
	rollups := make([]analytics.DailyRollup, len(sales))
	for i, s := range sales {
		rollups[i] = analytics.DailyRollup{
			StoreID:    "s1",
			Date:       march(i + 1),
			SalesCents: analytics.CentsPtr(s),
		}
	}
	return analytics.BuildDailyTrend(analytics.DefaultConfig(), rollups, decimal.NewFromInt(1))
}

// =============================================================================
// ROLLING WINDOW
// =============================================================================

func TestBuildDailyTrend_FirstDayRollingEqualsOwnValue(t *testing.T) {
	// GIVEN: any series
	// THEN: the first day's rolling average is its own value (window of 1)

	trend := trendFor(10000, 20000)
	if trend[0].Rolling7 == nil || !trend[0].Rolling7.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("first-day rolling: expected 10000, got %v", trend[0].Rolling7)
	}
	if !trend[1].Rolling7.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("second-day rolling: expected 15000, got %v", trend[1].Rolling7)
	}
}

func TestBuildDailyTrend_WindowCapsAtSevenPresentDays(t *testing.T) {
	// GIVEN: nine days of sales at 1000..9000
	// THEN: day 9's rolling average covers days 3..9 only

	trend := trendFor(1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000)
	last := trend[8].Rolling7
	if last == nil || !last.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("expected trailing-7 average 6000, got %v", last)
	}
}

func TestBuildDailyTrend_NoSalesDay_SkippedNotZeroPadded(t *testing.T) {
	// GIVEN: a labor-only day between two sales days
	// THEN: its rolling average is nil and it does not pull the next day's
	//       window down with a phantom zero

	rollups := []analytics.DailyRollup{
		{StoreID: "s1", Date: march(1), SalesCents: analytics.CentsPtr(10000)},
		{StoreID: "s1", Date: march(2), LaborHours: decimal.NewFromInt(8)},
		{StoreID: "s1", Date: march(3), SalesCents: analytics.CentsPtr(20000)},
	}
	trend := analytics.BuildDailyTrend(analytics.DefaultConfig(), rollups, decimal.NewFromInt(1))

	if trend[1].Rolling7 != nil {
		t.Errorf("sales-less day: expected nil rolling average, got %v", trend[1].Rolling7)
	}
	if !trend[2].Rolling7.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("day 3 rolling: expected 15000 over present days, got %v", trend[2].Rolling7)
	}
}

func TestBuildDailyTrend_RatesNilOnZeroDenominators(t *testing.T) {
	rollups := []analytics.DailyRollup{
		{StoreID: "s1", Date: march(1), SalesCents: analytics.CentsPtr(12000), TxnCount: analytics.IntPtr(0)},
	}
	trend := analytics.BuildDailyTrend(analytics.DefaultConfig(), rollups, decimal.NewFromInt(1))

	if trend[0].RPLH != nil {
		t.Errorf("expected nil RPLH with zero labor hours, got %v", trend[0].RPLH)
	}
	if trend[0].BasketSize != nil {
		t.Errorf("expected nil basket size with zero transactions, got %v", trend[0].BasketSize)
	}
}

// =============================================================================
// VOLATILITY
// =============================================================================

func TestBuildVolatility_SinglePointSeries(t *testing.T) {
	// GIVEN: exactly one day of data
	// THEN: sigma = 0, swings nil

	vol := analytics.BuildVolatility(trendFor(10000))

	if vol.SampleDays != 1 {
		t.Fatalf("expected 1 sample day, got %d", vol.SampleDays)
	}
	if vol.StdDevDailySalesCents == nil || !vol.StdDevDailySalesCents.IsZero() {
		t.Errorf("expected sigma 0, got %v", vol.StdDevDailySalesCents)
	}
	if vol.LargestIncreaseCents != nil || vol.LargestDecreaseCents != nil {
		t.Error("expected nil swings on a single-point series")
	}
}

func TestBuildVolatility_PopulationStdDevAndBands(t *testing.T) {
	// GIVEN: sales [2000, 4000, 6000]; mu=4000, population sigma=1632.99...
	// THEN: one day strictly below mu-sigma, one strictly above mu+sigma

	vol := analytics.BuildVolatility(trendFor(2000, 4000, 6000))

	if vol.MeanDailySalesCents == nil || !vol.MeanDailySalesCents.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("expected mean 4000, got %v", vol.MeanDailySalesCents)
	}
	if vol.StdDevDailySalesCents == nil || !approxEqual(*vol.StdDevDailySalesCents, decimal.NewFromFloat(1632.9932)) {
		t.Errorf("expected population sigma ~1632.99, got %v", vol.StdDevDailySalesCents)
	}
	if vol.DaysBelowBand != 1 || vol.DaysAboveBand != 1 {
		t.Errorf("expected 1 day below and 1 above the band, got %d / %d", vol.DaysBelowBand, vol.DaysAboveBand)
	}
}

func TestBuildVolatility_Swings(t *testing.T) {
	// GIVEN: [10000, 14000, 9000]; deltas +4000, -5000
	vol := analytics.BuildVolatility(trendFor(10000, 14000, 9000))

	if vol.LargestIncreaseCents == nil || *vol.LargestIncreaseCents != 4000 {
		t.Errorf("expected largest increase 4000, got %v", vol.LargestIncreaseCents)
	}
	if vol.LargestDecreaseCents == nil || *vol.LargestDecreaseCents != -5000 {
		t.Errorf("expected largest decrease -5000, got %v", vol.LargestDecreaseCents)
	}
}

func TestBuildVolatility_NoData(t *testing.T) {
	vol := analytics.BuildVolatility(nil)
	if vol.MeanDailySalesCents != nil || vol.StdDevDailySalesCents != nil || vol.CoefficientOfVariation != nil {
		t.Error("expected an all-nil volatility block with no data")
	}
}
