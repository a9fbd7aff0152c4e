/*
trend.go - Daily trend series and volatility statistics

PURPOSE:

	Builds the day-ordered time series for one store (raw and normalized
	sales, trailing rolling average, RPLH, basket size) and the dispersion
	summary over the whole series.

SPARSE-SERIES RULES:

	The series contains only days that actually have a rollup; the rolling
	window runs over the current day and up to N-1 PRECEDING PRESENT days
	with sales data. The window shrinks at the start of the series - the
	first day's rolling average is its own value. No zero padding, ever.

VOLATILITY:

	Population standard deviation (sqrt(mean((x-u)^2)), no Bessel
	correction) over days with sales data. Coefficient of variation is
	sigma/mu*100 (nil when mu is 0). Band counts are STRICT: days below
	u-sigma and above u+sigma. Day-over-day swings need at least 2 sales
	days, otherwise nil. A single-point series has sigma 0 and nil swings.
*/
package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAILY TREND
// =============================================================================

// DailyTrendPoint is one day of a store's trend series.
type DailyTrendPoint struct {
	Date Date

	SalesCents    *Cents
	AdjustedSales *decimal.Decimal

	// Rolling7 is the trailing rolling average of raw sales over the
	// current day and up to six preceding days with sales data. Nil on
	// days with no sales figure of their own.
	Rolling7 *decimal.Decimal

	TxnCount   *int
	LaborHours decimal.Decimal
	RPLH       *decimal.Decimal
	BasketSize *decimal.Decimal
}

// BuildDailyTrend converts a store's date-ordered rollups into trend
// points, applying the store's scaling factor to the adjusted series.
func BuildDailyTrend(cfg Config, rollups []DailyRollup, factor decimal.Decimal) []DailyTrendPoint {
	span := cfg.RollingWindowDays
	if span <= 0 {
		span = 1
	}

	points := make([]DailyTrendPoint, 0, len(rollups))

	// salesWindow holds the raw sales of preceding present days, most
	// recent last.
	var salesWindow []decimal.Decimal

	for _, r := range rollups {
		p := DailyTrendPoint{
			Date:       r.Date,
			SalesCents: r.SalesCents,
			TxnCount:   r.TxnCount,
			LaborHours: r.LaborHours,
			RPLH:       r.RPLH(),
			BasketSize: r.BasketSize(),
		}

		if r.SalesCents != nil {
			raw := r.SalesCents.Decimal()
			p.AdjustedSales = DecimalPtr(raw.Mul(factor))

			salesWindow = append(salesWindow, raw)
			if len(salesWindow) > span {
				salesWindow = salesWindow[len(salesWindow)-span:]
			}
			sum := decimal.Zero
			for _, v := range salesWindow {
				sum = sum.Add(v)
			}
			p.Rolling7 = DecimalPtr(sum.Div(decimal.NewFromInt(int64(len(salesWindow)))))
		}

		points = append(points, p)
	}
	return points
}

// =============================================================================
// VOLATILITY
// =============================================================================

// VolatilitySummary describes the dispersion of a store's daily sales over
// the window.
type VolatilitySummary struct {
	// SampleDays is how many days had a sales figure.
	SampleDays int

	MeanDailySalesCents   *decimal.Decimal
	StdDevDailySalesCents *decimal.Decimal

	// CoefficientOfVariation is sigma/mu*100; nil when the mean is zero or
	// there is no data.
	CoefficientOfVariation *decimal.Decimal

	// Days strictly outside one standard deviation of the mean.
	DaysBelowBand int
	DaysAboveBand int

	// Largest single day-over-day movement between consecutive sales days.
	// Nil with fewer than two days of data.
	LargestIncreaseCents *Cents
	LargestDecreaseCents *Cents
}

// BuildVolatility summarizes the dispersion of the trend's raw sales
// series.
func BuildVolatility(trend []DailyTrendPoint) VolatilitySummary {
	var sales []Cents
	for _, p := range trend {
		if p.SalesCents != nil {
			sales = append(sales, *p.SalesCents)
		}
	}

	out := VolatilitySummary{SampleDays: len(sales)}
	if len(sales) == 0 {
		return out
	}

	// Mean and population standard deviation.
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.Decimal())
	}
	n := decimal.NewFromInt(int64(len(sales)))
	mean := sum.Div(n)

	sqSum := decimal.Zero
	for _, s := range sales {
		d := s.Decimal().Sub(mean)
		sqSum = sqSum.Add(d.Mul(d))
	}
	variance, _ := sqSum.Div(n).Float64()
	sigma := decimal.NewFromFloat(math.Sqrt(variance))

	out.MeanDailySalesCents = DecimalPtr(mean)
	out.StdDevDailySalesCents = DecimalPtr(sigma)

	if !mean.IsZero() {
		out.CoefficientOfVariation = DecimalPtr(sigma.Div(mean).Mul(decimal.NewFromInt(100)))
	}

	lower := mean.Sub(sigma)
	upper := mean.Add(sigma)
	for _, s := range sales {
		d := s.Decimal()
		if d.LessThan(lower) {
			out.DaysBelowBand++
		}
		if d.GreaterThan(upper) {
			out.DaysAboveBand++
		}
	}

	if len(sales) >= 2 {
		inc := sales[1] - sales[0]
		dec := inc
		for i := 2; i < len(sales); i++ {
			delta := sales[i] - sales[i-1]
			if delta > inc {
				inc = delta
			}
			if delta < dec {
				dec = delta
			}
		}
		out.LargestIncreaseCents = CentsPtr(inc)
		out.LargestDecreaseCents = CentsPtr(dec)
	}

	return out
}
