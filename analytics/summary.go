/*
summary.go - Per-store period summary assembly

PURPOSE:

	Runs every component over one window and assembles the full
	StorePeriodSummary per store: totals, normalized values, breakdown
	tables, volatility, weather, cash blocks, data integrity and top
	performers. This is the sole boundary artifact the reporting layer
	consumes - a plain, serializable value object with no behavior.

PIPELINE (per window):

	rollups -> store totals -> scaling factors
	        -> per store: trend, volatility, weather, weekday table,
	           shift-type table, performer ranking, cash blocks

	The components after the rollup stage are independent of each other; the
	order below is just assembly order.
*/
package analytics

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SUMMARY BLOCKS
// =============================================================================

// DaySales labels a best/worst day.
type DaySales struct {
	Date       Date
	SalesCents Cents
}

// ShiftTypeAverage labels the best shift type by average sales.
type ShiftTypeAverage struct {
	Kind          ShiftKind
	AvgSalesCents decimal.Decimal
}

// CashMix describes the tender split from closeouts.
type CashMix struct {
	// CashPct and CardPct are percentages of counted tender; nil when no
	// closeout recorded any tender.
	CashPct *decimal.Decimal
	CardPct *decimal.Decimal

	DepositVarianceCents Cents
	CloseoutDayCount     int
}

// CashRisk is the cash-handling risk block, sourced solely from closeouts.
type CashRisk struct {
	CloseoutCount        int
	TotalVarianceCents   Cents
	MeanAbsVarianceCents *decimal.Decimal
	ShortageDays         int
	OverageDays          int
	LargestShortageCents *Cents
	LargestOverageCents  *Cents
}

// DataIntegrity counts coverage gaps against the expected calendar range.
type DataIntegrity struct {
	ExpectedDays int

	DaysWithSales         int
	DaysWithTransactions  int
	DaysWithLabor         int
	DaysWithCloseout      int
	SalesDaysFromCloseout int

	MissingSalesDays    int
	MissingLaborDays    int
	MissingCloseoutDays int
}

// PreviousDeltas is the current-minus-previous comparison block. The block
// is always present on a summary; without a comparison window every field
// stays nil.
type PreviousDeltas struct {
	GrossSalesCents    *decimal.Decimal
	AdjustedGrossSales *decimal.Decimal
	Transactions       *decimal.Decimal
	BasketSize         *decimal.Decimal
	RPLH               *decimal.Decimal
}

// StorePeriodSummary is the complete per-store output bundle for one
// requested window.
type StorePeriodSummary struct {
	StoreID   string
	StoreName string
	Window    DateRange

	// Sales
	GrossSalesCents    *Cents
	AdjustedGrossSales *decimal.Decimal
	ScalingFactor      decimal.Decimal

	// Transactions
	TotalTransactions    *int
	AdjustedTransactions *decimal.Decimal
	BasketSize           *decimal.Decimal
	AdjustedBasketSize   *decimal.Decimal

	// Labor
	TotalLaborHours decimal.Decimal
	RPLH            *decimal.Decimal
	AdjustedRPLH    *decimal.Decimal

	CashMix  CashMix
	CashRisk CashRisk
	Weather  WeatherSummary

	BestDay       *DaySales
	WorstDay      *DaySales
	BestShiftType *ShiftTypeAverage

	Trend      []DailyTrendPoint
	Weekdays   []WeekdayStats
	ShiftTypes []ShiftTypeStats
	Volatility VolatilitySummary

	Integrity  DataIntegrity
	Performers TopPerformers

	Previous PreviousDeltas
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the aggregation pipeline. It holds only configuration; every
// Run is independent, so one Engine is safe to share across goroutines.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine with the given tuning config.
func NewEngine(cfg Config) *Engine {
	if cfg.RollingWindowDays <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's tuning config.
func (e *Engine) Config() Config { return e.cfg }

// summarizeWindow runs the full per-window pipeline and returns one
// summary per input store, in input-store order.
func (e *Engine) summarizeWindow(in Input, window DateRange) []StorePeriodSummary {
	cfg := e.cfg

	rollups := BuildRollups(cfg, window, in.Shifts, in.Sales, in.Closeouts)

	// Register readings by store-day, for shift-scoped reconstruction.
	salesByDay := make(map[DayKey]SalesRecord, len(in.Sales))
	for _, rec := range in.Sales {
		if window.Contains(rec.BusinessDate) {
			salesByDay[DayKey{StoreID: rec.StoreID, Date: rec.BusinessDate}] = rec
		}
	}

	names := make(map[string]string, len(in.Employees))
	for _, emp := range in.Employees {
		names[emp.ID] = emp.Name
	}

	// Store totals feed the normalizer; stores iterate in input order so
	// factor computation is deterministic.
	totals := make([]StoreTotal, 0, len(in.Stores))
	for _, st := range in.Stores {
		var total Cents
		for _, r := range rollups.ForStore(st.ID) {
			if r.SalesCents != nil {
				total += *r.SalesCents
			}
		}
		totals = append(totals, StoreTotal{StoreID: st.ID, SalesCents: total})
	}
	factors := ComputeScalingFactors(totals)

	summaries := make([]StorePeriodSummary, 0, len(in.Stores))
	for _, st := range in.Stores {
		summaries = append(summaries, e.summarizeStore(st, window, in, rollups, salesByDay, names, factors[st.ID]))
	}
	return summaries
}

// summarizeStore assembles one store's summary.
func (e *Engine) summarizeStore(
	st StoreRecord,
	window DateRange,
	in Input,
	rollups *RollupSet,
	salesByDay map[DayKey]SalesRecord,
	names map[string]string,
	factor decimal.Decimal,
) StorePeriodSummary {
	cfg := e.cfg
	loc := cfg.Location()

	storeRollups := rollups.ForStore(st.ID)

	// Shifts belonging to this store and window, in clock order.
	var storeShifts []ShiftRecord
	for _, sh := range in.Shifts {
		if sh.StoreID == st.ID && window.Contains(BusinessDate(sh.PlannedStartAt, loc)) {
			storeShifts = append(storeShifts, sh)
		}
	}

	trend := BuildDailyTrend(cfg, storeRollups, factor)
	vol := BuildVolatility(trend)

	sum := StorePeriodSummary{
		StoreID:       st.ID,
		StoreName:     st.Name,
		Window:        window,
		ScalingFactor: factor,
		Trend:         trend,
		Volatility:    vol,
		Weekdays:      BuildWeekdayBreakdown(storeRollups),
		ShiftTypes:    BuildShiftTypeBreakdown(cfg, storeShifts, salesByDay),
		Weather:       SummarizeWeather(cfg, storeRollups, vol),
		Performers:    RankPerformers(AccumulateEmployeeStats(cfg, storeShifts, salesByDay, names)),
	}

	// Headline totals. Every divided metric goes nil, not zero, when its
	// denominator has no data.
	var (
		grossSales Cents
		hasSales   bool
		totalTxns  int
		hasTxns    bool
	)
	for _, r := range storeRollups {
		if r.SalesCents != nil {
			grossSales += *r.SalesCents
			hasSales = true
		}
		if r.TxnCount != nil {
			totalTxns += *r.TxnCount
			hasTxns = true
		}
		sum.TotalLaborHours = sum.TotalLaborHours.Add(r.LaborHours)
	}

	if hasSales {
		sum.GrossSalesCents = CentsPtr(grossSales)
		sum.AdjustedGrossSales = DecimalPtr(grossSales.Decimal().Mul(factor))
		if !sum.TotalLaborHours.IsZero() {
			rplh := grossSales.Decimal().Div(sum.TotalLaborHours)
			sum.RPLH = DecimalPtr(rplh)
			sum.AdjustedRPLH = DecimalPtr(rplh.Mul(factor))
		}
	}
	if hasTxns {
		sum.TotalTransactions = IntPtr(totalTxns)
		sum.AdjustedTransactions = DecimalPtr(decimal.NewFromInt(int64(totalTxns)).Mul(factor))
		if hasSales && totalTxns > 0 {
			basket := grossSales.Decimal().Div(decimal.NewFromInt(int64(totalTxns)))
			sum.BasketSize = DecimalPtr(basket)
			sum.AdjustedBasketSize = DecimalPtr(basket.Mul(factor))
		}
	}

	sum.BestDay, sum.WorstDay = bestAndWorstDay(storeRollups)
	sum.BestShiftType = bestShiftType(sum.ShiftTypes)

	sum.CashMix, sum.CashRisk = summarizeCloseouts(window, st.ID, in.Closeouts)
	sum.Integrity = buildIntegrity(window, storeRollups, sum.CashMix.CloseoutDayCount)

	return sum
}

// =============================================================================
// ASSEMBLY HELPERS
// =============================================================================

func bestAndWorstDay(rollups []DailyRollup) (best, worst *DaySales) {
	for _, r := range rollups {
		if r.SalesCents == nil {
			continue
		}
		if best == nil || *r.SalesCents > best.SalesCents {
			best = &DaySales{Date: r.Date, SalesCents: *r.SalesCents}
		}
		if worst == nil || *r.SalesCents < worst.SalesCents {
			worst = &DaySales{Date: r.Date, SalesCents: *r.SalesCents}
		}
	}
	return best, worst
}

func bestShiftType(rows []ShiftTypeStats) *ShiftTypeAverage {
	var best *ShiftTypeAverage
	for _, row := range rows {
		if row.AvgSalesCents == nil {
			continue
		}
		if best == nil || row.AvgSalesCents.GreaterThan(best.AvgSalesCents) {
			best = &ShiftTypeAverage{Kind: row.Kind, AvgSalesCents: *row.AvgSalesCents}
		}
	}
	return best
}

// summarizeCloseouts builds the cash mix and cash risk blocks from the
// store's in-window closeouts.
func summarizeCloseouts(window DateRange, storeID string, closeouts []SafeCloseoutRecord) (CashMix, CashRisk) {
	var (
		mix    CashMix
		risk   CashRisk
		cash   Cents
		card   Cents
		absSum decimal.Decimal
		dates  = make(map[Date]bool)
	)

	for _, co := range closeouts {
		if co.StoreID != storeID || !window.Contains(co.BusinessDate) {
			continue
		}
		risk.CloseoutCount++
		dates[co.BusinessDate] = true

		cash += co.CashCents
		card += co.CardCents
		mix.DepositVarianceCents += co.VarianceCents

		risk.TotalVarianceCents += co.VarianceCents
		v := co.VarianceCents
		if v < 0 {
			risk.ShortageDays++
			if risk.LargestShortageCents == nil || v < *risk.LargestShortageCents {
				risk.LargestShortageCents = CentsPtr(v)
			}
			absSum = absSum.Add(Cents(-v).Decimal())
		} else if v > 0 {
			risk.OverageDays++
			if risk.LargestOverageCents == nil || v > *risk.LargestOverageCents {
				risk.LargestOverageCents = CentsPtr(v)
			}
			absSum = absSum.Add(v.Decimal())
		}
	}

	mix.CloseoutDayCount = len(dates)
	if tender := cash + card; tender > 0 {
		mix.CashPct = DecimalPtr(cash.Decimal().Div(tender.Decimal()).Mul(decimalHundred))
		mix.CardPct = DecimalPtr(card.Decimal().Div(tender.Decimal()).Mul(decimalHundred))
	}
	if risk.CloseoutCount > 0 {
		risk.MeanAbsVarianceCents = DecimalPtr(absSum.Div(decimal.NewFromInt(int64(risk.CloseoutCount))))
	}
	return mix, risk
}

// buildIntegrity counts data coverage against the expected calendar range.
func buildIntegrity(window DateRange, rollups []DailyRollup, closeoutDays int) DataIntegrity {
	di := DataIntegrity{ExpectedDays: window.DayCount(), DaysWithCloseout: closeoutDays}
	for _, r := range rollups {
		if r.SalesCents != nil {
			di.DaysWithSales++
			if r.SalesFromCloseout {
				di.SalesDaysFromCloseout++
			}
		}
		if r.TxnCount != nil {
			di.DaysWithTransactions++
		}
		if !r.LaborHours.IsZero() {
			di.DaysWithLabor++
		}
	}
	di.MissingSalesDays = di.ExpectedDays - di.DaysWithSales
	di.MissingLaborDays = di.ExpectedDays - di.DaysWithLabor
	di.MissingCloseoutDays = di.ExpectedDays - di.DaysWithCloseout
	return di
}
