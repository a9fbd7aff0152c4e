/*
Package analytics provides the store performance aggregation engine.

PURPOSE:

	This package turns heterogeneous, partially-missing, hand-keyed operational
	records (shift clock events, register readings, safe-closeout cash counts,
	weather samples) into normalized, comparable per-store performance
	summaries over arbitrary date windows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Cents: Integer money, never floats
  - ShiftRecord / SalesRecord / SafeCloseoutRecord: Raw input snapshots
  - DailyRollup: One merged row per (store, date)
  - StorePeriodSummary: The full per-store output bundle

DESIGN PRINCIPLES:
 1. Absence is a value: every optional field is a pointer, and every
    derived rate/average is nil (never 0, never NaN) when its inputs are
    absent or its denominator is zero.
 2. Precision: derived fractional values use decimal.Decimal.
 3. Purity: the engine is stateless; inputs are read-only snapshots for a
    single computation and nothing is persisted.
 4. Determinism: identical inputs yield identical outputs; all grouping is
    insertion-ordered, never hash-map-iteration-ordered.

USAGE:

	eng := analytics.NewEngine(analytics.DefaultConfig())
	summaries := eng.Run(analytics.Input{
	    Window: analytics.DateRange{From: from, To: to},
	    Stores: stores, Employees: employees,
	    Shifts: shifts, Sales: sales, Closeouts: closeouts,
	})

SEE ALSO:
  - reconstruct.go: Sales reconstruction source-priority policy
  - rollup.go: Per-day merge of all record kinds
  - engine.go: Pipeline assembly and period comparison
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Integer cents, decimal for anything fractional
// =============================================================================

// Cents is a monetary amount in integer cents. Raw record money is always
// Cents; anything divided, averaged or scaled becomes a decimal.Decimal.
type Cents int64

// Decimal converts a cent amount to a decimal for derived math.
func (c Cents) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(c)) }

// =============================================================================
// NULLABLE HELPERS
// =============================================================================
// Hand-keyed operational data is full of holes. These helpers keep the
// pointer plumbing readable at call sites.

func CentsPtr(c Cents) *Cents                       { return &c }
func IntPtr(n int) *int                             { return &n }
func Float64Ptr(f float64) *float64                 { return &f }
func StringPtr(s string) *string                    { return &s }
func DecimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// centsOrZero treats an absent carry/rollover figure as zero. This is ONLY
// valid for adjustment fields (rollover in/out); primary readings must stay
// nil when absent.
func centsOrZero(c *Cents) Cents {
	if c == nil {
		return 0
	}
	return *c
}

// =============================================================================
// SHIFT RECORDS
// =============================================================================

// ShiftKind classifies a scheduled shift.
type ShiftKind string

const (
	ShiftOpen   ShiftKind = "open"
	ShiftClose  ShiftKind = "close"
	ShiftDouble ShiftKind = "double"
	ShiftOther  ShiftKind = "other"
)

// AllShiftKinds is the fixed breakdown order for shift-type tables.
var AllShiftKinds = []ShiftKind{ShiftOpen, ShiftClose, ShiftDouble, ShiftOther}

// WeatherObservation is a single hand-keyed weather sample taken at shift
// start or end. Any field may be missing independently.
type WeatherObservation struct {
	Condition   *string
	Description *string
	TempF       *float64
}

// ShiftRecord is a clock event for one employee at one store.
//
// A shift belongs to exactly one store and one calendar date, determined by
// converting PlannedStartAt to the business timezone (see BusinessDate).
// EndedAt is nil while the shift is still open; open shifts contribute zero
// labor hours to completed-period metrics.
//
// The data-access collaborator excludes soft-deleted shifts before these
// records reach the engine.
type ShiftRecord struct {
	ID             string
	StoreID        string
	EmployeeID     string
	Kind           ShiftKind
	PlannedStartAt time.Time
	EndedAt        *time.Time
	StartWeather   *WeatherObservation
	EndWeather     *WeatherObservation
}

// =============================================================================
// SALES RECORDS - Register readings, the primary sales source
// =============================================================================

// SalesRecord holds up to four register readings for one store business day.
//
// Reading semantics:
//
//	OpenXCents:     intraday (non-final) X-report taken at shift handover
//	CloseSalesCents: the PM-side closing sales figure
//	ZReportCents:   end-of-day final register total
//	RolloverInCents/RolloverOutCents: carry adjustments for rollover nights,
//	  where one day's closing sales legitimately spill into the next
//	  calendar day's register reading
//
// Any reading may be absent; reconstruction applies a fixed source-priority
// policy (see reconstruct.go). A reading of zero is a real reading, not
// absence.
type SalesRecord struct {
	StoreID      string
	BusinessDate Date
	OpenShiftID  *string
	CloseShiftID *string

	OpenXCents       *Cents
	CloseSalesCents  *Cents
	ZReportCents     *Cents
	RolloverInCents  *Cents
	RolloverOutCents *Cents
	IsRolloverNight  bool

	OpenTxnCount  *int
	CloseTxnCount *int
}

// =============================================================================
// SAFE CLOSEOUT RECORDS - Cash counts, fallback sales source
// =============================================================================

// SafeCloseoutRecord is an end-of-day safe count. It is the last-resort
// sales proxy (cash + card) when no register reading exists for a day, and
// the sole source of cash-handling risk metrics. Draft closeouts are
// excluded upstream.
type SafeCloseoutRecord struct {
	StoreID              string
	BusinessDate         Date
	Status               string
	CashCents            Cents
	CardCents            Cents
	ExpectedDepositCents Cents
	ActualDepositCents   Cents
	VarianceCents        Cents
}

// =============================================================================
// LABELING RECORDS
// =============================================================================

// StoreRecord and EmployeeRecord carry display names only; the engine never
// derives metrics from them.
type StoreRecord struct {
	ID   string
	Name string
}

type EmployeeRecord struct {
	ID   string
	Name string
}

// =============================================================================
// DAILY ROLLUP - One merged row per (store, date)
// =============================================================================

// DayKey identifies one store business day. A proper product type, never a
// concatenated string key.
type DayKey struct {
	StoreID string
	Date    Date
}

// DailyRollup merges sales, labor, transaction, closeout and weather data
// for one store-date. SalesCents carries the single reconstructed figure
// for the day; it is never double-counted across the day's shifts.
type DailyRollup struct {
	StoreID string
	Date    Date

	// Reconstructed gross sales; nil when no register reading and no
	// closeout exists. SalesFromCloseout marks the closeout fallback.
	SalesCents        *Cents
	SalesFromCloseout bool

	TxnCount   *int
	LaborHours decimal.Decimal

	StartWeather *WeatherObservation
	EndWeather   *WeatherObservation
}

// RPLH returns revenue per labor hour for the day, nil when sales are
// absent or no labor was recorded.
func (r DailyRollup) RPLH() *decimal.Decimal {
	if r.SalesCents == nil || r.LaborHours.IsZero() {
		return nil
	}
	return DecimalPtr(r.SalesCents.Decimal().Div(r.LaborHours))
}

// BasketSize returns average sales per transaction for the day, nil when
// either side is absent or the transaction count is zero.
func (r DailyRollup) BasketSize() *decimal.Decimal {
	if r.SalesCents == nil || r.TxnCount == nil || *r.TxnCount == 0 {
		return nil
	}
	return DecimalPtr(r.SalesCents.Decimal().Div(decimal.NewFromInt(int64(*r.TxnCount))))
}

// =============================================================================
// ENGINE INPUT
// =============================================================================

// Input is one fully materialized computation request. The collections are
// supplied already filtered (no soft-deleted shifts, no draft closeouts) and
// are treated as immutable for the duration of the run.
type Input struct {
	Window DateRange

	// PreviousFrom, when set, requests a comparison run over the window
	// [PreviousFrom, Window.From). Nil leaves every delta nil.
	PreviousFrom *Date

	Stores    []StoreRecord
	Employees []EmployeeRecord
	Shifts    []ShiftRecord
	Sales     []SalesRecord
	Closeouts []SafeCloseoutRecord
}
