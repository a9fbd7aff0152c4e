/*
reconstruct.go - Single-source-of-truth sales reconstruction

PURPOSE:

	Derives ONE gross-sales figure per store-day (and per shift kind) from up
	to four conflicting, frequently-absent register readings, applying a fixed
	source-priority policy. This is the root of every downstream metric.

SOURCE-PRIORITY POLICY (day level):

 1. AM figure (openX - rolloverIn) AND PM figure (closeSales) both present:
    sum them, plus the rollover-out carry on rollover nights.

 2. AM figure absent but a Z-report exists: zReport - rolloverIn rebuilds
    the full-day figure from the end-of-day aggregate, plus rollover-out.

 3. Otherwise fall back to whichever single figure is present
    (PM, then AM, then Z - rolloverIn).

 4. Nothing present: the day has no sales data (nil, never 0).

    The step-2 fallback fires only when the AM reading is MISSING, not when it
    is zero. That distinction is deliberate register semantics, not a bug: a
    recorded zero X-report is a real reading.

KEY INSIGHT:

	Absent rollover adjustments are treated as zero (an adjustment of nothing)
	while absent primary readings stay nil (no data). Collapsing the two is
	the classic porting mistake this module exists to avoid.

SEE ALSO:
  - rollup.go: Applies day-level reconstruction and the closeout fallback
  - buckets.go / performers.go: Apply shift-level reconstruction
*/
package analytics

// =============================================================================
// DAY-LEVEL RECONSTRUCTION
// =============================================================================

// ReconstructDaySales derives the single gross-sales figure for a store
// business day, or nil when no register reading exists.
func ReconstructDaySales(rec SalesRecord) *Cents {
	am := amFigure(rec)
	pm := rec.CloseSalesCents
	carry := rolloverCarry(rec)

	// 1. Both sides read: sum plus carry.
	if am != nil && pm != nil {
		return CentsPtr(*am + *pm + carry)
	}

	// 2. AM missing, Z-report present: rebuild the full day from the
	// end-of-day aggregate.
	if am == nil && rec.ZReportCents != nil {
		return CentsPtr(*rec.ZReportCents - centsOrZero(rec.RolloverInCents) + carry)
	}

	// 3. Single-figure fallbacks.
	if pm != nil {
		return CentsPtr(*pm + carry)
	}
	if am != nil {
		return CentsPtr(*am + carry)
	}
	if rec.ZReportCents != nil {
		return CentsPtr(*rec.ZReportCents - centsOrZero(rec.RolloverInCents) + carry)
	}

	// 4. No sales data for the day.
	return nil
}

// ReconstructTransactions sums the open and close transaction counts for a
// day. A zero total means "no data", not zero sales activity, and yields
// nil.
func ReconstructTransactions(rec SalesRecord) *int {
	if rec.OpenTxnCount == nil && rec.CloseTxnCount == nil {
		return nil
	}
	total := 0
	if rec.OpenTxnCount != nil {
		total += *rec.OpenTxnCount
	}
	if rec.CloseTxnCount != nil {
		total += *rec.CloseTxnCount
	}
	if total == 0 {
		return nil
	}
	return IntPtr(total)
}

// =============================================================================
// SHIFT-LEVEL RECONSTRUCTION
// =============================================================================

// ReconstructShiftSales mirrors the day-level policy scoped to one shift
// kind:
//
//	open:         the AM figure only
//	close/double: the PM figure, falling back to Z - openX when the PM
//	              reading is absent; plus the rollover-out carry on
//	              rollover nights
//	other:        no register reading is attributable (nil)
func ReconstructShiftSales(kind ShiftKind, rec SalesRecord) *Cents {
	switch kind {
	case ShiftOpen:
		return amFigure(rec)

	case ShiftClose, ShiftDouble:
		carry := rolloverCarry(rec)
		if rec.CloseSalesCents != nil {
			return CentsPtr(*rec.CloseSalesCents + carry)
		}
		if rec.ZReportCents != nil && rec.OpenXCents != nil {
			return CentsPtr(*rec.ZReportCents - *rec.OpenXCents + carry)
		}
		return nil

	default:
		return nil
	}
}

// ReconstructShiftTransactions attributes a transaction count to one shift
// kind: the opening count for open shifts, the closing count for close and
// double shifts. A zero count is "no data".
func ReconstructShiftTransactions(kind ShiftKind, rec SalesRecord) *int {
	var n *int
	switch kind {
	case ShiftOpen:
		n = rec.OpenTxnCount
	case ShiftClose, ShiftDouble:
		n = rec.CloseTxnCount
	}
	if n == nil || *n == 0 {
		return nil
	}
	return IntPtr(*n)
}

// =============================================================================
// READING HELPERS
// =============================================================================

// amFigure is the AM-side sales figure: the opening X-report net of the
// prior day's rollover carry-in. Nil when the X-report was never taken.
func amFigure(rec SalesRecord) *Cents {
	if rec.OpenXCents == nil {
		return nil
	}
	return CentsPtr(*rec.OpenXCents - centsOrZero(rec.RolloverInCents))
}

// rolloverCarry is the carry-out adjustment, applied only on flagged
// rollover nights.
func rolloverCarry(rec SalesRecord) Cents {
	if !rec.IsRolloverNight {
		return 0
	}
	return centsOrZero(rec.RolloverOutCents)
}
