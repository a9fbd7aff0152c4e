/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates stores, employees,
	shifts, register readings and closeouts that demonstrate specific
	engine behaviors.

AVAILABLE SCENARIOS:

	two-store-contrast: High- and low-volume stores; shows cross-store
	                    normalization and performer ranking
	rollover-week:      Overnight rollover nights with carry adjustments
	sparse-data:        Missing readings, closeout fallback, drafts and a
	                    soft-deleted shift

	Every scenario uses fixed dates in March 2025 so the same report query
	always reproduces the same numbers. Query with:
	  GET /api/reports/summary?from=2025-03-01&to=2025-03-14

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create stores and employees
 3. Record shifts with weather samples
 4. Record register readings and closeouts

USAGE VIA API:

	POST /api/scenarios/load
	{"name": "two-store-contrast"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Ingestion handlers the loaders mirror
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/keystone/store-analytics/analytics"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		Name:        "two-store-contrast",
		Description: "High- and low-volume stores over two weeks; demonstrates scaling factors and top performers",
	},
	{
		Name:        "rollover-week",
		Description: "A week with overnight rollover nights and carry adjustments",
	},
	{
		Name:        "sparse-data",
		Description: "Holes everywhere: missing readings, closeout fallback, draft closeouts, a soft-deleted shift",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.Name == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.Name {
	case "two-store-contrast":
		err = h.loadTwoStoreContrastScenario(ctx)
	case "rollover-week":
		err = h.loadRolloverWeekScenario(ctx)
	case "sparse-data":
		err = h.loadSparseDataScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.Name
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.Name})
}

// ResetDatabase wipes all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// scenarioDay returns the nth day of the fixed March 2025 demo window.
func scenarioDay(n int) analytics.Date {
	return analytics.NewDate(2025, time.March, n)
}

func (h *Handler) loadTwoStoreContrastScenario(ctx context.Context) error {
	if err := h.Store.SaveStore(ctx, analytics.StoreRecord{ID: "downtown", Name: "Downtown"}); err != nil {
		return err
	}
	if err := h.Store.SaveStore(ctx, analytics.StoreRecord{ID: "airport", Name: "Airport Kiosk"}); err != nil {
		return err
	}

	employees := []analytics.EmployeeRecord{
		{ID: "emp-ada", Name: "Ada Okafor"},
		{ID: "emp-ben", Name: "Ben Castillo"},
		{ID: "emp-cleo", Name: "Cleo Tran"},
		{ID: "emp-dev", Name: "Dev Raman"},
	}
	for _, e := range employees {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	// Two weeks of data. Downtown runs roughly 3x the airport kiosk's
	// volume, which is exactly the spread normalization exists for.
	for day := 1; day <= 14; day++ {
		date := scenarioDay(day)

		// Weekly shape: weekends spike, Mondays sag.
		shape := []int64{70, 100, 95, 90, 100, 130, 150}[date.Weekday()]
		downtownSales := 900_00 * shape / 100
		airportSales := 300_00 * shape / 100

		wx := &WeatherDTO{
			Condition: analytics.StringPtr("Clear"),
			TempF:     analytics.Float64Ptr(48 + float64(day)),
		}
		if day%5 == 0 {
			wx = &WeatherDTO{
				Condition: analytics.StringPtr("Rain"),
				TempF:     analytics.Float64Ptr(41),
			}
		}

		if err := h.saveScenarioDay(ctx, scenarioStoreDay{
			storeID: "downtown", date: date,
			openEmployee: "emp-ada", closeEmployee: "emp-ben",
			amCents: downtownSales * 45 / 100, totalCents: downtownSales,
			amTxns: int(shape / 4), pmTxns: int(shape / 3),
			cashCents: downtownSales * 30 / 100, cardCents: downtownSales * 70 / 100,
			varianceCents: []int64{0, -150, 0, 0, 80, 0, 0}[day%7],
			weather:       wx,
		}); err != nil {
			return err
		}

		if err := h.saveScenarioDay(ctx, scenarioStoreDay{
			storeID: "airport", date: date,
			openEmployee: "emp-cleo", closeEmployee: "emp-dev",
			amCents: airportSales * 55 / 100, totalCents: airportSales,
			amTxns: int(shape / 8), pmTxns: int(shape / 10),
			cashCents: airportSales * 15 / 100, cardCents: airportSales * 85 / 100,
			varianceCents: 0,
			weather:       wx,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadRolloverWeekScenario(ctx context.Context) error {
	if err := h.Store.SaveStore(ctx, analytics.StoreRecord{ID: "latenight", Name: "Late Night Diner"}); err != nil {
		return err
	}
	if err := h.Store.SaveEmployee(ctx, analytics.EmployeeRecord{ID: "emp-noa", Name: "Noa Lindqvist"}); err != nil {
		return err
	}

	// A week where every other night stays open past midnight, so part of
	// each rollover night's sales lands in the next day's register and has
	// to be carried back.
	for day := 1; day <= 7; day++ {
		date := scenarioDay(day)
		rollover := day%2 == 1

		start := time.Date(2025, time.March, day, 16, 0, 0, 0, time.UTC)
		end := start.Add(9 * time.Hour)
		if err := h.Store.SaveShift(ctx, analytics.ShiftRecord{
			ID:      fmt.Sprintf("ln-%02d", day),
			StoreID: "latenight", EmployeeID: "emp-noa",
			Kind: analytics.ShiftClose, PlannedStartAt: start, EndedAt: &end,
		}); err != nil {
			return err
		}

		rec := analytics.SalesRecord{
			StoreID:         "latenight",
			BusinessDate:    date,
			CloseShiftID:    analytics.StringPtr(fmt.Sprintf("ln-%02d", day)),
			CloseSalesCents: analytics.CentsPtr(analytics.Cents(400_00 + int64(day)*10_00)),
			IsRolloverNight: rollover,
			CloseTxnCount:   analytics.IntPtr(30 + day),
		}
		if rollover {
			rec.RolloverOutCents = analytics.CentsPtr(60_00)
		}
		if day > 1 && (day-1)%2 == 1 {
			// Previous night rolled into today's register.
			rec.RolloverInCents = analytics.CentsPtr(60_00)
		}
		if err := h.Store.SaveSalesRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadSparseDataScenario(ctx context.Context) error {
	if err := h.Store.SaveStore(ctx, analytics.StoreRecord{ID: "popup", Name: "Popup Stand"}); err != nil {
		return err
	}
	if err := h.Store.SaveEmployee(ctx, analytics.EmployeeRecord{ID: "emp-ira", Name: "Ira Meltzer"}); err != nil {
		return err
	}

	// Day 1: proper register reading.
	if err := h.Store.SaveSalesRecord(ctx, analytics.SalesRecord{
		StoreID: "popup", BusinessDate: scenarioDay(1),
		ZReportCents: analytics.CentsPtr(250_00),
	}); err != nil {
		return err
	}

	// Day 2: no reading at all; only a closeout, so sales fall back to
	// cash + card.
	if err := h.Store.SaveCloseout(ctx, analytics.SafeCloseoutRecord{
		StoreID: "popup", BusinessDate: scenarioDay(2),
		CashCents: 80_00, CardCents: 140_00, VarianceCents: -5_00,
	}); err != nil {
		return err
	}

	// Day 3: a draft closeout that must not count, plus the final one.
	if err := h.Store.SaveCloseout(ctx, analytics.SafeCloseoutRecord{
		StoreID: "popup", BusinessDate: scenarioDay(3), Status: "draft",
		CashCents: 999_00,
	}); err != nil {
		return err
	}
	if err := h.Store.SaveCloseout(ctx, analytics.SafeCloseoutRecord{
		StoreID: "popup", BusinessDate: scenarioDay(3),
		CashCents: 70_00, CardCents: 90_00,
	}); err != nil {
		return err
	}

	// Day 4: a shift that got entered twice; the duplicate is soft-deleted.
	start := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)
	if err := h.Store.SaveShift(ctx, analytics.ShiftRecord{
		ID: "pp-04", StoreID: "popup", EmployeeID: "emp-ira",
		Kind: analytics.ShiftOpen, PlannedStartAt: start, EndedAt: &end,
	}); err != nil {
		return err
	}
	if err := h.Store.SaveShift(ctx, analytics.ShiftRecord{
		ID: "pp-04-dup", StoreID: "popup", EmployeeID: "emp-ira",
		Kind: analytics.ShiftOpen, PlannedStartAt: start, EndedAt: &end,
	}); err != nil {
		return err
	}
	if err := h.Store.SoftDeleteShift(ctx, "pp-04-dup"); err != nil {
		return err
	}

	// Days 5-14 stay empty: the integrity block should report the gap.
	return nil
}

// =============================================================================
// LOADER HELPERS
// =============================================================================

// scenarioStoreDay bundles one store-day of demo records.
type scenarioStoreDay struct {
	storeID string
	date    analytics.Date

	openEmployee  string
	closeEmployee string

	amCents    int64
	totalCents int64
	amTxns     int
	pmTxns     int

	cashCents     int64
	cardCents     int64
	varianceCents int64

	weather *WeatherDTO
}

func (h *Handler) saveScenarioDay(ctx context.Context, d scenarioStoreDay) error {
	openID := fmt.Sprintf("%s-%s-open", d.storeID, d.date)
	closeID := fmt.Sprintf("%s-%s-close", d.storeID, d.date)

	openStart := time.Date(d.date.Year(), d.date.Month(), d.date.Day(), 8, 0, 0, 0, time.UTC)
	openEnd := openStart.Add(7 * time.Hour)
	closeStart := openStart.Add(6 * time.Hour)
	closeEnd := closeStart.Add(8 * time.Hour)

	if err := h.Store.SaveShift(ctx, analytics.ShiftRecord{
		ID: openID, StoreID: d.storeID, EmployeeID: d.openEmployee,
		Kind: analytics.ShiftOpen, PlannedStartAt: openStart, EndedAt: &openEnd,
		StartWeather: toWeather(d.weather),
	}); err != nil {
		return err
	}
	if err := h.Store.SaveShift(ctx, analytics.ShiftRecord{
		ID: closeID, StoreID: d.storeID, EmployeeID: d.closeEmployee,
		Kind: analytics.ShiftClose, PlannedStartAt: closeStart, EndedAt: &closeEnd,
		EndWeather: toWeather(d.weather),
	}); err != nil {
		return err
	}

	if err := h.Store.SaveSalesRecord(ctx, analytics.SalesRecord{
		StoreID:         d.storeID,
		BusinessDate:    d.date,
		OpenShiftID:     &openID,
		CloseShiftID:    &closeID,
		OpenXCents:      analytics.CentsPtr(analytics.Cents(d.amCents)),
		CloseSalesCents: analytics.CentsPtr(analytics.Cents(d.totalCents - d.amCents)),
		ZReportCents:    analytics.CentsPtr(analytics.Cents(d.totalCents)),
		OpenTxnCount:    analytics.IntPtr(d.amTxns),
		CloseTxnCount:   analytics.IntPtr(d.pmTxns),
	}); err != nil {
		return err
	}

	return h.Store.SaveCloseout(ctx, analytics.SafeCloseoutRecord{
		StoreID:       d.storeID,
		BusinessDate:  d.date,
		CashCents:     analytics.Cents(d.cashCents),
		CardCents:     analytics.Cents(d.cardCents),
		VarianceCents: analytics.Cents(d.varianceCents),
	})
}
