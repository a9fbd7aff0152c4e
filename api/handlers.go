/*
handlers.go - HTTP API handlers for the store analytics service

PURPOSE:

	Exposes the ingestion and reporting surface via REST API. Handles HTTP
	request/response, JSON serialization, and delegates to the analytics
	engine and the sqlite store.

ENDPOINTS:

	Stores / Employees:
	  GET    /api/stores                 List stores
	  POST   /api/stores                 Register store
	  GET    /api/employees              List employees
	  POST   /api/employees              Register employee

	Operational records:
	  POST   /api/shifts                 Record a clock event
	  DELETE /api/shifts/{id}            Soft-delete a shift
	  POST   /api/sales                  Record register readings for a day
	  POST   /api/closeouts              Record a safe closeout

	Reports:
	  GET    /api/reports/summary        Per-store period summaries
	         ?from=YYYY-MM-DD&to=YYYY-MM-DD
	         [&previous_from=YYYY-MM-DD] [&store_id=...]

	Scenarios:
	  GET    /api/scenarios              List demo scenarios
	  GET    /api/scenarios/current      Currently loaded scenario
	  POST   /api/scenarios/load         Load a demo scenario
	  POST   /api/scenarios/reset        Wipe the database

REQUEST FLOW:
 1. Parse HTTP request
 2. Validate input
 3. Call store / engine
 4. Serialize response
 5. Handle errors

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Validation errors, invalid input
	- 404: Resource not found
	- 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keystone/store-analytics/analytics"
	"github.com/keystone/store-analytics/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *analytics.Engine

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and engine.
func NewHandler(store *sqlite.Store, engine *analytics.Engine) *Handler {
	return &Handler{Store: store, Engine: engine}
}

// =============================================================================
// STORE / EMPLOYEE HANDLERS
// =============================================================================

// ListStores returns all stores.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Store.ListStores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list stores", err)
		return
	}

	dtos := make([]StoreDTO, len(stores))
	for i, s := range stores {
		dtos[i] = StoreDTO{ID: s.ID, Name: s.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStore registers a store.
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	if err := h.Store.SaveStore(r.Context(), analytics.StoreRecord{ID: req.ID, Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create store", err)
		return
	}
	writeJSON(w, http.StatusCreated, StoreDTO{ID: req.ID, Name: req.Name})
}

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{ID: e.ID, Name: e.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee registers an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	if err := h.Store.SaveEmployee(r.Context(), analytics.EmployeeRecord{ID: req.ID, Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, EmployeeDTO{ID: req.ID, Name: req.Name})
}

// =============================================================================
// OPERATIONAL RECORD HANDLERS
// =============================================================================

// CreateShift records a clock event.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.StoreID == "" || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "id, store_id and employee_id are required", nil)
		return
	}

	start, err := parseRFC3339(req.PlannedStartAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid planned_start_at (use RFC3339)", err)
		return
	}

	shift := analytics.ShiftRecord{
		ID:             req.ID,
		StoreID:        req.StoreID,
		EmployeeID:     req.EmployeeID,
		Kind:           shiftKind(req.Kind),
		PlannedStartAt: start,
		StartWeather:   toWeather(req.StartWeather),
		EndWeather:     toWeather(req.EndWeather),
	}
	if req.EndedAt != nil {
		end, err := parseRFC3339(*req.EndedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid ended_at (use RFC3339)", err)
			return
		}
		shift.EndedAt = &end
	}

	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": shift.ID, "status": "saved"})
}

// DeleteShift soft-deletes a shift. The row remains for audit; the shift
// simply stops contributing to reports.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.SoftDeleteShift(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete shift", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "deleted"})
}

// SaveSalesRecord records the register readings for one store business day.
// Posting again for the same store and day replaces the readings.
func (h *Handler) SaveSalesRecord(w http.ResponseWriter, r *http.Request) {
	var req SaveSalesRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StoreID == "" {
		writeError(w, http.StatusBadRequest, "store_id is required", nil)
		return
	}
	date, err := analytics.ParseDate(req.BusinessDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid business_date (use YYYY-MM-DD)", err)
		return
	}

	rec := analytics.SalesRecord{
		StoreID:          req.StoreID,
		BusinessDate:     date,
		OpenShiftID:      req.OpenShiftID,
		CloseShiftID:     req.CloseShiftID,
		OpenXCents:       centsFromInt64Ptr(req.OpenXCents),
		CloseSalesCents:  centsFromInt64Ptr(req.CloseSalesCents),
		ZReportCents:     centsFromInt64Ptr(req.ZReportCents),
		RolloverInCents:  centsFromInt64Ptr(req.RolloverInCents),
		RolloverOutCents: centsFromInt64Ptr(req.RolloverOutCents),
		IsRolloverNight:  req.IsRolloverNight,
		OpenTxnCount:     req.OpenTxnCount,
		CloseTxnCount:    req.CloseTxnCount,
	}

	if err := h.Store.SaveSalesRecord(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sales record", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"store_id":      rec.StoreID,
		"business_date": rec.BusinessDate.String(),
		"status":        "saved",
	})
}

// SaveCloseout records an end-of-day safe count. Multiple closeouts per
// day are allowed; drafts are stored but excluded from reports.
func (h *Handler) SaveCloseout(w http.ResponseWriter, r *http.Request) {
	var req SaveCloseoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StoreID == "" {
		writeError(w, http.StatusBadRequest, "store_id is required", nil)
		return
	}
	date, err := analytics.ParseDate(req.BusinessDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid business_date (use YYYY-MM-DD)", err)
		return
	}

	co := analytics.SafeCloseoutRecord{
		StoreID:              req.StoreID,
		BusinessDate:         date,
		Status:               req.Status,
		CashCents:            analytics.Cents(req.CashCents),
		CardCents:            analytics.Cents(req.CardCents),
		ExpectedDepositCents: analytics.Cents(req.ExpectedDepositCents),
		ActualDepositCents:   analytics.Cents(req.ActualDepositCents),
		VarianceCents:        analytics.Cents(req.VarianceCents),
	}

	if err := h.Store.SaveCloseout(r.Context(), co); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save closeout", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"store_id":      co.StoreID,
		"business_date": co.BusinessDate.String(),
		"status":        "saved",
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetSummary runs the engine over a window and returns per-store summaries.
// GET /api/reports/summary?from=&to=[&previous_from=][&store_id=]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := analytics.ParseDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing from (use YYYY-MM-DD)", err)
		return
	}
	to, err := analytics.ParseDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing to (use YYYY-MM-DD)", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not precede from", nil)
		return
	}

	var previousFrom *analytics.Date
	if s := q.Get("previous_from"); s != "" {
		pf, err := analytics.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid previous_from (use YYYY-MM-DD)", err)
			return
		}
		previousFrom = &pf
	}

	// Snapshot the widest needed window so the comparison run sees its
	// records too.
	snapFrom := from
	if previousFrom != nil && previousFrom.Before(from) {
		snapFrom = *previousFrom
	}
	snap, err := h.Store.Snapshot(r.Context(), snapFrom, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	stores := snap.Stores
	if storeID := q.Get("store_id"); storeID != "" {
		stores = nil
		for _, s := range snap.Stores {
			if s.ID == storeID {
				stores = []analytics.StoreRecord{s}
				break
			}
		}
		if stores == nil {
			writeError(w, http.StatusNotFound, "Store not found", nil)
			return
		}
	}

	summaries := h.Engine.Run(analytics.Input{
		Window:       analytics.DateRange{From: from, To: to},
		PreviousFrom: previousFrom,
		Stores:       stores,
		Employees:    snap.Employees,
		Shifts:       snap.Shifts,
		Sales:        snap.Sales,
		Closeouts:    snap.Closeouts,
	})

	dtos := make([]StoreSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"summaries": dtos})
}

// =============================================================================
// HELPERS
// =============================================================================

// shiftKind maps free-text kinds onto the fixed classification; anything
// unrecognized lands in the "other" bucket rather than erroring.
func shiftKind(s string) analytics.ShiftKind {
	switch analytics.ShiftKind(s) {
	case analytics.ShiftOpen, analytics.ShiftClose, analytics.ShiftDouble:
		return analytics.ShiftKind(s)
	default:
		return analytics.ShiftOther
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
