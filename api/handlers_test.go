/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Record ingestion endpoints (shifts, sales, closeouts)
- Summary report endpoint, including nullability and store filtering
- Scenario loading
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keystone/store-analytics/analytics"
	"github.com/keystone/store-analytics/store/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, analytics.NewEngine(analytics.DefaultConfig()))
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestIngestAndSummarize(t *testing.T) {
	// GIVEN: A store, an employee, a shift and a register reading
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/stores", CreateStoreRequest{ID: "downtown", Name: "Downtown"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/employees", CreateEmployeeRequest{ID: "emp-1", Name: "Ada"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/shifts", CreateShiftRequest{
		ID: "sh-1", StoreID: "downtown", EmployeeID: "emp-1",
		Kind:           "close",
		PlannedStartAt: "2025-03-03T14:00:00Z",
		EndedAt:        analytics.StringPtr("2025-03-03T22:00:00Z"),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 for shift, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	pm := int64(120_00)
	txns := 40
	resp = postJSON(t, srv.URL+"/api/sales", SaveSalesRecordRequest{
		StoreID:         "downtown",
		BusinessDate:    "2025-03-03",
		CloseShiftID:    analytics.StringPtr("sh-1"),
		CloseSalesCents: &pm,
		CloseTxnCount:   &txns,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 for sales record, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// WHEN: Requesting the summary for that window
	resp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-03&to=2025-03-03")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, resp, &body)

	// THEN: One summary with the reconstructed figures
	if len(body.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(body.Summaries))
	}
	sum := body.Summaries[0]
	if sum.GrossSalesCents == nil || *sum.GrossSalesCents != 120_00 {
		t.Errorf("Expected gross sales 12000, got %v", sum.GrossSalesCents)
	}
	if sum.TotalTransactions == nil || *sum.TotalTransactions != 40 {
		t.Errorf("Expected 40 transactions, got %v", sum.TotalTransactions)
	}
	if sum.TotalLaborHours != 8 {
		t.Errorf("Expected 8 labor hours, got %v", sum.TotalLaborHours)
	}
	if sum.RPLH == nil || *sum.RPLH != 1500 {
		t.Errorf("Expected RPLH 1500 cents/hour, got %v", sum.RPLH)
	}
	// Single store: scaling factor must be exactly 1.
	if sum.ScalingFactor != 1 {
		t.Errorf("Expected scaling factor 1, got %v", sum.ScalingFactor)
	}
}

func TestSummaryNullsWithoutData(t *testing.T) {
	// GIVEN: A store with no operational records at all
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/stores", CreateStoreRequest{ID: "empty", Name: "Empty"})
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-01&to=2025-03-07")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}

	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, resp, &body)

	if len(body.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(body.Summaries))
	}
	sum := body.Summaries[0]

	// THEN: Absent data serializes as null, never zero
	if sum.GrossSalesCents != nil {
		t.Errorf("Expected null gross sales, got %v", *sum.GrossSalesCents)
	}
	if sum.RPLH != nil {
		t.Errorf("Expected null RPLH, got %v", *sum.RPLH)
	}
	if sum.BasketSize != nil {
		t.Errorf("Expected null basket size, got %v", *sum.BasketSize)
	}
	if sum.Previous.GrossSalesCents != nil {
		t.Errorf("Expected null previous delta without previous_from")
	}
	if sum.Integrity.ExpectedDays != 7 {
		t.Errorf("Expected 7 expected days, got %d", sum.Integrity.ExpectedDays)
	}
	if sum.Integrity.MissingSalesDays != 7 {
		t.Errorf("Expected 7 missing sales days, got %d", sum.Integrity.MissingSalesDays)
	}
	if len(sum.Weekdays) != 7 {
		t.Errorf("Expected all 7 weekday rows, got %d", len(sum.Weekdays))
	}
	if len(sum.ShiftTypes) != 4 {
		t.Errorf("Expected all 4 shift-type rows, got %d", len(sum.ShiftTypes))
	}
}

func TestSummaryValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"missing from", "?to=2025-03-07", http.StatusBadRequest},
		{"missing to", "?from=2025-03-01", http.StatusBadRequest},
		{"inverted window", "?from=2025-03-07&to=2025-03-01", http.StatusBadRequest},
		{"bad date format", "?from=03/01/2025&to=2025-03-07", http.StatusBadRequest},
		{"unknown store", "?from=2025-03-01&to=2025-03-07&store_id=nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/reports/summary" + tc.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestSummaryPreviousWindow(t *testing.T) {
	// GIVEN: Two adjacent weeks where the second doubles the first
	srv, h := newTestServer(t)
	ctx := context.Background()

	if err := h.Store.SaveStore(ctx, analytics.StoreRecord{ID: "s1", Name: "One"}); err != nil {
		t.Fatal(err)
	}
	for day := 1; day <= 14; day++ {
		sales := int64(100_00)
		if day > 7 {
			sales = 200_00
		}
		err := h.Store.SaveSalesRecord(ctx, analytics.SalesRecord{
			StoreID:      "s1",
			BusinessDate: analytics.NewDate(2025, 3, day),
			ZReportCents: analytics.CentsPtr(analytics.Cents(sales)),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	// WHEN: Requesting the second week against the first
	resp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-08&to=2025-03-14&previous_from=2025-03-01")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}

	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, resp, &body)
	if len(body.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(body.Summaries))
	}

	// THEN: The sales delta is current minus previous
	delta := body.Summaries[0].Previous.GrossSalesCents
	if delta == nil {
		t.Fatal("Expected a previous-window sales delta")
	}
	if *delta != 700_00 {
		t.Errorf("Expected delta 70000, got %v", *delta)
	}
}

func TestSoftDeletedShiftLeavesReports(t *testing.T) {
	// GIVEN: One ended shift that then gets deleted
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/stores", CreateStoreRequest{ID: "s1", Name: "One"})
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/api/shifts", CreateShiftRequest{
		ID: "sh-1", StoreID: "s1", EmployeeID: "emp-1",
		Kind:           "open",
		PlannedStartAt: "2025-03-03T08:00:00Z",
		EndedAt:        analytics.StringPtr("2025-03-03T16:00:00Z"),
	})
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/shifts/sh-1", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", delResp.StatusCode)
	}

	// WHEN: Requesting the summary
	getResp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-03&to=2025-03-03")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, getResp, &body)

	// THEN: The deleted shift contributes no labor
	if body.Summaries[0].TotalLaborHours != 0 {
		t.Errorf("Expected 0 labor hours after delete, got %v", body.Summaries[0].TotalLaborHours)
	}
}

func TestScenarioLoadAndReport(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, name := range []string{"two-store-contrast", "rollover-week", "sparse-data"} {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{Name: name})
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected 200 loading %s, got %d", name, resp.StatusCode)
			}
			resp.Body.Close()

			getResp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-01&to=2025-03-14")
			if err != nil {
				t.Fatalf("GET summary failed: %v", err)
			}
			var body struct {
				Summaries []StoreSummaryDTO `json:"summaries"`
			}
			decodeBody(t, getResp, &body)
			if len(body.Summaries) == 0 {
				t.Fatalf("Expected summaries for scenario %s", name)
			}
			for _, sum := range body.Summaries {
				if sum.Integrity.ExpectedDays != 14 {
					t.Errorf("Expected 14 expected days, got %d", sum.Integrity.ExpectedDays)
				}
			}
		})
	}

	// Unknown scenario is rejected.
	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{Name: "nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scenario, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestTwoStoreContrastNormalization(t *testing.T) {
	// GIVEN: The contrast scenario with a 3x volume gap
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{Name: "two-store-contrast"})
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-01&to=2025-03-14")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, getResp, &body)
	if len(body.Summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(body.Summaries))
	}

	byID := map[string]StoreSummaryDTO{}
	for _, s := range body.Summaries {
		byID[s.StoreID] = s
	}
	downtown, airport := byID["downtown"], byID["airport"]

	// THEN: The smaller store scales up, the larger scales down, and the
	// adjusted totals land on the shared network average.
	if downtown.ScalingFactor >= 1 {
		t.Errorf("Expected downtown factor < 1, got %v", downtown.ScalingFactor)
	}
	if airport.ScalingFactor <= 1 {
		t.Errorf("Expected airport factor > 1, got %v", airport.ScalingFactor)
	}
	if downtown.AdjustedGrossSales == nil || airport.AdjustedGrossSales == nil {
		t.Fatal("Expected adjusted sales for both stores")
	}
	diff := *downtown.AdjustedGrossSales - *airport.AdjustedGrossSales
	if diff < -1 || diff > 1 {
		t.Errorf("Expected adjusted totals to converge, diff %v cents", diff)
	}
}

func TestStoreFilterQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{Name: "two-store-contrast"})
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-01&to=2025-03-14&store_id=airport")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, getResp, &body)

	if len(body.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(body.Summaries))
	}
	if got := body.Summaries[0].StoreID; got != "airport" {
		t.Errorf("Expected airport, got %s", got)
	}
	// Filtering to one store also narrows the normalization peer set.
	if body.Summaries[0].ScalingFactor != 1 {
		t.Errorf("Expected factor 1 for a single filtered store, got %v", body.Summaries[0].ScalingFactor)
	}
}

func TestScenarioListAndCurrent(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scenarios")
	if err != nil {
		t.Fatalf("GET scenarios failed: %v", err)
	}
	var list []ScenarioDTO
	decodeBody(t, resp, &list)
	if len(list) != 3 {
		t.Fatalf("Expected 3 scenarios, got %d", len(list))
	}

	loadResp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{Name: list[0].Name})
	loadResp.Body.Close()

	curResp, err := http.Get(srv.URL + "/api/scenarios/current")
	if err != nil {
		t.Fatalf("GET current failed: %v", err)
	}
	var cur ScenarioDTO
	decodeBody(t, curResp, &cur)
	if cur.Name != list[0].Name {
		t.Errorf("Expected current scenario %s, got %s", list[0].Name, cur.Name)
	}
}

func TestShiftValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	// Missing required IDs
	resp := postJSON(t, srv.URL+"/api/shifts", CreateShiftRequest{ID: "sh-1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Bad timestamp
	resp = postJSON(t, srv.URL+"/api/shifts", CreateShiftRequest{
		ID: "sh-1", StoreID: "s1", EmployeeID: "e1",
		Kind: "open", PlannedStartAt: "yesterday at noon",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad timestamp, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Unrecognized kind is accepted and bucketed as "other"
	resp = postJSON(t, srv.URL+"/api/shifts", CreateShiftRequest{
		ID: "sh-2", StoreID: "s1", EmployeeID: "e1",
		Kind: "graveyard", PlannedStartAt: "2025-03-03T02:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected 201 for unknown kind, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRolloverWeekScenarioCarries(t *testing.T) {
	// GIVEN: The rollover-week scenario
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{Name: "rollover-week"})
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/api/reports/summary?from=2025-03-01&to=2025-03-07")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	var body struct {
		Summaries []StoreSummaryDTO `json:"summaries"`
	}
	decodeBody(t, getResp, &body)
	if len(body.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(body.Summaries))
	}

	// THEN: Total sales match the per-day closes plus the rollover carries
	// on flagged nights: days 1,3,5,7 each gain 6000 back.
	var want int64
	for day := 1; day <= 7; day++ {
		want += 400_00 + int64(day)*10_00
		if day%2 == 1 {
			want += 60_00
		}
	}
	sum := body.Summaries[0]
	if sum.GrossSalesCents == nil {
		t.Fatal("Expected gross sales")
	}
	if *sum.GrossSalesCents != want {
		t.Errorf("Expected gross sales %d, got %d", want, *sum.GrossSalesCents)
	}
}
