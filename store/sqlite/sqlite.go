/*
Package sqlite provides the SQLite-backed data-access collaborator.

PURPOSE:

	Persists the raw operational records (shifts, register readings, safe
	closeouts, stores, employees) and serves the analytics engine
	already-filtered window snapshots. The engine itself never touches the
	database - it consumes the plain slices Snapshot returns.

FILTERING CONTRACT:

	The engine's input contract requires pre-filtered collections:
	- soft-deleted shifts are excluded (deleted = 0)
	- draft closeouts are excluded (status != 'draft')
	Both filters are applied here, at the query layer, so no caller can
	accidentally feed dirty records into a computation.

KEY TABLES:

	stores / employees:  Labeling records
	shifts:              Clock events with nullable weather observations
	sales_records:       Up to four register readings per store business day
	safe_closeouts:      End-of-day cash counts (several per day possible)

WINDOW WIDENING:

	Shifts are fetched with a one-day margin on either side of the requested
	window because a shift's BUSINESS date (derived in the business timezone)
	can differ from its UTC calendar date. The engine re-derives the business
	date and drops anything that lands outside the window.

WAL MODE:

	SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
	block, a single writer at a time, better crash recovery.

USAGE:

	st, err := sqlite.New("./data/storeops.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer st.Close()
	snap, err := st.Snapshot(ctx, from, to)

SEE ALSO:
  - analytics/types.go: The record types this package materializes
  - api/handlers.go: Ingestion endpoints writing through this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/keystone/store-analytics/analytics"
)

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at the given path. Use ":memory:"
// for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stores (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id                TEXT PRIMARY KEY,
		store_id          TEXT NOT NULL,
		employee_id       TEXT NOT NULL,
		kind              TEXT NOT NULL,
		planned_start_at  TEXT NOT NULL,
		ended_at          TEXT,
		deleted           INTEGER NOT NULL DEFAULT 0,
		start_condition   TEXT,
		start_description TEXT,
		start_temp_f      REAL,
		end_condition     TEXT,
		end_description   TEXT,
		end_temp_f        REAL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_store_start
		ON shifts(store_id, planned_start_at);
	CREATE INDEX IF NOT EXISTS idx_shifts_start
		ON shifts(planned_start_at) WHERE deleted = 0;

	-- One register-reading row per store business day.
	CREATE TABLE IF NOT EXISTS sales_records (
		store_id           TEXT NOT NULL,
		business_date      TEXT NOT NULL,
		open_shift_id      TEXT,
		close_shift_id     TEXT,
		open_x_cents       INTEGER,
		close_sales_cents  INTEGER,
		z_report_cents     INTEGER,
		rollover_in_cents  INTEGER,
		rollover_out_cents INTEGER,
		is_rollover_night  INTEGER NOT NULL DEFAULT 0,
		open_txn_count     INTEGER,
		close_txn_count    INTEGER,
		PRIMARY KEY (store_id, business_date)
	);

	CREATE INDEX IF NOT EXISTS idx_sales_date
		ON sales_records(business_date);

	-- Several closeouts per day are possible (recounts, split drawers).
	CREATE TABLE IF NOT EXISTS safe_closeouts (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id               TEXT NOT NULL,
		business_date          TEXT NOT NULL,
		status                 TEXT NOT NULL DEFAULT 'final',
		cash_cents             INTEGER NOT NULL DEFAULT 0,
		card_cents             INTEGER NOT NULL DEFAULT 0,
		expected_deposit_cents INTEGER NOT NULL DEFAULT 0,
		actual_deposit_cents   INTEGER NOT NULL DEFAULT 0,
		variance_cents         INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_closeouts_store_date
		ON safe_closeouts(store_id, business_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LABELING RECORDS
// =============================================================================

// SaveStore inserts or replaces a store.
func (s *Store) SaveStore(ctx context.Context, st analytics.StoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stores (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		st.ID, st.Name)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// ListStores returns all stores ordered by id.
func (s *Store) ListStores(ctx context.Context) ([]analytics.StoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM stores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var out []analytics.StoreRecord
	for rows.Next() {
		var st analytics.StoreRecord
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// SaveEmployee inserts or replaces an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp analytics.EmployeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		emp.ID, emp.Name)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// ListEmployees returns all employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]analytics.EmployeeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []analytics.EmployeeRecord
	for rows.Next() {
		var emp analytics.EmployeeRecord
		if err := rows.Scan(&emp.ID, &emp.Name); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// =============================================================================
// SHIFTS
// =============================================================================

// SaveShift inserts or replaces a shift.
func (s *Store) SaveShift(ctx context.Context, sh analytics.ShiftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endedAt sql.NullString
	if sh.EndedAt != nil {
		endedAt = sql.NullString{String: sh.EndedAt.UTC().Format(time.RFC3339), Valid: true}
	}
	sc, sd, st := weatherColumns(sh.StartWeather)
	ec, ed, et := weatherColumns(sh.EndWeather)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO shifts
		 (id, store_id, employee_id, kind, planned_start_at, ended_at, deleted,
		  start_condition, start_description, start_temp_f,
		  end_condition, end_description, end_temp_f)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.StoreID, sh.EmployeeID, string(sh.Kind),
		sh.PlannedStartAt.UTC().Format(time.RFC3339), endedAt,
		sc, sd, st, ec, ed, et)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// SoftDeleteShift marks a shift deleted without removing the row. Deleted
// shifts never appear in snapshots.
func (s *Store) SoftDeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `UPDATE shifts SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete shift: %w", err)
	}
	return nil
}

// =============================================================================
// SALES RECORDS
// =============================================================================

// SaveSalesRecord inserts or replaces the register readings for a store
// business day.
func (s *Store) SaveSalesRecord(ctx context.Context, rec analytics.SalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sales_records
		 (store_id, business_date, open_shift_id, close_shift_id,
		  open_x_cents, close_sales_cents, z_report_cents,
		  rollover_in_cents, rollover_out_cents, is_rollover_night,
		  open_txn_count, close_txn_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StoreID, rec.BusinessDate.String(),
		nullString(rec.OpenShiftID), nullString(rec.CloseShiftID),
		nullCents(rec.OpenXCents), nullCents(rec.CloseSalesCents),
		nullCents(rec.ZReportCents), nullCents(rec.RolloverInCents),
		nullCents(rec.RolloverOutCents), boolInt(rec.IsRolloverNight),
		nullInt(rec.OpenTxnCount), nullInt(rec.CloseTxnCount))
	if err != nil {
		return fmt.Errorf("failed to save sales record: %w", err)
	}
	return nil
}

// =============================================================================
// SAFE CLOSEOUTS
// =============================================================================

// SaveCloseout appends a safe closeout.
func (s *Store) SaveCloseout(ctx context.Context, co analytics.SafeCloseoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := co.Status
	if status == "" {
		status = "final"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO safe_closeouts
		 (store_id, business_date, status, cash_cents, card_cents,
		  expected_deposit_cents, actual_deposit_cents, variance_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		co.StoreID, co.BusinessDate.String(), status,
		int64(co.CashCents), int64(co.CardCents),
		int64(co.ExpectedDepositCents), int64(co.ActualDepositCents),
		int64(co.VarianceCents))
	if err != nil {
		return fmt.Errorf("failed to save closeout: %w", err)
	}
	return nil
}

// =============================================================================
// SNAPSHOT - The engine's materialized input
// =============================================================================

// Snapshot is one window's worth of pre-filtered records, ready to hand to
// the analytics engine.
type Snapshot struct {
	Stores    []analytics.StoreRecord
	Employees []analytics.EmployeeRecord
	Shifts    []analytics.ShiftRecord
	Sales     []analytics.SalesRecord
	Closeouts []analytics.SafeCloseoutRecord
}

// Snapshot materializes all records relevant to [from, to]. Soft-deleted
// shifts and draft closeouts never leave this method.
func (s *Store) Snapshot(ctx context.Context, from, to analytics.Date) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{}
	var err error

	if snap.Stores, err = s.ListStores(ctx); err != nil {
		return nil, err
	}
	if snap.Employees, err = s.ListEmployees(ctx); err != nil {
		return nil, err
	}
	if snap.Shifts, err = s.listShifts(ctx, from, to); err != nil {
		return nil, err
	}
	if snap.Sales, err = s.listSales(ctx, from, to); err != nil {
		return nil, err
	}
	if snap.Closeouts, err = s.listCloseouts(ctx, from, to); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) listShifts(ctx context.Context, from, to analytics.Date) ([]analytics.ShiftRecord, error) {
	// One-day margin: a shift's business date in the configured timezone
	// can land a day away from its UTC timestamp.
	lo := from.AddDays(-1).String()
	hi := to.AddDays(2).String() // exclusive upper bound

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, store_id, employee_id, kind, planned_start_at, ended_at,
		        start_condition, start_description, start_temp_f,
		        end_condition, end_description, end_temp_f
		 FROM shifts
		 WHERE deleted = 0 AND planned_start_at >= ? AND planned_start_at < ?
		 ORDER BY planned_start_at, id`,
		lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var out []analytics.ShiftRecord
	for rows.Next() {
		var (
			sh       analytics.ShiftRecord
			kind     string
			startStr string
			endedAt  sql.NullString
			sc, sd   sql.NullString
			ec, ed   sql.NullString
			st, et   sql.NullFloat64
		)
		if err := rows.Scan(&sh.ID, &sh.StoreID, &sh.EmployeeID, &kind,
			&startStr, &endedAt, &sc, &sd, &st, &ec, &ed, &et); err != nil {
			return nil, err
		}
		sh.Kind = analytics.ShiftKind(kind)

		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			// Malformed hand-keyed timestamp: exclude the row rather than
			// poison the whole snapshot.
			continue
		}
		sh.PlannedStartAt = start
		if endedAt.Valid {
			if end, err := time.Parse(time.RFC3339, endedAt.String); err == nil {
				sh.EndedAt = &end
			}
		}
		sh.StartWeather = weatherFromColumns(sc, sd, st)
		sh.EndWeather = weatherFromColumns(ec, ed, et)
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) listSales(ctx context.Context, from, to analytics.Date) ([]analytics.SalesRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT store_id, business_date, open_shift_id, close_shift_id,
		        open_x_cents, close_sales_cents, z_report_cents,
		        rollover_in_cents, rollover_out_cents, is_rollover_night,
		        open_txn_count, close_txn_count
		 FROM sales_records
		 WHERE business_date >= ? AND business_date <= ?
		 ORDER BY business_date, store_id`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list sales records: %w", err)
	}
	defer rows.Close()

	var out []analytics.SalesRecord
	for rows.Next() {
		var (
			rec          analytics.SalesRecord
			dateStr      string
			openShift    sql.NullString
			closeShift   sql.NullString
			openX, pm, z sql.NullInt64
			rin, rout    sql.NullInt64
			rollover     int
			otc, ctc     sql.NullInt64
		)
		if err := rows.Scan(&rec.StoreID, &dateStr, &openShift, &closeShift,
			&openX, &pm, &z, &rin, &rout, &rollover, &otc, &ctc); err != nil {
			return nil, err
		}
		date, err := analytics.ParseDate(dateStr)
		if err != nil {
			continue
		}
		rec.BusinessDate = date
		rec.OpenShiftID = ptrFromNullString(openShift)
		rec.CloseShiftID = ptrFromNullString(closeShift)
		rec.OpenXCents = ptrFromNullCents(openX)
		rec.CloseSalesCents = ptrFromNullCents(pm)
		rec.ZReportCents = ptrFromNullCents(z)
		rec.RolloverInCents = ptrFromNullCents(rin)
		rec.RolloverOutCents = ptrFromNullCents(rout)
		rec.IsRolloverNight = rollover != 0
		rec.OpenTxnCount = ptrFromNullInt(otc)
		rec.CloseTxnCount = ptrFromNullInt(ctc)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) listCloseouts(ctx context.Context, from, to analytics.Date) ([]analytics.SafeCloseoutRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT store_id, business_date, status, cash_cents, card_cents,
		        expected_deposit_cents, actual_deposit_cents, variance_cents
		 FROM safe_closeouts
		 WHERE status != 'draft' AND business_date >= ? AND business_date <= ?
		 ORDER BY business_date, store_id, id`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list closeouts: %w", err)
	}
	defer rows.Close()

	var out []analytics.SafeCloseoutRecord
	for rows.Next() {
		var (
			co                             analytics.SafeCloseoutRecord
			dateStr                        string
			cash, card, exp, act, variance int64
		)
		if err := rows.Scan(&co.StoreID, &dateStr, &co.Status,
			&cash, &card, &exp, &act, &variance); err != nil {
			return nil, err
		}
		date, err := analytics.ParseDate(dateStr)
		if err != nil {
			continue
		}
		co.BusinessDate = date
		co.CashCents = analytics.Cents(cash)
		co.CardCents = analytics.Cents(card)
		co.ExpectedDepositCents = analytics.Cents(exp)
		co.ActualDepositCents = analytics.Cents(act)
		co.VarianceCents = analytics.Cents(variance)
		out = append(out, co)
	}
	return out, rows.Err()
}

// Reset wipes every table. Used by the demo scenario loader.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM shifts;
		DELETE FROM sales_records;
		DELETE FROM safe_closeouts;
		DELETE FROM employees;
		DELETE FROM stores;
	`)
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}

// =============================================================================
// COLUMN HELPERS
// =============================================================================

func weatherColumns(obs *analytics.WeatherObservation) (cond, desc sql.NullString, temp sql.NullFloat64) {
	if obs == nil {
		return
	}
	if obs.Condition != nil {
		cond = sql.NullString{String: *obs.Condition, Valid: true}
	}
	if obs.Description != nil {
		desc = sql.NullString{String: *obs.Description, Valid: true}
	}
	if obs.TempF != nil {
		temp = sql.NullFloat64{Float64: *obs.TempF, Valid: true}
	}
	return
}

func weatherFromColumns(cond, desc sql.NullString, temp sql.NullFloat64) *analytics.WeatherObservation {
	if !cond.Valid && !desc.Valid && !temp.Valid {
		return nil
	}
	obs := &analytics.WeatherObservation{}
	if cond.Valid {
		obs.Condition = analytics.StringPtr(cond.String)
	}
	if desc.Valid {
		obs.Description = analytics.StringPtr(desc.String)
	}
	if temp.Valid {
		obs.TempF = analytics.Float64Ptr(temp.Float64)
	}
	return obs
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullCents(c *analytics.Cents) sql.NullInt64 {
	if c == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*c), Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func ptrFromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return analytics.StringPtr(s.String)
}

func ptrFromNullCents(n sql.NullInt64) *analytics.Cents {
	if !n.Valid {
		return nil
	}
	return analytics.CentsPtr(analytics.Cents(n.Int64))
}

func ptrFromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return analytics.IntPtr(int(n.Int64))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
