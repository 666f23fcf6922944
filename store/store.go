// Package store is the staging database between conversion and feed
// assembly. Workers convert documents concurrently but a single writer
// appends each document's tables in one transaction, so a crash never
// leaves half a document behind. Rows keep their insertion order
// (SQLite rowid), which makes reruns over the same inputs produce the
// same feed.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/gtfs"
)

// schemaSQL is the single source of truth for the staging schema,
// embedded at compile time from schema.sql.
//
//go:embed schema.sql
var schemaSQL string

// Store wraps the staging SQLite database with write serialization.
// SQLite supports one writer at a time; a single connection plus a
// write mutex keeps concurrent appenders from tripping over each other.
type Store struct {
	conn    *sql.DB
	writeMu sync.Mutex
}

// Open opens the staging database at path, creating file and schema as
// needed. The pragmas ride on the DSN so recycled pool connections get
// them again.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open staging database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping staging database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create staging schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// AppendTables appends one document's tables in a single transaction.
func (s *Store) AppendTables(ctx context.Context, set *gtfs.TableSet) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin staging transaction: %w", err)
	}
	defer tx.Rollback()

	appends := []struct {
		table string
		count int
		args  func(i int) []any
	}{
		{"agency", len(set.Agencies), func(i int) []any {
			a := set.Agencies[i]
			return []any{a.ID, a.Name, a.URL, a.Timezone, a.Lang}
		}},
		{"stops", len(set.Stops), func(i int) []any {
			st := set.Stops[i]
			return []any{st.ID, st.Code, st.Name, st.Lat, st.Lon, st.URL}
		}},
		{"routes", len(set.Routes), func(i int) []any {
			r := set.Routes[i]
			return []any{r.ID, r.AgencyID, r.PrivateID, r.LongName, r.ShortName, r.Type, r.SectionID}
		}},
		{"trips", len(set.Trips), func(i int) []any {
			t := set.Trips[i]
			return []any{t.RouteID, t.ServiceID, t.ID, t.Headsign, t.DirectionID}
		}},
		{"stop_times", len(set.StopTimes), func(i int) []any {
			st := set.StopTimes[i]
			return []any{st.TripID, st.Arrival, st.Departure, st.StopID, st.Sequence, st.Timepoint}
		}},
		{"calendar", len(set.Calendars), func(i int) []any {
			c := set.Calendars[i]
			return []any{c.ServiceID, c.Days[0], c.Days[1], c.Days[2], c.Days[3], c.Days[4], c.Days[5], c.Days[6], c.StartDate, c.EndDate}
		}},
		{"calendar_dates", len(set.CalendarDates), func(i int) []any {
			cd := set.CalendarDates[i]
			return []any{cd.ServiceID, cd.Date, cd.ExceptionType}
		}},
	}

	for _, a := range appends {
		if err := appendRows(ctx, tx, a.table, a.count, a.args); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit staging transaction: %w", err)
	}
	return nil
}

func appendRows(ctx context.Context, tx *sql.Tx, table string, count int, args func(i int) []any) error {
	if count == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, insertStmt(table))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < count; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("failed to append %s row: %w", table, err)
		}
	}
	return nil
}

// insertStmt builds the parameterized insert for a table from the
// shared column order, so storage and export cannot drift.
func insertStmt(table string) string {
	cols := gtfs.Columns[table]
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
}

func selectStmt(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(gtfs.Columns[table], ", "), table)
}

// Agencies returns every staged agency row in insertion order.
func (s *Store) Agencies(ctx context.Context) ([]gtfs.Agency, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("agency"))
	if err != nil {
		return nil, fmt.Errorf("failed to read agency: %w", err)
	}
	defer rows.Close()

	var out []gtfs.Agency
	for rows.Next() {
		var a gtfs.Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.URL, &a.Timezone, &a.Lang); err != nil {
			return nil, fmt.Errorf("failed to scan agency row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Stops returns every staged stop row in insertion order.
func (s *Store) Stops(ctx context.Context) ([]gtfs.Stop, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("stops"))
	if err != nil {
		return nil, fmt.Errorf("failed to read stops: %w", err)
	}
	defer rows.Close()

	var out []gtfs.Stop
	for rows.Next() {
		var st gtfs.Stop
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Lat, &st.Lon, &st.URL); err != nil {
			return nil, fmt.Errorf("failed to scan stops row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Routes returns every staged route row in insertion order.
func (s *Store) Routes(ctx context.Context) ([]gtfs.Route, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("routes"))
	if err != nil {
		return nil, fmt.Errorf("failed to read routes: %w", err)
	}
	defer rows.Close()

	var out []gtfs.Route
	for rows.Next() {
		var r gtfs.Route
		if err := rows.Scan(&r.ID, &r.AgencyID, &r.PrivateID, &r.LongName, &r.ShortName, &r.Type, &r.SectionID); err != nil {
			return nil, fmt.Errorf("failed to scan routes row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Trips returns every staged trip row in insertion order.
func (s *Store) Trips(ctx context.Context) ([]gtfs.Trip, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("trips"))
	if err != nil {
		return nil, fmt.Errorf("failed to read trips: %w", err)
	}
	defer rows.Close()

	var out []gtfs.Trip
	for rows.Next() {
		var t gtfs.Trip
		if err := rows.Scan(&t.RouteID, &t.ServiceID, &t.ID, &t.Headsign, &t.DirectionID); err != nil {
			return nil, fmt.Errorf("failed to scan trips row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// StopTimes returns every staged stop_times row in insertion order.
func (s *Store) StopTimes(ctx context.Context) ([]gtfs.StopTime, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("stop_times"))
	if err != nil {
		return nil, fmt.Errorf("failed to read stop_times: %w", err)
	}
	defer rows.Close()

	var out []gtfs.StopTime
	for rows.Next() {
		var st gtfs.StopTime
		if err := rows.Scan(&st.TripID, &st.Arrival, &st.Departure, &st.StopID, &st.Sequence, &st.Timepoint); err != nil {
			return nil, fmt.Errorf("failed to scan stop_times row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Calendars returns every staged calendar row in insertion order.
func (s *Store) Calendars(ctx context.Context) ([]gtfs.Calendar, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("calendar"))
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}
	defer rows.Close()

	var out []gtfs.Calendar
	for rows.Next() {
		var c gtfs.Calendar
		if err := rows.Scan(&c.ServiceID, &c.Days[0], &c.Days[1], &c.Days[2], &c.Days[3], &c.Days[4], &c.Days[5], &c.Days[6], &c.StartDate, &c.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan calendar row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CalendarDates returns every staged calendar_dates row in insertion order.
func (s *Store) CalendarDates(ctx context.Context) ([]gtfs.CalendarDate, error) {
	rows, err := s.conn.QueryContext(ctx, selectStmt("calendar_dates"))
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar_dates: %w", err)
	}
	defer rows.Close()

	var out []gtfs.CalendarDate
	for rows.Next() {
		var cd gtfs.CalendarDate
		if err := rows.Scan(&cd.ServiceID, &cd.Date, &cd.ExceptionType); err != nil {
			return nil, fmt.Errorf("failed to scan calendar_dates row: %w", err)
		}
		out = append(out, cd)
	}
	return out, rows.Err()
}
