// Package feed assembles the staged tables into the final GTFS zip.
package feed

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/gtfs"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/store"
)

// Assemble reads the staged tables in insertion order, deduplicates
// each on its natural key, and writes the feed archive to path. Tables
// with no rows are left out of the archive.
func Assemble(ctx context.Context, st *store.Store, path string) error {
	tables, err := collect(ctx, st)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create feed archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range gtfs.TableNames {
		rows := tables[name]
		if len(rows) == 0 {
			continue
		}
		if err := writeTable(zw, name, rows); err != nil {
			return err
		}
		log.Printf("Wrote %s.txt with %d rows", name, len(rows))
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize feed archive: %w", err)
	}
	return out.Close()
}

// collect reads every table and applies the per-table deduplication.
// Insertion order decides which duplicate survives: the first one.
func collect(ctx context.Context, st *store.Store) (map[string][][]string, error) {
	agencies, err := st.Agencies(ctx)
	if err != nil {
		return nil, err
	}
	stops, err := st.Stops(ctx)
	if err != nil {
		return nil, err
	}
	routes, err := st.Routes(ctx)
	if err != nil {
		return nil, err
	}
	trips, err := st.Trips(ctx)
	if err != nil {
		return nil, err
	}
	stopTimes, err := st.StopTimes(ctx)
	if err != nil {
		return nil, err
	}
	calendars, err := st.Calendars(ctx)
	if err != nil {
		return nil, err
	}
	calendarDates, err := st.CalendarDates(ctx)
	if err != nil {
		return nil, err
	}

	return map[string][][]string{
		"agency": records(dedupBy(agencies, func(a gtfs.Agency) string { return a.ID })),
		"stops":  records(dedupBy(stops, func(s gtfs.Stop) string { return s.ID })),
		"routes": records(dedupBy(routes, func(r gtfs.Route) string { return r.ID })),
		"trips":  records(dedupBy(trips, func(t gtfs.Trip) string { return t.ID })),
		"stop_times": records(dedupBy(stopTimes, func(s gtfs.StopTime) gtfs.StopTime {
			return s
		})),
		"calendar": records(dedupBy(calendars, func(c gtfs.Calendar) string { return c.ServiceID })),
		"calendar_dates": records(dedupBy(calendarDates, func(cd gtfs.CalendarDate) [2]string {
			return [2]string{cd.ServiceID, cd.Date}
		})),
	}, nil
}

type record interface{ Record() []string }

func records[T record](rows []T) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out
}

func dedupBy[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]bool, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, row)
	}
	return out
}

// writeTable streams one CSV member into the archive. Quoting matches
// the established exports: the header and every non-numeric field are
// quoted, empty values included; numeric fields stay bare.
func writeTable(zw *zip.Writer, table string, rows [][]string) error {
	w, err := zw.Create(table + ".txt")
	if err != nil {
		return fmt.Errorf("failed to create %s.txt: %w", table, err)
	}

	cols := gtfs.Columns[table]
	numeric := gtfs.NumericColumns[table]

	bw := bufio.NewWriter(w)
	writeRow := func(fields []string, header bool) {
		for i, f := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			if header || !numeric[cols[i]] {
				bw.WriteByte('"')
				bw.WriteString(strings.ReplaceAll(f, `"`, `""`))
				bw.WriteByte('"')
			} else {
				bw.WriteString(f)
			}
		}
		bw.WriteByte('\n')
	}

	writeRow(cols, true)
	for _, row := range rows {
		writeRow(row, false)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s.txt: %w", table, err)
	}
	return nil
}
