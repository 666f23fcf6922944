package naptan

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/fetchcache"
)

// DefaultRegistryURL is the national NaPTAN CSV download endpoint.
const DefaultRegistryURL = "https://beta-naptan.dft.gov.uk/Download/National/csv"

// registryDataset is the name the registry CSV is cached under.
const registryDataset = "naptan-stops.csv"

// ErrStopNotFound reports a stop reference that is absent from the
// registry even after a refresh. Callers usually skip the stop and
// warn rather than fail the document.
var ErrStopNotFound = errors.New("stop not found in registry")

// DuplicateStopError reports a stop reference that matches more than
// one registry row. The registry cannot say which row is right, so the
// document using the reference fails.
type DuplicateStopError struct {
	Ref   string
	Count int
}

func (e *DuplicateStopError) Error() string {
	return fmt.Sprintf("had more than one stop with identical stop reference %q (%d matches)", e.Ref, e.Count)
}

// Stop is one registry entry.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Registry is the indexed national stop registry. It loads lazily on
// first use and is safe for concurrent lookups.
type Registry struct {
	URL string

	cache *fetchcache.Cache

	mu        sync.RWMutex
	stops     map[string]Stop
	dups      map[string]int
	loaded    bool
	refreshed bool
}

// NewRegistry returns a registry backed by the given cache. An empty
// url selects the national download endpoint.
func NewRegistry(cache *fetchcache.Cache, url string) *Registry {
	if url == "" {
		url = DefaultRegistryURL
	}
	return &Registry{URL: url, cache: cache}
}

// Load makes sure the registry is in memory. It is idempotent and safe
// to call from concurrent workers; only the first caller pays for the
// download and parse.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	return r.loadLocked(ctx)
}

// Len reports how many stops the registry currently holds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stops)
}

// Lookup resolves a stop reference. A miss drops the cached registry
// and downloads it again, once per Registry lifetime, before giving up
// with ErrStopNotFound. A reference matching several registry rows
// returns a DuplicateStopError.
func (r *Registry) Lookup(ctx context.Context, ref string) (Stop, error) {
	if err := r.Load(ctx); err != nil {
		return Stop{}, err
	}

	stop, count, refreshed := r.find(ref)
	if count > 1 {
		return Stop{}, &DuplicateStopError{Ref: ref, Count: count}
	}
	if count == 1 {
		return stop, nil
	}

	if !refreshed {
		if err := r.refresh(ctx); err != nil {
			return Stop{}, err
		}
		stop, count, _ = r.find(ref)
		if count > 1 {
			return Stop{}, &DuplicateStopError{Ref: ref, Count: count}
		}
		if count == 1 {
			return stop, nil
		}
	}

	return Stop{}, fmt.Errorf("%w: %q", ErrStopNotFound, ref)
}

func (r *Registry) find(ref string) (stop Stop, count int, refreshed bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n := r.dups[ref]; n > 0 {
		return Stop{}, n, r.refreshed
	}
	if s, ok := r.stops[ref]; ok {
		return s, 1, r.refreshed
	}
	return Stop{}, 0, r.refreshed
}

func (r *Registry) refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refreshed {
		return nil
	}
	r.refreshed = true
	if err := r.cache.Invalidate(registryDataset); err != nil {
		return fmt.Errorf("failed to invalidate stop registry: %w", err)
	}
	return r.loadLocked(ctx)
}

func (r *Registry) loadLocked(ctx context.Context) error {
	path, err := r.cache.Fetch(ctx, r.URL, registryDataset)
	if err != nil {
		return fmt.Errorf("failed to obtain stop registry: %w", err)
	}

	source, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat stop registry: %w", err)
	}

	if idx, ok := readIndex(indexPath(path), source); ok {
		r.stops, r.dups = idx.Stops, idx.Dups
		r.loaded = true
		return nil
	}

	stops, dups, err := parseRegistryCSV(path)
	if err != nil {
		return fmt.Errorf("failed to parse stop registry: %w", err)
	}
	r.stops, r.dups = stops, dups
	r.loaded = true

	if err := writeIndex(indexPath(path), source, stops, dups); err != nil {
		log.Printf("Could not write stop registry index: %v", err)
	}
	return nil
}

// parseRegistryCSV reads the national registry CSV into a lookup map.
// Rows without a parseable coordinate pair are dropped; references that
// appear more than once are tracked separately so lookups can report
// the ambiguity.
func parseRegistryCSV(path string) (map[string]Stop, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read registry header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "﻿")
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	for _, col := range []string{"ATCOCode", "CommonName", "Latitude", "Longitude"} {
		if _, ok := pos[col]; !ok {
			return nil, nil, fmt.Errorf("required column %s could not be found in the stop registry", col)
		}
	}

	field := func(rec []string, col string) string {
		i := pos[col]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	stops := make(map[string]Stop)
	dups := make(map[string]int)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read registry row: %w", err)
		}

		id := field(rec, "ATCOCode")
		if id == "" {
			continue
		}
		lat, latErr := strconv.ParseFloat(field(rec, "Latitude"), 64)
		lon, lonErr := strconv.ParseFloat(field(rec, "Longitude"), 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		if _, seen := stops[id]; seen {
			if dups[id] == 0 {
				dups[id] = 2
			} else {
				dups[id]++
			}
			continue
		}
		stops[id] = Stop{ID: id, Name: field(rec, "CommonName"), Lat: lat, Lon: lon}
	}
	return stops, dups, nil
}
