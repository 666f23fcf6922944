package holidays

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/fetchcache"
)

// DefaultDatasetURL is the live national bank-holiday dataset.
const DefaultDatasetURL = "https://www.gov.uk/bank-holidays.json"

// datasetName is the name the dataset is cached under.
const datasetName = "bank-holidays.json"

//go:embed bank-holidays.json
var bundled []byte

// BankHoliday is one dated entry of the merged national dataset.
type BankHoliday struct {
	Title   string
	Date    time.Time
	Notes   string
	Bunting bool
}

// Dataset loads the national bank-holiday list lazily and answers date
// range queries against it. It is safe for concurrent use.
type Dataset struct {
	URL string

	cache *fetchcache.Cache

	mu       sync.Mutex
	holidays []BankHoliday
	loaded   bool
}

// NewDataset returns a dataset backed by the given cache. An empty url
// selects the gov.uk endpoint. A nil cache skips the live fetch and
// serves the bundled copy.
func NewDataset(cache *fetchcache.Cache, url string) *Dataset {
	if url == "" {
		url = DefaultDatasetURL
	}
	return &Dataset{URL: url, cache: cache}
}

// Load makes sure the dataset is in memory, falling back to the bundled
// copy when the live source cannot be fetched or parsed.
func (d *Dataset) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return nil
	}

	raw, err := d.fetch(ctx)
	if err == nil {
		holidays, parseErr := parseDataset(raw)
		if parseErr == nil {
			d.holidays, d.loaded = holidays, true
			return nil
		}
		err = parseErr
	}

	log.Printf("Using bundled bank holiday data: %v", err)
	holidays, err := parseDataset(bundled)
	if err != nil {
		return fmt.Errorf("failed to parse bundled bank holiday data: %w", err)
	}
	d.holidays, d.loaded = holidays, true
	return nil
}

// Within returns the bank holidays inside the window in ascending date
// order, inclusive at both ends. start and end are YYYYMMDD; an empty
// end leaves the window unbounded above.
func (d *Dataset) Within(ctx context.Context, start, end string) ([]BankHoliday, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}

	startDate, err := time.Parse("20060102", start)
	if err != nil {
		return nil, fmt.Errorf("invalid operative window start %q: %w", start, err)
	}
	var endDate time.Time
	bounded := end != ""
	if bounded {
		endDate, err = time.Parse("20060102", end)
		if err != nil {
			return nil, fmt.Errorf("invalid operative window end %q: %w", end, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var within []BankHoliday
	for _, bh := range d.holidays {
		if bh.Date.Before(startDate) {
			continue
		}
		if bounded && bh.Date.After(endDate) {
			continue
		}
		within = append(within, bh)
	}
	return within, nil
}

// DatesWithin returns the window's bank-holiday dates as YYYYMMDD
// strings in ascending order.
func (d *Dataset) DatesWithin(ctx context.Context, start, end string) ([]string, error) {
	within, err := d.Within(ctx, start, end)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(within))
	for i, bh := range within {
		dates[i] = bh.Date.Format("20060102")
	}
	return dates, nil
}

func (d *Dataset) fetch(ctx context.Context) ([]byte, error) {
	if d.cache == nil {
		return nil, errors.New("no dataset cache configured")
	}
	path, err := d.cache.Fetch(ctx, d.URL, datasetName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// parseDataset merges the per-division event lists into one list with a
// single entry per date, sorted ascending. Divisions are visited in
// name order and the first title seen for a date wins, keeping the
// merge deterministic.
func parseDataset(raw []byte) ([]BankHoliday, error) {
	type event struct {
		Title   string `json:"title"`
		Date    string `json:"date"`
		Notes   string `json:"notes"`
		Bunting bool   `json:"bunting"`
	}
	type division struct {
		Division string  `json:"division"`
		Events   []event `json:"events"`
	}

	var divisions map[string]division
	if err := json.Unmarshal(raw, &divisions); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(divisions))
	for name := range divisions {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	var holidays []BankHoliday
	for _, name := range names {
		for _, ev := range divisions[name].Events {
			if seen[ev.Date] {
				continue
			}
			date, err := time.Parse("2006-01-02", ev.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid holiday date %q: %w", ev.Date, err)
			}
			seen[ev.Date] = true
			holidays = append(holidays, BankHoliday{
				Title:   ev.Title,
				Date:    date,
				Notes:   ev.Notes,
				Bunting: ev.Bunting,
			})
		}
	}

	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays, nil
}
