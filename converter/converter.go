package converter

import (
	"context"
	"fmt"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/config"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/gtfs"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/holidays"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/naptan"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

// Converter coordinates the document model, the stop registry and the
// bank-holiday dataset to produce GTFS tables
type Converter struct {
	Registry *naptan.Registry
	Holidays *holidays.Dataset
	Cfg      config.AppConfig
}

// NewConverter creates a new converter instance
func NewConverter(registry *naptan.Registry, dataset *holidays.Dataset, cfg config.AppConfig) *Converter {
	return &Converter{Registry: registry, Holidays: dataset, Cfg: cfg}
}

// Convert turns one parsed document into its GTFS tables. name is the
// source file name used in logs and error context. Document-fatal
// defects return an error; recoverable defects are aggregated and
// logged in one consolidated pass when the conversion finishes.
func (c *Converter) Convert(ctx context.Context, doc *txc.Document, name string) (*gtfs.TableSet, error) {
	warnings := NewWarningAggregator()
	defer warnings.LogAll(name)

	info, err := c.extractJourneys(doc, warnings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	stops, err := c.resolveStops(ctx, doc, warnings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	stopTimes, survivingTrips := projectStopTimes(info, warnings)
	trips := projectTrips(info, survivingTrips)

	services := make(map[string]bool, len(trips))
	for _, trip := range trips {
		services[trip.ServiceID] = true
	}

	calendars, err := projectCalendar(info, services)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	calendarDates, err := c.projectCalendarDates(ctx, info, services, warnings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &gtfs.TableSet{
		Agencies:      projectAgencies(doc),
		Stops:         stops,
		Routes:        projectRoutes(doc, info, warnings),
		Trips:         trips,
		StopTimes:     stopTimes,
		Calendars:     calendars,
		CalendarDates: calendarDates,
	}, nil
}
