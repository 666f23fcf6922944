package converter

import (
	"context"
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/gtfs"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/holidays"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

// operatorURLs maps the registered TfL operator ids to their public
// sites. Operators outside the table get the NA placeholder.
var operatorURLs = map[string]string{
	"OId_LUL": "https://tfl.gov.uk/maps/track/tube",
	"OId_DLR": "https://tfl.gov.uk/modes/dlr/",
	"OId_TRS": "https://www.thamesriverservices.co.uk/",
	"OId_CCR": "https://www.citycruises.com/",
	"OId_CV":  "https://www.thamesclippers.com/",
	"OId_WFF": "https://tfl.gov.uk/modes/river/woolwich-ferry",
	"OId_TCL": "https://tfl.gov.uk/modes/trams/",
	"OId_EAL": "https://www.emiratesairline.co.uk/",
}

// projectAgencies emits one row per declared operator. The licence name
// is preferred over the trading name.
func projectAgencies(doc *txc.Document) []gtfs.Agency {
	agencies := make([]gtfs.Agency, 0, len(doc.Operators))
	for _, op := range doc.Operators {
		name := op.NameOnLicence
		if name == "" {
			name = op.TradingName
		}
		url, ok := operatorURLs[op.ID]
		if !ok {
			url = "NA"
		}
		agencies = append(agencies, gtfs.Agency{
			ID:       op.ID,
			Name:     name,
			URL:      url,
			Timezone: "Europe/London",
			Lang:     "en",
		})
	}
	return agencies
}

// projectRoutes emits one row per declared route, back-filling the
// agency and short name from the first trip row on the route. The
// route_type comes from the first service's mode, once per document.
func projectRoutes(doc *txc.Document, info []TripInfo, warnings *WarningAggregator) []gtfs.Route {
	routeType := 3
	if len(doc.Services) > 0 {
		routeType = txc.RouteTypeForMode(doc.Services[0].Mode)
	}

	firstByRoute := make(map[string]*TripInfo)
	for i := range info {
		if _, ok := firstByRoute[info[i].RouteID]; !ok {
			firstByRoute[info[i].RouteID] = &info[i]
		}
	}

	var routes []gtfs.Route
	for _, r := range doc.Routes {
		row, ok := firstByRoute[r.ID]
		if !ok {
			warnings.Add(WarningRouteWithoutTrips, r.ID)
			continue
		}
		routes = append(routes, gtfs.Route{
			ID:        r.ID,
			AgencyID:  row.AgencyID,
			PrivateID: r.PrivateCode,
			LongName:  r.Description,
			ShortName: row.LineName,
			Type:      routeType,
			SectionID: r.RouteSectionRef,
		})
	}
	return routes
}

// projectStopTimes deduplicates the stop visits, orders them by trip,
// and drops trips that no longer describe a movement between two stops.
// It returns the rows plus the set of surviving trip ids, which gates
// trips, calendar and calendar_dates.
func projectStopTimes(info []TripInfo, warnings *WarningAggregator) ([]gtfs.StopTime, map[string]bool) {
	type visit struct {
		tripID, arrival, departure, stopID string
		sequence, timepoint                int
	}
	seen := make(map[visit]bool)
	byTrip := make(map[string][]gtfs.StopTime)
	var order []string

	for i := range info {
		row := &info[i]
		v := visit{row.TripID, row.ArrivalTime, row.DepartureTime, row.StopID, row.StopSequence, row.Timepoint}
		if seen[v] {
			continue
		}
		seen[v] = true
		if _, ok := byTrip[row.TripID]; !ok {
			order = append(order, row.TripID)
		}
		byTrip[row.TripID] = append(byTrip[row.TripID], gtfs.StopTime{
			TripID:    row.TripID,
			Arrival:   row.ArrivalTime,
			Departure: row.DepartureTime,
			StopID:    row.StopID,
			Sequence:  row.StopSequence,
			Timepoint: row.Timepoint,
		})
	}

	sort.Strings(order)

	surviving := make(map[string]bool, len(order))
	var stopTimes []gtfs.StopTime
	for _, tripID := range order {
		group := byTrip[tripID]
		if len(group) <= 1 {
			warnings.Add(WarningDegenerateTrip, tripID)
			continue
		}
		surviving[tripID] = true
		stopTimes = append(stopTimes, group...)
	}
	return stopTimes, surviving
}

// projectTrips deduplicates trips on (route, service, trip), keeping
// only trips that survived the stop-times filter.
func projectTrips(info []TripInfo, surviving map[string]bool) []gtfs.Trip {
	type key struct{ routeID, serviceID, tripID string }
	seen := make(map[key]bool)
	var trips []gtfs.Trip
	for i := range info {
		row := &info[i]
		if !surviving[row.TripID] {
			continue
		}
		k := key{row.RouteID, row.ServiceID, row.TripID}
		if seen[k] {
			continue
		}
		seen[k] = true
		trips = append(trips, gtfs.Trip{
			RouteID:     row.RouteID,
			ServiceID:   row.ServiceID,
			ID:          row.TripID,
			Headsign:    row.Headsign,
			DirectionID: row.DirectionID,
		})
	}
	return trips
}

// projectCalendar expands each distinct (service, weekday pattern, date
// range) into a calendar row. An unknown weekday token fails the
// document.
func projectCalendar(info []TripInfo, services map[string]bool) ([]gtfs.Calendar, error) {
	type key struct{ serviceID, weekdays, startDate, endDate string }
	seen := make(map[key]bool)
	var calendars []gtfs.Calendar
	for i := range info {
		row := &info[i]
		if !services[row.ServiceID] {
			continue
		}
		k := key{row.ServiceID, row.Weekdays, row.StartDate, row.EndDate}
		if seen[k] {
			continue
		}
		seen[k] = true

		days, err := txc.ParseDayRange(row.Weekdays)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, gtfs.Calendar{
			ServiceID: row.ServiceID,
			Days:      days,
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
		})
	}
	return calendars, nil
}

// projectCalendarDates resolves each service's non-operation tokens to
// exception dates. The operative window spans the token-bearing rows;
// an open end date anywhere leaves the window unbounded above.
// AllBankHolidays selects every window holiday, aliased tokens select
// holidays by title, Eve tokens select nothing. No tokens or no window
// holidays is a valid empty outcome.
func (c *Converter) projectCalendarDates(ctx context.Context, info []TripInfo, services map[string]bool, warnings *WarningAggregator) ([]gtfs.CalendarDate, error) {
	minStart, maxEnd := "", ""
	openEnded := false
	tokensByService := make(map[string]map[string]bool)
	var serviceOrder []string
	unknown := make(map[string]bool)

	for i := range info {
		row := &info[i]
		if row.NonOperativeDays == "" || !services[row.ServiceID] {
			continue
		}

		if minStart == "" || row.StartDate < minStart {
			minStart = row.StartDate
		}
		if row.EndDate == "" {
			openEnded = true
		} else if row.EndDate > maxEnd {
			maxEnd = row.EndDate
		}

		set, ok := tokensByService[row.ServiceID]
		if !ok {
			set = make(map[string]bool)
			tokensByService[row.ServiceID] = set
			serviceOrder = append(serviceOrder, row.ServiceID)
		}
		for _, token := range strings.Split(row.NonOperativeDays, "|") {
			if token == "" {
				continue
			}
			set[token] = true
			if !holidays.Recognized(token) && !unknown[token] {
				unknown[token] = true
				warnings.Add(WarningUnknownHoliday, token)
			}
		}
	}
	if len(serviceOrder) == 0 {
		return nil, nil
	}
	if openEnded {
		maxEnd = ""
	}

	within, err := c.Holidays.Within(ctx, minStart, maxEnd)
	if err != nil {
		return nil, err
	}
	if len(within) == 0 {
		return nil, nil
	}

	var dates []gtfs.CalendarDate
	for _, serviceID := range serviceOrder {
		tokens := tokensByService[serviceID]
		titles := make(map[string]bool, len(tokens))
		for token := range tokens {
			if title, ok := holidays.TitleFor(token); ok {
				titles[title] = true
			}
		}
		for _, bh := range within {
			if !tokens["AllBankHolidays"] && !titles[bh.Title] {
				continue
			}
			dates = append(dates, gtfs.CalendarDate{
				ServiceID:     serviceID,
				Date:          bh.Date.Format("20060102"),
				ExceptionType: 2,
			})
		}
	}
	return dates, nil
}
