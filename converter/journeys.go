package converter

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

// serviceInfo caches the per-service fields shared by every trip row,
// plus the resolved journey patterns keyed by pattern id.
type serviceInfo struct {
	Code        string
	AgencyID    string
	LineName    string
	TravelMode  int
	Description string
	StartDate   string
	EndDate     string

	OperatingDays    string
	NonOperationDays string

	Patterns map[string]patternInfo
}

// patternInfo is the journey-pattern context of a trip: its ordered
// section references and the fields derived from pattern attributes.
type patternInfo struct {
	ID                 string
	SectionRefs        []string
	DirectionID        int
	Headsign           string
	RouteID            string
	VehicleType        string
	VehicleDescription string
}

// extractJourneys walks every service's vehicle journeys and returns
// the document's full trip-info table in document order. Journeys whose
// pattern reference matches no service are counted and skipped.
func (c *Converter) extractJourneys(doc *txc.Document, warnings *WarningAggregator) ([]TripInfo, error) {
	sections := make(map[string]*txc.JourneyPatternSection, len(doc.JourneyPatternSections))
	for i := range doc.JourneyPatternSections {
		s := &doc.JourneyPatternSections[i]
		sections[s.ID] = s
	}

	matched := make([]bool, len(doc.VehicleJourneys))
	var info []TripInfo

	for i := range doc.Services {
		rows, err := c.processService(&doc.Services[i], doc.VehicleJourneys, sections, matched)
		if err != nil {
			return nil, err
		}
		info = append(info, rows...)
	}

	for i := range doc.VehicleJourneys {
		if !matched[i] {
			warnings.Add(WarningUnmatchedJourney, doc.VehicleJourneys[i].VehicleJourneyCode)
		}
	}
	return info, nil
}

// processService runs one service's pass over the vehicle journeys,
// emits trip rows for the journeys whose pattern the service owns, and
// synthesizes their service ids.
func (c *Converter) processService(svc *txc.Service, journeys []txc.VehicleJourney, sections map[string]*txc.JourneyPatternSection, matched []bool) ([]TripInfo, error) {
	si, err := newServiceInfo(svc)
	if err != nil {
		return nil, err
	}

	journeyCount := len(journeys)
	var rows []TripInfo
	for i := range journeys {
		if i != 0 && i%50 == 0 {
			log.Printf("Processed %d / %d journeys.", i, journeyCount)
		}

		vj := &journeys[i]
		jp, ok := si.Patterns[vj.JourneyPatternRef]
		if !ok {
			continue
		}
		matched[i] = true

		weekdays := vj.OperatingDays()
		if weekdays == "" {
			weekdays = si.OperatingDays
		}
		if weekdays == "" {
			return nil, fmt.Errorf("vehicle journey %s has no operating days", vj.VehicleJourneyCode)
		}
		nonOperative := vj.NonOperationDays()
		if nonOperative == "" {
			nonOperative = si.NonOperationDays
		}

		vjRows, err := c.walkPattern(vj, si, jp, sections, weekdays, nonOperative)
		if err != nil {
			return nil, err
		}
		rows = append(rows, vjRows...)
	}
	log.Printf("Processed %d / %d journeys.", journeyCount, journeyCount)

	assignServiceIDs(rows)
	return rows, nil
}

// newServiceInfo resolves the service-level fields and every journey
// pattern of the service. Pattern defects (an unknown direction token,
// a pattern without section references) and a malformed operating
// period invalidate the whole document.
func newServiceInfo(svc *txc.Service) (*serviceInfo, error) {
	start, err := formatOperatingDate(svc.OperatingPeriod.StartDate)
	if err != nil {
		return nil, fmt.Errorf("service %s: invalid operating period start: %w", svc.ServiceCode, err)
	}
	end := ""
	if svc.OperatingPeriod.EndDate != "" {
		end, err = formatOperatingDate(svc.OperatingPeriod.EndDate)
		if err != nil {
			return nil, fmt.Errorf("service %s: invalid operating period end: %w", svc.ServiceCode, err)
		}
	}

	si := &serviceInfo{
		Code:             svc.ServiceCode,
		AgencyID:         svc.RegisteredOperatorRef,
		LineName:         svc.LineName(),
		TravelMode:       txc.RouteTypeForMode(svc.Mode),
		Description:      strings.TrimSpace(svc.Description),
		StartDate:        start,
		EndDate:          end,
		OperatingDays:    svc.OperatingDays(),
		NonOperationDays: svc.NonOperationDays(),
		Patterns:         make(map[string]patternInfo, len(svc.StandardService.JourneyPatterns)),
	}

	for _, jp := range svc.StandardService.JourneyPatterns {
		direction, err := txc.ParseDirection(jp.Direction)
		if err != nil {
			return nil, fmt.Errorf("journey pattern %s: %w", jp.ID, err)
		}
		if len(jp.SectionRefs) == 0 {
			return nil, fmt.Errorf("journey pattern %s has no section references", jp.ID)
		}

		headsign := svc.StandardService.Origin
		if direction == 1 {
			headsign = svc.StandardService.Destination
		}

		pi := patternInfo{
			ID:          jp.ID,
			SectionRefs: jp.SectionRefs,
			DirectionID: direction,
			Headsign:    headsign,
			RouteID:     jp.RouteRef,
		}
		if jp.Operational != nil {
			pi.VehicleType = jp.Operational.VehicleTypeCode
			pi.VehicleDescription = jp.Operational.VehicleDescription
		}
		si.Patterns[jp.ID] = pi
	}
	return si, nil
}

// walkPattern emits the stop visits of one vehicle journey: for every
// timing link of every referenced section, in order, the From stop at
// the accumulated travel time, and after the final link the closing To
// stop. The configured boarding time separates departure from arrival
// everywhere except the first visit.
func (c *Converter) walkPattern(vj *txc.VehicleJourney, si *serviceInfo, jp patternInfo, sections map[string]*txc.JourneyPatternSection, weekdays, nonOperative string) ([]TripInfo, error) {
	hour, minute, err := parseDepartureTime(vj.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("vehicle journey %s: %w", vj.VehicleJourneyCode, err)
	}

	base := TripInfo{
		TripID:           fmt.Sprintf("%s_%s_%02d%02d", jp.SectionRefs[0], weekdays, hour, minute),
		VehicleJourneyID: vj.VehicleJourneyCode,
		JourneyPatternID: jp.ID,
		SectionRef:       jp.SectionRefs[0],
		DirectionID:      jp.DirectionID,
		Headsign:         jp.Headsign,

		AgencyID:           si.AgencyID,
		RouteID:            jp.RouteID,
		ServiceRef:         vj.ServiceRef,
		ServiceCode:        si.Code,
		LineName:           si.LineName,
		TravelMode:         si.TravelMode,
		ServiceDescription: si.Description,
		VehicleType:        jp.VehicleType,
		VehicleDescription: jp.VehicleDescription,
		StartDate:          si.StartDate,
		EndDate:            si.EndDate,
		Weekdays:           weekdays,
		NonOperativeDays:   nonOperative,
	}

	seconds := hour*3600 + minute*60
	boarding := c.Cfg.Converter.BoardingTimeSeconds
	sequence := 1
	var rows []TripInfo

	emit := func(stopID, linkRef string, arrival int) {
		row := base
		row.StopID = stopID
		row.RouteLinkRef = linkRef
		row.StopSequence = sequence
		departure := arrival
		if sequence == 1 {
			row.Timepoint = 1
		} else {
			departure += boarding
		}
		row.ArrivalTime = formatTravelTime(arrival)
		row.DepartureTime = formatTravelTime(departure)
		rows = append(rows, row)
		sequence++
	}

	var lastStop, lastLink string
	for _, ref := range jp.SectionRefs {
		section, ok := sections[ref]
		if !ok {
			continue
		}
		for i := range section.Links {
			link := &section.Links[i]
			emit(link.From.StopPointRef, link.RouteLinkRef, seconds)

			duration, err := txc.ParseRunTime(link.RunTime)
			if err != nil {
				return nil, fmt.Errorf("vehicle journey %s: %w", vj.VehicleJourneyCode, err)
			}
			seconds += duration
			lastStop = link.To.StopPointRef
			lastLink = link.RouteLinkRef
		}
	}
	if len(rows) > 0 {
		emit(lastStop, lastLink, seconds)
	}
	return rows, nil
}

// assignServiceIDs synthesizes service ids from weekday patterns: the
// first journey seen with a given weekdays value fixes the service
// reference and date range in the key, and every row sharing the
// pattern gets the id.
func assignServiceIDs(rows []TripInfo) {
	ids := make(map[string]string)
	seen := make(map[string]bool)
	for i := range rows {
		vj := rows[i].VehicleJourneyID
		if seen[vj] {
			continue
		}
		seen[vj] = true
		if _, ok := ids[rows[i].Weekdays]; !ok {
			ids[rows[i].Weekdays] = fmt.Sprintf("%s_%s_%s_%s",
				rows[i].ServiceRef, rows[i].StartDate, rows[i].EndDate, rows[i].Weekdays)
		}
	}
	for i := range rows {
		rows[i].ServiceID = ids[rows[i].Weekdays]
	}
}

// parseDepartureTime splits an HH:MM:SS departure; the seconds part is
// validated and discarded, departures land on whole minutes.
func parseDepartureTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, fmt.Errorf("invalid departure time %q", s)
	}
	for i, part := range parts {
		n, convErr := strconv.Atoi(part)
		if convErr != nil {
			return 0, 0, fmt.Errorf("invalid departure time %q", s)
		}
		switch i {
		case 0:
			hour = n
		case 1:
			minute = n
		}
	}
	return hour, minute, nil
}

// formatTravelTime renders seconds since the departure day's midnight
// on the service-day clock, where hours pass 24 for stop visits beyond
// midnight.
func formatTravelTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// formatOperatingDate converts a source 2006-01-02 date to the GTFS
// YYYYMMDD form.
func formatOperatingDate(s string) (string, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", err
	}
	return d.Format("20060102"), nil
}
