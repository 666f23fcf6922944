package gtfs

import "strconv"

// Agency is one row of agency.txt.
type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
	Lang     string
}

// Record returns the row values in agency.txt column order.
func (a Agency) Record() []string {
	return []string{a.ID, a.Name, a.URL, a.Timezone, a.Lang}
}

// Stop is one row of stops.txt.
type Stop struct {
	ID   string
	Code string
	Name string
	Lat  float64
	Lon  float64
	URL  string
}

// Record returns the row values in stops.txt column order.
func (s Stop) Record() []string {
	return []string{s.ID, s.Code, s.Name, formatCoord(s.Lat), formatCoord(s.Lon), s.URL}
}

// Route is one row of routes.txt. PrivateID and SectionID carry the
// source private code and route section reference. They are not core
// GTFS columns but UK downstream tooling expects them.
type Route struct {
	ID        string
	AgencyID  string
	PrivateID string
	LongName  string
	ShortName string
	Type      int
	SectionID string
}

// Record returns the row values in routes.txt column order.
func (r Route) Record() []string {
	return []string{r.ID, r.AgencyID, r.PrivateID, r.LongName, r.ShortName, strconv.Itoa(r.Type), r.SectionID}
}

// Trip is one row of trips.txt.
type Trip struct {
	RouteID     string
	ServiceID   string
	ID          string
	Headsign    string
	DirectionID int
}

// Record returns the row values in trips.txt column order.
func (t Trip) Record() []string {
	return []string{t.RouteID, t.ServiceID, t.ID, t.Headsign, strconv.Itoa(t.DirectionID)}
}

// StopTime is one row of stop_times.txt.
type StopTime struct {
	TripID    string
	Arrival   string
	Departure string
	StopID    string
	Sequence  int
	Timepoint int
}

// Record returns the row values in stop_times.txt column order.
func (st StopTime) Record() []string {
	return []string{st.TripID, st.Arrival, st.Departure, st.StopID, strconv.Itoa(st.Sequence), strconv.Itoa(st.Timepoint)}
}

// Calendar is one row of calendar.txt. Days holds the weekday flags
// with Monday at index 0 and Sunday at index 6.
type Calendar struct {
	ServiceID string
	Days      [7]int
	StartDate string
	EndDate   string
}

// Record returns the row values in calendar.txt column order.
func (c Calendar) Record() []string {
	rec := make([]string, 0, 10)
	rec = append(rec, c.ServiceID)
	for _, d := range c.Days {
		rec = append(rec, strconv.Itoa(d))
	}
	return append(rec, c.StartDate, c.EndDate)
}

// CalendarDate is one row of calendar_dates.txt.
type CalendarDate struct {
	ServiceID     string
	Date          string
	ExceptionType int
}

// Record returns the row values in calendar_dates.txt column order.
func (cd CalendarDate) Record() []string {
	return []string{cd.ServiceID, cd.Date, strconv.Itoa(cd.ExceptionType)}
}

// TableSet holds the rows extracted from a single TransXChange document.
// The batch layer appends sets from many documents into shared storage;
// deduplication happens once, when the final feed is assembled.
type TableSet struct {
	Agencies      []Agency
	Stops         []Stop
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Calendars     []Calendar
	CalendarDates []CalendarDate
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
