package converter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/holidays"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

func TestProjectAgencies(t *testing.T) {
	doc := &txc.Document{
		Operators: []txc.Operator{
			{ID: "OId_LUL", NameOnLicence: "London Underground"},
			{ID: "OP_ACME", TradingName: "Acme Buses"},
		},
	}

	agencies := projectAgencies(doc)
	require.Len(t, agencies, 2)

	assert.Equal(t, "OId_LUL", agencies[0].ID)
	assert.Equal(t, "London Underground", agencies[0].Name)
	assert.Equal(t, "https://tfl.gov.uk/maps/track/tube", agencies[0].URL)
	assert.Equal(t, "Europe/London", agencies[0].Timezone)
	assert.Equal(t, "en", agencies[0].Lang)

	assert.Equal(t, "Acme Buses", agencies[1].Name, "trading name fills in for a missing licence name")
	assert.Equal(t, "NA", agencies[1].URL, "operators outside the table get the placeholder")

	t.Logf("✓ Projected %d agencies", len(agencies))
}

func TestProjectRoutes(t *testing.T) {
	doc := &txc.Document{
		Routes: []txc.Route{
			{ID: "R_1", PrivateCode: "R_1-PIC", Description: "Cockfosters - Uxbridge", RouteSectionRef: "RS_1"},
			{ID: "R_ORPHAN", Description: "No journeys reference this"},
		},
		Services: []txc.Service{{Mode: "underground"}},
	}
	info := []TripInfo{
		{RouteID: "R_1", AgencyID: "OId_LUL", LineName: "Piccadilly"},
		{RouteID: "R_1", AgencyID: "OId_OTHER", LineName: "Other"},
	}

	warnings := NewWarningAggregator()
	routes := projectRoutes(doc, info, warnings)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Equal(t, "R_1", r.ID)
	assert.Equal(t, "OId_LUL", r.AgencyID, "the first trip row on the route wins")
	assert.Equal(t, "Piccadilly", r.ShortName)
	assert.Equal(t, "R_1-PIC", r.PrivateID)
	assert.Equal(t, "Cockfosters - Uxbridge", r.LongName)
	assert.Equal(t, "RS_1", r.SectionID)
	assert.Equal(t, 1, r.Type)

	assert.Equal(t, 1, warnings.Count(WarningRouteWithoutTrips))

	t.Logf("✓ Route backfilled from trips, orphan counted")
}

func TestProjectStopTimes(t *testing.T) {
	info := []TripInfo{
		{TripID: "T_B", StopID: "S1", StopSequence: 1, Timepoint: 1, ArrivalTime: "06:00:00", DepartureTime: "06:00:00"},
		{TripID: "T_B", StopID: "S2", StopSequence: 2, ArrivalTime: "06:02:00", DepartureTime: "06:02:00"},
		{TripID: "T_B", StopID: "S2", StopSequence: 2, ArrivalTime: "06:02:00", DepartureTime: "06:02:00"},
		{TripID: "T_A", StopID: "S1", StopSequence: 1, Timepoint: 1, ArrivalTime: "05:30:00", DepartureTime: "05:30:00"},
		{TripID: "T_A", StopID: "S2", StopSequence: 2, ArrivalTime: "05:32:00", DepartureTime: "05:32:00"},
		{TripID: "T_DEGEN", StopID: "S9", StopSequence: 1, Timepoint: 1, ArrivalTime: "07:00:00", DepartureTime: "07:00:00"},
	}

	warnings := NewWarningAggregator()
	stopTimes, surviving := projectStopTimes(info, warnings)

	require.Len(t, stopTimes, 4, "duplicate and degenerate rows drop out")
	assert.Equal(t, "T_A", stopTimes[0].TripID, "trips come out ordered by id")
	assert.Equal(t, "T_A", stopTimes[1].TripID)
	assert.Equal(t, "T_B", stopTimes[2].TripID)
	assert.Equal(t, "T_B", stopTimes[3].TripID)
	assert.Equal(t, 1, stopTimes[0].Sequence)
	assert.Equal(t, 2, stopTimes[1].Sequence)

	assert.True(t, surviving["T_A"])
	assert.True(t, surviving["T_B"])
	assert.False(t, surviving["T_DEGEN"])
	assert.Equal(t, 1, warnings.Count(WarningDegenerateTrip))

	t.Logf("✓ %d stop time rows, %d surviving trips", len(stopTimes), len(surviving))
}

func TestProjectTrips(t *testing.T) {
	info := []TripInfo{
		{TripID: "T_A", RouteID: "R_1", ServiceID: "SVC_1", Headsign: "Uxbridge", DirectionID: 1},
		{TripID: "T_A", RouteID: "R_1", ServiceID: "SVC_1", Headsign: "Uxbridge", DirectionID: 1},
		{TripID: "T_B", RouteID: "R_1", ServiceID: "SVC_2", Headsign: "Cockfosters"},
		{TripID: "T_DEGEN", RouteID: "R_1", ServiceID: "SVC_1"},
	}
	surviving := map[string]bool{"T_A": true, "T_B": true}

	trips := projectTrips(info, surviving)
	require.Len(t, trips, 2)

	assert.Equal(t, "T_A", trips[0].ID)
	assert.Equal(t, "SVC_1", trips[0].ServiceID)
	assert.Equal(t, "Uxbridge", trips[0].Headsign)
	assert.Equal(t, 1, trips[0].DirectionID)
	assert.Equal(t, "T_B", trips[1].ID)

	t.Logf("✓ Trips deduplicated and filtered to %d rows", len(trips))
}

func TestProjectCalendar(t *testing.T) {
	info := []TripInfo{
		{ServiceID: "SVC_1", Weekdays: "MondayToFriday", StartDate: "20250101", EndDate: "20251231"},
		{ServiceID: "SVC_1", Weekdays: "MondayToFriday", StartDate: "20250101", EndDate: "20251231"},
		{ServiceID: "SVC_2", Weekdays: "Weekend", StartDate: "20250101", EndDate: ""},
		{ServiceID: "SVC_GONE", Weekdays: "Monday", StartDate: "20250101", EndDate: ""},
	}
	services := map[string]bool{"SVC_1": true, "SVC_2": true}

	calendars, err := projectCalendar(info, services)
	require.NoError(t, err)
	require.Len(t, calendars, 2)

	assert.Equal(t, "SVC_1", calendars[0].ServiceID)
	assert.Equal(t, [7]int{1, 1, 1, 1, 1, 0, 0}, calendars[0].Days)
	assert.Equal(t, "20250101", calendars[0].StartDate)
	assert.Equal(t, "20251231", calendars[0].EndDate)

	assert.Equal(t, "SVC_2", calendars[1].ServiceID)
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 1, 1}, calendars[1].Days)
	assert.Equal(t, "", calendars[1].EndDate)

	_, err = projectCalendar([]TripInfo{
		{ServiceID: "SVC_BAD", Weekdays: "Fryday", StartDate: "20250101"},
	}, map[string]bool{"SVC_BAD": true})
	require.Error(t, err)

	t.Logf("✓ Calendar rows expanded: %v", calendars[0].Days)
}

func TestProjectCalendarDates(t *testing.T) {
	conv := &Converter{Holidays: holidays.NewDataset(nil, "")}
	warnings := NewWarningAggregator()

	info := []TripInfo{
		{ServiceID: "SVC_GF", NonOperativeDays: "GoodFriday", StartDate: "20250401", EndDate: "20250510"},
		{ServiceID: "SVC_ALL", NonOperativeDays: "AllBankHolidays", StartDate: "20250401", EndDate: "20250510"},
		{ServiceID: "SVC_ODD", NonOperativeDays: "GroundhogDay", StartDate: "20250401", EndDate: "20250510"},
		{ServiceID: "SVC_EVE", NonOperativeDays: "ChristmasEve", StartDate: "20250401", EndDate: "20250510"},
		{ServiceID: "SVC_GONE", NonOperativeDays: "AllBankHolidays", StartDate: "20250101", EndDate: "20251231"},
	}
	services := map[string]bool{"SVC_GF": true, "SVC_ALL": true, "SVC_ODD": true, "SVC_EVE": true}

	dates, err := conv.projectCalendarDates(context.Background(), info, services, warnings)
	require.NoError(t, err)

	byService := make(map[string][]string)
	for _, cd := range dates {
		assert.Equal(t, 2, cd.ExceptionType)
		byService[cd.ServiceID] = append(byService[cd.ServiceID], cd.Date)
	}

	assert.Equal(t, []string{"20250418"}, byService["SVC_GF"],
		"an aliased token selects its holiday only")
	assert.Equal(t, []string{"20250418", "20250421", "20250505"}, byService["SVC_ALL"],
		"the catch-all selects every window holiday")
	assert.Empty(t, byService["SVC_ODD"])
	assert.Empty(t, byService["SVC_EVE"], "eves are not bank holidays")
	assert.Empty(t, byService["SVC_GONE"], "filtered services contribute no window or dates")

	assert.Equal(t, 1, warnings.Count(WarningUnknownHoliday))

	t.Logf("✓ %d exception dates across %d services", len(dates), len(byService))
}

func TestProjectCalendarDatesOpenWindow(t *testing.T) {
	conv := &Converter{Holidays: holidays.NewDataset(nil, "")}

	info := []TripInfo{
		{ServiceID: "SVC_NY", NonOperativeDays: "NewYearsDay", StartDate: "20251220", EndDate: ""},
	}
	services := map[string]bool{"SVC_NY": true}

	dates, err := conv.projectCalendarDates(context.Background(), info, services, NewWarningAggregator())
	require.NoError(t, err)
	require.NotEmpty(t, dates)

	var got []string
	for _, cd := range dates {
		got = append(got, cd.Date)
	}
	assert.Contains(t, got, "20260101", "an open end date reaches holidays past the last bounded date")
	assert.NotContains(t, got, "20251225", "only the token's holiday matches")

	t.Logf("✓ Open window resolved %d dates", len(dates))
}

func TestProjectCalendarDatesNoTokens(t *testing.T) {
	conv := &Converter{Holidays: holidays.NewDataset(nil, "")}

	info := []TripInfo{
		{ServiceID: "SVC_1", NonOperativeDays: "", StartDate: "20250101", EndDate: "20251231"},
	}
	dates, err := conv.projectCalendarDates(context.Background(), info, map[string]bool{"SVC_1": true}, NewWarningAggregator())
	require.NoError(t, err)
	assert.Nil(t, dates)

	t.Logf("✓ No non-operation tokens, no exception rows")
}
