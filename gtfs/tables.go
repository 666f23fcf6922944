package gtfs

// TableNames lists the feed tables in the order they are assembled and
// written into the output zip.
var TableNames = []string{
	"agency",
	"stops",
	"routes",
	"trips",
	"stop_times",
	"calendar",
	"calendar_dates",
}

// Columns gives the output column order for each table. Storage inserts
// and the CSV export both follow this order so the two cannot drift.
var Columns = map[string][]string{
	"agency":         {"agency_id", "agency_name", "agency_url", "agency_timezone", "agency_lang"},
	"stops":          {"stop_id", "stop_code", "stop_name", "stop_lat", "stop_lon", "stop_url"},
	"routes":         {"route_id", "agency_id", "route_private_id", "route_long_name", "route_short_name", "route_type", "route_section_id"},
	"trips":          {"route_id", "service_id", "trip_id", "trip_headsign", "direction_id"},
	"stop_times":     {"trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence", "timepoint"},
	"calendar":       {"service_id", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "start_date", "end_date"},
	"calendar_dates": {"service_id", "date", "exception_type"},
}

// NumericColumns marks the columns written bare in the CSV output.
// Every other value is quoted, empty strings included.
var NumericColumns = map[string]map[string]bool{
	"stops":      {"stop_lat": true, "stop_lon": true},
	"routes":     {"route_type": true},
	"trips":      {"direction_id": true},
	"stop_times": {"stop_sequence": true, "timepoint": true},
	"calendar": {
		"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": true, "sunday": true,
	},
	"calendar_dates": {"exception_type": true},
}
