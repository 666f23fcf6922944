package converter

// TripInfo is one stop visit of one vehicle journey, denormalized with the
// journey, service and operator context it was extracted under. The
// projectors slice this table into the GTFS entity tables, so every visit
// carries everything any table needs.
type TripInfo struct {
	// Stop visit. StopSequence starts at 1 and increases strictly within a
	// trip; Timepoint is 1 on the first visit, 0 after. Times are on the
	// service-day clock: HH:MM:SS with hours past 24 for visits after
	// midnight.
	StopID        string
	StopSequence  int
	Timepoint     int
	ArrivalTime   string
	DepartureTime string
	RouteLinkRef  string

	// Journey identity. TripID is synthesized from the pattern's first
	// section reference, the weekday tokens and the departure HHMM.
	TripID           string
	VehicleJourneyID string
	JourneyPatternID string
	SectionRef       string
	DirectionID      int
	Headsign         string

	// Service and operator context. ServiceID is synthesized after the
	// service's journeys are walked; StartDate/EndDate are YYYYMMDD with an
	// empty EndDate for open-ended registrations.
	AgencyID           string
	RouteID            string
	ServiceRef         string
	ServiceCode        string
	ServiceID          string
	LineName           string
	TravelMode         int
	ServiceDescription string
	VehicleType        string
	VehicleDescription string
	StartDate          string
	EndDate            string
	Weekdays           string
	NonOperativeDays   string
}
