package txc

import (
	"encoding/xml"
	"strings"
)

// Document is the typed root of one TransXChange file.
type Document struct {
	XMLName                xml.Name                `xml:"TransXChange"`
	StopPoints             StopPoints              `xml:"StopPoints"`
	Routes                 []Route                 `xml:"Routes>Route"`
	JourneyPatternSections []JourneyPatternSection `xml:"JourneyPatternSections>JourneyPatternSection"`
	Operators              []Operator              `xml:"Operators>Operator"`
	Services               []Service               `xml:"Services>Service"`
	VehicleJourneys        []VehicleJourney        `xml:"VehicleJourneys>VehicleJourney"`
}

// StopPoints is the stop declaration container. Exactly one of the two
// child lists is populated in a well-formed document.
type StopPoints struct {
	Inline []StopPoint             `xml:"StopPoint"`
	Refs   []AnnotatedStopPointRef `xml:"AnnotatedStopPointRef"`
}

// StopPoint is an inline stop definition with its own location.
type StopPoint struct {
	AtcoCode   string   `xml:"AtcoCode"`
	CommonName string   `xml:"Descriptor>CommonName"`
	Location   Location `xml:"Place>Location"`
}

// Location carries whichever coordinate pair the document supplies.
// Values stay raw strings; interpretation (grid versus geographic) is
// the resolver's call.
type Location struct {
	Easting   string `xml:"Easting"`
	Northing  string `xml:"Northing"`
	Longitude string `xml:"Longitude"`
	Latitude  string `xml:"Latitude"`
}

// AnnotatedStopPointRef is a bare reference into the national registry.
type AnnotatedStopPointRef struct {
	StopPointRef string `xml:"StopPointRef"`
	CommonName   string `xml:"CommonName"`
}

// Route is the physical path description of a service.
type Route struct {
	ID              string `xml:"id,attr"`
	PrivateCode     string `xml:"PrivateCode"`
	Description     string `xml:"Description"`
	RouteSectionRef string `xml:"RouteSectionRef"`
}

// JourneyPatternSection is an ordered run of timing links shared by
// journey patterns.
type JourneyPatternSection struct {
	ID    string       `xml:"id,attr"`
	Links []TimingLink `xml:"JourneyPatternTimingLink"`
}

// TimingLink is one stop-to-stop leg with its scheduled run time.
type TimingLink struct {
	From         LinkEnd `xml:"From"`
	To           LinkEnd `xml:"To"`
	RouteLinkRef string  `xml:"RouteLinkRef"`
	RunTime      string  `xml:"RunTime"`
}

// LinkEnd is one end of a timing link.
type LinkEnd struct {
	StopPointRef string `xml:"StopPointRef"`
}

// Operator identifies who runs a service.
type Operator struct {
	ID            string `xml:"id,attr"`
	NameOnLicence string `xml:"OperatorNameOnLicence"`
	TradingName   string `xml:"TradingName"`
}

// Service groups journey patterns with their shared line, operator and
// operating period metadata.
type Service struct {
	ServiceCode           string            `xml:"ServiceCode"`
	RegisteredOperatorRef string            `xml:"RegisteredOperatorRef"`
	Mode                  string            `xml:"Mode"`
	Description           string            `xml:"Description"`
	Lines                 []Line            `xml:"Lines>Line"`
	OperatingPeriod       OperatingPeriod   `xml:"OperatingPeriod"`
	OperatingProfile      *OperatingProfile `xml:"OperatingProfile"`
	StandardService       StandardService   `xml:"StandardService"`
}

// Line names a service line.
type Line struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"LineName"`
}

// OperatingPeriod is the service validity window. EndDate may be empty
// for open-ended registrations.
type OperatingPeriod struct {
	StartDate string `xml:"StartDate"`
	EndDate   string `xml:"EndDate"`
}

// StandardService holds the journey patterns and their shared origin
// and destination names.
type StandardService struct {
	Origin          string           `xml:"Origin"`
	Destination     string           `xml:"Destination"`
	JourneyPatterns []JourneyPattern `xml:"JourneyPattern"`
}

// JourneyPattern is the logical stop path of a service in one
// direction, built from one or more referenced sections in order.
type JourneyPattern struct {
	ID          string       `xml:"id,attr"`
	Direction   string       `xml:"Direction"`
	RouteRef    string       `xml:"RouteRef"`
	SectionRefs []string     `xml:"JourneyPatternSectionRefs"`
	Operational *Operational `xml:"Operational"`
}

// Operational carries the vehicle assignment of a journey pattern.
type Operational struct {
	VehicleTypeCode    string `xml:"VehicleType>VehicleTypeCode"`
	VehicleDescription string `xml:"VehicleType>Description"`
}

// VehicleJourney is one scheduled run over a journey pattern.
type VehicleJourney struct {
	VehicleJourneyCode string            `xml:"VehicleJourneyCode"`
	ServiceRef         string            `xml:"ServiceRef"`
	JourneyPatternRef  string            `xml:"JourneyPatternRef"`
	DepartureTime      string            `xml:"DepartureTime"`
	OperatingProfile   *OperatingProfile `xml:"OperatingProfile"`
}

// OperatingProfile describes when a journey or service runs: regular
// weekdays plus bank-holiday exclusions.
type OperatingProfile struct {
	DaysOfWeek         DayTokens `xml:"RegularDayType>DaysOfWeek"`
	DaysOfNonOperation DayTokens `xml:"BankHolidayOperation>DaysOfNonOperation"`
}

// DayTokens captures a day list whose data lives in the element names
// themselves, in document order.
type DayTokens struct {
	Tokens []DayToken `xml:",any"`
}

// DayToken is one named day element.
type DayToken struct {
	XMLName xml.Name
}

// Join returns the token local names pipe-joined in document order, or
// the empty string for an empty list. Tokens are kept verbatim; ranges
// like MondayToFriday are expanded later, where the calendar needs
// concrete days.
func (d DayTokens) Join() string {
	if len(d.Tokens) == 0 {
		return ""
	}
	names := make([]string, len(d.Tokens))
	for i, t := range d.Tokens {
		names[i] = t.XMLName.Local
	}
	return strings.Join(names, "|")
}

// OperatingDays returns the journey's own weekday tokens, or the empty
// string when the journey has no operating profile of its own.
func (v *VehicleJourney) OperatingDays() string {
	if v.OperatingProfile == nil {
		return ""
	}
	return v.OperatingProfile.DaysOfWeek.Join()
}

// NonOperationDays returns the journey's own bank-holiday exclusion
// tokens, or the empty string when it declares none.
func (v *VehicleJourney) NonOperationDays() string {
	if v.OperatingProfile == nil {
		return ""
	}
	return v.OperatingProfile.DaysOfNonOperation.Join()
}

// OperatingDays returns the service-level weekday tokens used when a
// vehicle journey has no profile of its own.
func (s *Service) OperatingDays() string {
	if s.OperatingProfile == nil {
		return ""
	}
	return s.OperatingProfile.DaysOfWeek.Join()
}

// NonOperationDays returns the service-level bank-holiday exclusion
// tokens.
func (s *Service) NonOperationDays() string {
	if s.OperatingProfile == nil {
		return ""
	}
	return s.OperatingProfile.DaysOfNonOperation.Join()
}

// LineName returns the first declared line name of the service.
func (s *Service) LineName() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return s.Lines[0].Name
}
