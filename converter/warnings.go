package converter

import (
	"fmt"
	"log"
	"strings"
)

// Warning type constants
const (
	WarningStopNotFound      = "stop_not_found"
	WarningUnknownHoliday    = "unknown_holiday"
	WarningDegenerateTrip    = "degenerate_trip"
	WarningUnmatchedJourney  = "unmatched_journey"
	WarningRouteWithoutTrips = "route_without_trips"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects warnings during conversion and outputs consolidated summaries
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns how many occurrences of a warning type were recorded.
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(fileName string) {
	if len(w.warnings) == 0 {
		return
	}

	for warningType, info := range w.warnings {
		message := w.formatWarningMessage(warningType, fileName, info)
		log.Printf("%s", message)
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, fileName string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningStopNotFound:
		description = "stop references without a NaPTAN registry record"
		action = "Excluding those stops from the feed"
	case WarningUnknownHoliday:
		description = "unrecognized bank holiday tokens"
		action = "Skipping them when materializing calendar_dates"
	case WarningDegenerateTrip:
		description = "trips without a sequence of stops"
		action = "Excluding them from stop_times, trips and calendars"
	case WarningUnmatchedJourney:
		description = "vehicle journeys whose journey pattern belongs to no service"
		action = "Skipping those journeys"
	case WarningRouteWithoutTrips:
		description = "routes never used by a vehicle journey"
		action = "Excluding them from routes"
	default:
		description = "unknown issue"
		action = "Continuing with fallback behavior"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("File %s has %s (%d occurrences). %s. Examples: %s",
		fileName, description, info.count, action, examplesStr)
}
