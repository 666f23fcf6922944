package txc

import "fmt"

// ParseDirection maps a journey pattern direction to a GTFS
// direction_id: 0 for inbound travel, 1 for outbound.
func ParseDirection(direction string) (int, error) {
	switch direction {
	case "inbound":
		return 0, nil
	case "outbound":
		return 1, nil
	}
	return 0, fmt.Errorf("cannot determine direction from %q", direction)
}

// RouteTypeForMode maps a TransXChange travel mode to a GTFS
// route_type. Unrecognized modes fall back to bus.
func RouteTypeForMode(mode string) int {
	switch mode {
	case "tram", "trolleyBus":
		return 0
	case "underground", "metro":
		return 1
	case "rail":
		return 2
	case "bus", "coach":
		return 3
	case "ferry":
		return 4
	}
	return 3
}
