package txc

import (
	"fmt"
	"strconv"
	"strings"
)

var runTimeUnits = []struct {
	suffix  string
	seconds int
}{
	{"H", 3600},
	{"M", 60},
	{"S", 1},
}

// ParseRunTime converts an ISO 8601 time duration such as PT2M30S to
// seconds. Only the hour, minute and second designators used by
// TransXChange run times are supported.
func ParseRunTime(runtime string) (int, error) {
	rest, ok := strings.CutPrefix(runtime, "PT")
	if !ok {
		return 0, fmt.Errorf("invalid run time %q", runtime)
	}

	total := 0
	for _, unit := range runTimeUnits {
		value, after, found := strings.Cut(rest, unit.suffix)
		if !found {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid run time %q: %w", runtime, err)
		}
		total += n * unit.seconds
		rest = after
	}
	if rest != "" {
		return 0, fmt.Errorf("invalid run time %q: trailing %q", runtime, rest)
	}
	return total, nil
}
