package txc

import (
	"fmt"
	"strings"
)

var weekdayIndex = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// ParseDayRange expands an operating day token into per-day flags,
// Monday first. Tokens name a single day, a pipe-joined list of days,
// a range such as MondayToFriday, or Weekend.
func ParseDayRange(token string) ([7]int, error) {
	var flags [7]int

	if strings.Contains(token, "To") {
		first, second, _ := strings.Cut(token, "To")
		start, ok := weekdayIndex[strings.ToLower(first)]
		if !ok {
			return flags, fmt.Errorf("unknown weekday %q in day range %q", first, token)
		}
		end, ok := weekdayIndex[strings.ToLower(second)]
		if !ok {
			return flags, fmt.Errorf("unknown weekday %q in day range %q", second, token)
		}
		for day := start; day <= end; day++ {
			flags[day] = 1
		}
		return flags, nil
	}

	if strings.EqualFold(token, "weekend") {
		flags[5] = 1
		flags[6] = 1
		return flags, nil
	}

	for _, name := range strings.Split(token, "|") {
		day, ok := weekdayIndex[strings.ToLower(name)]
		if !ok {
			return flags, fmt.Errorf("unknown weekday %q in day token %q", name, token)
		}
		flags[day] = 1
	}
	return flags, nil
}
