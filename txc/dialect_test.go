package txc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	inbound, err := ParseDirection("inbound")
	require.NoError(t, err)
	assert.Equal(t, 0, inbound)

	outbound, err := ParseDirection("outbound")
	require.NoError(t, err)
	assert.Equal(t, 1, outbound)

	_, err = ParseDirection("clockwise")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot determine direction from "clockwise"`)

	t.Logf("✓ Direction vocabulary mapped, unknown token rejected")
}

func TestRouteTypeForMode(t *testing.T) {
	cases := []struct {
		mode string
		want int
	}{
		{"tram", 0},
		{"trolleyBus", 0},
		{"underground", 1},
		{"metro", 1},
		{"rail", 2},
		{"bus", 3},
		{"coach", 3},
		{"ferry", 4},
		{"", 3},
		{"funicular", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RouteTypeForMode(tc.mode), "mode %q", tc.mode)
	}

	t.Logf("✓ %d travel modes mapped to route types", len(cases))
}

func TestParseDayRange(t *testing.T) {
	cases := []struct {
		token string
		want  [7]int
	}{
		{"Monday", [7]int{1, 0, 0, 0, 0, 0, 0}},
		{"Sunday", [7]int{0, 0, 0, 0, 0, 0, 1}},
		{"MondayToFriday", [7]int{1, 1, 1, 1, 1, 0, 0}},
		{"MondayToSunday", [7]int{1, 1, 1, 1, 1, 1, 1}},
		{"SaturdayToSunday", [7]int{0, 0, 0, 0, 0, 1, 1}},
		{"Weekend", [7]int{0, 0, 0, 0, 0, 1, 1}},
		{"Saturday|Sunday", [7]int{0, 0, 0, 0, 0, 1, 1}},
		{"Monday|Wednesday|Friday", [7]int{1, 0, 1, 0, 1, 0, 0}},
	}
	for _, tc := range cases {
		got, err := ParseDayRange(tc.token)
		require.NoError(t, err, "token %q", tc.token)
		assert.Equal(t, tc.want, got, "token %q", tc.token)
	}

	// Inverted ranges expand to nothing rather than failing.
	got, err := ParseDayRange("FridayToMonday")
	require.NoError(t, err)
	assert.Equal(t, [7]int{}, got)

	_, err = ParseDayRange("Fryday")
	require.Error(t, err)
	_, err = ParseDayRange("MondayToNoday")
	require.Error(t, err)
	_, err = ParseDayRange("")
	require.Error(t, err)

	t.Logf("✓ Day tokens expanded across %d shapes", len(cases))
}

func TestParseRunTime(t *testing.T) {
	cases := []struct {
		runtime string
		want    int
	}{
		{"PT0S", 0},
		{"PT30S", 30},
		{"PT2M", 120},
		{"PT2M30S", 150},
		{"PT1H", 3600},
		{"PT1H30M", 5400},
		{"PT1H2M3S", 3723},
		{"PT", 0},
	}
	for _, tc := range cases {
		got, err := ParseRunTime(tc.runtime)
		require.NoError(t, err, "runtime %q", tc.runtime)
		assert.Equal(t, tc.want, got, "runtime %q", tc.runtime)
	}

	for _, bad := range []string{"2M30S", "PT2X", "PTM", ""} {
		_, err := ParseRunTime(bad)
		require.Error(t, err, "runtime %q", bad)
	}

	t.Logf("✓ Run time durations parsed across %d shapes", len(cases))
}
