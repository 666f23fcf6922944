package converter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/fetchcache"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/naptan"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

const testRegistryCSV = `ATCOCode,NaptanCode,CommonName,Longitude,Latitude
9400ZZLUASL1,luasl,Arsenal Underground Station,-0.105695,51.558655
9400ZZLUFPK2,lufpk,Finsbury Park Underground Station,-0.106835,51.564158
DUPSTOP,dup,First Match,-0.1,51.5
DUPSTOP,dup,Second Match,-0.2,51.6
`

// newTestRegistry serves the given CSV over a local listener and wires
// it through a real cache, the same path production lookups take.
func newTestRegistry(t *testing.T, csv string) *naptan.Registry {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(csv))
	}))
	t.Cleanup(srv.Close)
	return naptan.NewRegistry(fetchcache.New(t.TempDir()), srv.URL)
}

func TestResolveInlineStops(t *testing.T) {
	conv := &Converter{Registry: newTestRegistry(t, testRegistryCSV)}
	doc := &txc.Document{
		StopPoints: txc.StopPoints{Inline: []txc.StopPoint{
			{AtcoCode: "9400ZZLUASL1", CommonName: "Arsenal (document name)",
				Location: txc.Location{Easting: "531274", Northing: "186397"}},
			{AtcoCode: "GRIDSTOP", CommonName: "Caister Water Tower",
				Location: txc.Location{Easting: "651409.903", Northing: "313177.270"}},
			{AtcoCode: "DEGREESTOP", CommonName: "Degrees In Grid Slots",
				Location: txc.Location{Easting: "-0.106", Northing: "51.560"}},
			{AtcoCode: "GEOSTOP", CommonName: "Geographic Pair",
				Location: txc.Location{Longitude: "-0.2", Latitude: "51.49"}},
			{AtcoCode: "LOSTSTOP", CommonName: "Nowhere To Be Found"},
		}},
	}

	warnings := NewWarningAggregator()
	stops, err := conv.resolveStops(context.Background(), doc, warnings)
	require.NoError(t, err)
	require.Len(t, stops, 4)

	arsenal := stops[0]
	assert.Equal(t, "Arsenal Underground Station", arsenal.Name,
		"the registry record wins over the document")
	assert.InDelta(t, 51.558655, arsenal.Lat, 1e-9)
	assert.InDelta(t, -0.105695, arsenal.Lon, 1e-9)

	grid := stops[1]
	assert.Equal(t, "Caister Water Tower", grid.Name)
	assert.InDelta(t, 52.658008, grid.Lat, 0.0005, "grid metres transform to degrees")
	assert.InDelta(t, 1.716074, grid.Lon, 0.0005)

	degrees := stops[2]
	assert.InDelta(t, 51.560, degrees.Lat, 1e-9, "small values in the grid slots read as degrees")
	assert.InDelta(t, -0.106, degrees.Lon, 1e-9)

	geo := stops[3]
	assert.InDelta(t, 51.49, geo.Lat, 1e-9)
	assert.InDelta(t, -0.2, geo.Lon, 1e-9)

	assert.Equal(t, 1, warnings.Count(WarningStopNotFound))

	t.Logf("✓ Resolved %d of %d inline stops", len(stops), len(doc.StopPoints.Inline))
}

func TestResolveStopRefs(t *testing.T) {
	conv := &Converter{Registry: newTestRegistry(t, testRegistryCSV)}
	doc := &txc.Document{
		StopPoints: txc.StopPoints{Refs: []txc.AnnotatedStopPointRef{
			{StopPointRef: "9400ZZLUFPK2", CommonName: "Finsbury Park"},
			{StopPointRef: "MISSINGREF", CommonName: "Not Registered"},
		}},
	}

	warnings := NewWarningAggregator()
	stops, err := conv.resolveStops(context.Background(), doc, warnings)
	require.NoError(t, err)
	require.Len(t, stops, 1, "referenced stops have no coordinates to fall back on")

	assert.Equal(t, "9400ZZLUFPK2", stops[0].ID)
	assert.Equal(t, "Finsbury Park Underground Station", stops[0].Name)
	assert.Equal(t, 1, warnings.Count(WarningStopNotFound))

	t.Logf("✓ Reference-style stops resolved against the registry")
}

func TestResolveStopsUnknownVariant(t *testing.T) {
	conv := &Converter{Registry: newTestRegistry(t, testRegistryCSV)}

	_, err := conv.resolveStops(context.Background(), &txc.Document{}, NewWarningAggregator())
	require.ErrorIs(t, err, txc.ErrUnknownStopVariant)

	t.Logf("✓ A document without stop declarations is rejected")
}

func TestResolveStopsDuplicateRegistryRecord(t *testing.T) {
	conv := &Converter{Registry: newTestRegistry(t, testRegistryCSV)}
	doc := &txc.Document{
		StopPoints: txc.StopPoints{Inline: []txc.StopPoint{
			{AtcoCode: "DUPSTOP", CommonName: "Ambiguous"},
		}},
	}

	_, err := conv.resolveStops(context.Background(), doc, NewWarningAggregator())
	require.Error(t, err)

	var dup *naptan.DuplicateStopError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "DUPSTOP", dup.Ref)

	t.Logf("✓ Ambiguous registry reference fails the document: %v", err)
}
