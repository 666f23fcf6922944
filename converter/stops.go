package converter

import (
	"context"
	"errors"
	"strconv"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/gtfs"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/naptan"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

// resolveStops projects the document's declared stops, dispatching on
// the stop-declaration variant. Unresolvable stops are counted and
// omitted; a duplicate registry record fails the document.
func (c *Converter) resolveStops(ctx context.Context, doc *txc.Document, warnings *WarningAggregator) ([]gtfs.Stop, error) {
	switch doc.Variant() {
	case txc.VariantInlineStops:
		return c.resolveInlineStops(ctx, doc.StopPoints.Inline, warnings)
	case txc.VariantStopRefs:
		return c.resolveStopRefs(ctx, doc.StopPoints.Refs, warnings)
	}
	return nil, txc.ErrUnknownStopVariant
}

// resolveInlineStops handles documents that define stops inline. The
// registry stays authoritative; the document's own coordinates are only
// a fallback for stops the registry does not know.
func (c *Converter) resolveInlineStops(ctx context.Context, points []txc.StopPoint, warnings *WarningAggregator) ([]gtfs.Stop, error) {
	var stops []gtfs.Stop
	for i := range points {
		point := &points[i]

		record, err := c.Registry.Lookup(ctx, point.AtcoCode)
		if err == nil {
			stops = append(stops, gtfs.Stop{
				ID:   record.ID,
				Name: record.Name,
				Lat:  record.Lat,
				Lon:  record.Lon,
			})
			continue
		}
		if !errors.Is(err, naptan.ErrStopNotFound) {
			return nil, err
		}

		stop, ok := stopFromLocation(point)
		if !ok {
			warnings.Add(WarningStopNotFound, point.AtcoCode)
			continue
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

// resolveStopRefs handles documents that only reference stops. There is
// nothing to fall back on, so registry misses are warned and dropped.
func (c *Converter) resolveStopRefs(ctx context.Context, refs []txc.AnnotatedStopPointRef, warnings *WarningAggregator) ([]gtfs.Stop, error) {
	var stops []gtfs.Stop
	for _, ref := range refs {
		record, err := c.Registry.Lookup(ctx, ref.StopPointRef)
		if err != nil {
			if errors.Is(err, naptan.ErrStopNotFound) {
				warnings.Add(WarningStopNotFound, ref.StopPointRef)
				continue
			}
			return nil, err
		}
		stops = append(stops, gtfs.Stop{
			ID:   record.ID,
			Name: record.Name,
			Lat:  record.Lat,
			Lon:  record.Lon,
		})
	}
	return stops, nil
}

// stopFromLocation builds a stop from the document's own coordinates.
// Values over 180 in magnitude read as national grid metres and are
// transformed; smaller values are already degrees. Geographic pairs are
// the second choice because grid pairs are what inline documents
// normally carry.
func stopFromLocation(point *txc.StopPoint) (gtfs.Stop, bool) {
	loc := point.Location

	x, y, ok := parseCoordinatePair(loc.Easting, loc.Northing)
	if !ok {
		x, y, ok = parseCoordinatePair(loc.Longitude, loc.Latitude)
	}
	if !ok {
		return gtfs.Stop{}, false
	}

	var lat, lon float64
	if naptan.LooksProjected(x) {
		lat, lon = naptan.OSGBToWGS84(x, y)
	} else {
		lon, lat = x, y
	}

	return gtfs.Stop{
		ID:   point.AtcoCode,
		Name: point.CommonName,
		Lat:  lat,
		Lon:  lon,
	}, true
}

func parseCoordinatePair(xs, ys string) (x, y float64, ok bool) {
	if xs == "" || ys == "" {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(xs, 64)
	y, errY := strconv.ParseFloat(ys, 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}
