package naptan

import "math"

// Airy 1830 ellipsoid and the national grid Transverse Mercator
// parameters, per the Ordnance Survey definition.
const (
	airyA = 6377563.396
	airyB = 6356256.909

	gridScale  = 0.9996012717
	gridLat0   = 49.0 * math.Pi / 180
	gridLon0   = -2.0 * math.Pi / 180
	gridEast0  = 400000.0
	gridNorth0 = -100000.0
)

// WGS84 ellipsoid.
const (
	wgsA = 6378137.0
	wgsB = 6356752.3142
)

// Published OSGB36 to WGS84 Helmert parameters: metres, arc seconds
// and parts per million.
const (
	helmertTX = 446.448
	helmertTY = -125.157
	helmertTZ = 542.060
	helmertRX = 0.1502
	helmertRY = 0.2470
	helmertRZ = 0.8421
	helmertS  = -20.4894
)

// LooksProjected reports whether a coordinate value reads as a national
// grid easting rather than a longitude. Longitudes cannot exceed 180 in
// magnitude; grid eastings in Great Britain run into the hundreds of
// thousands.
func LooksProjected(x float64) bool {
	return math.Abs(x) > 180
}

// OSGBToWGS84 converts a British national grid easting/northing pair to
// WGS84 latitude and longitude in degrees. The coordinate is
// unprojected on the Airy 1830 ellipsoid and datum-shifted with the
// published seven-parameter Helmert transformation, which is accurate
// to a few metres.
func OSGBToWGS84(easting, northing float64) (lat, lon float64) {
	phi, lambda := gridToLatLon(easting, northing)
	x, y, z := geodeticToCartesian(phi, lambda, airyA, airyB)
	x, y, z = helmertToWGS84(x, y, z)
	phi, lambda = cartesianToGeodetic(x, y, z, wgsA, wgsB)
	return phi * 180 / math.Pi, lambda * 180 / math.Pi
}

// gridToLatLon is the inverse Transverse Mercator projection, giving
// latitude and longitude in radians on the Airy 1830 ellipsoid.
func gridToLatLon(e, n float64) (float64, float64) {
	e2 := (airyA*airyA - airyB*airyB) / (airyA * airyA)

	phi := gridLat0
	m := 0.0
	for {
		phi += (n - gridNorth0 - m) / (airyA * gridScale)
		m = meridionalArc(phi)
		if math.Abs(n-gridNorth0-m) < 1e-5 {
			break
		}
	}

	sinPhi := math.Sin(phi)
	nu := airyA * gridScale / math.Sqrt(1-e2*sinPhi*sinPhi)
	rho := airyA * gridScale * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	eta2 := nu/rho - 1

	tanPhi := math.Tan(phi)
	tan2 := tanPhi * tanPhi
	secPhi := 1 / math.Cos(phi)

	// Series terms VII through XIIA follow the Ordnance Survey guide.
	VII := tanPhi / (2 * rho * nu)
	VIII := tanPhi / (24 * rho * nu * nu * nu) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	IX := tanPhi / (720 * rho * math.Pow(nu, 5)) * (61 + 90*tan2 + 45*tan2*tan2)
	X := secPhi / nu
	XI := secPhi / (6 * nu * nu * nu) * (nu/rho + 2*tan2)
	XII := secPhi / (120 * math.Pow(nu, 5)) * (5 + 28*tan2 + 24*tan2*tan2)
	XIIA := secPhi / (5040 * math.Pow(nu, 7)) * (61 + 662*tan2 + 1320*tan2*tan2 + 720*tan2*tan2*tan2)

	dE := e - gridEast0
	lat := phi - VII*dE*dE + VIII*math.Pow(dE, 4) - IX*math.Pow(dE, 6)
	lon := gridLon0 + X*dE - XI*dE*dE*dE + XII*math.Pow(dE, 5) - XIIA*math.Pow(dE, 7)
	return lat, lon
}

func meridionalArc(phi float64) float64 {
	n := (airyA - airyB) / (airyA + airyB)
	dPhi := phi - gridLat0
	sPhi := phi + gridLat0
	return airyB * gridScale * ((1+n+1.25*n*n+1.25*n*n*n)*dPhi -
		(3*n+3*n*n+(21.0/8)*n*n*n)*math.Sin(dPhi)*math.Cos(sPhi) +
		((15.0/8)*n*n+(15.0/8)*n*n*n)*math.Sin(2*dPhi)*math.Cos(2*sPhi) -
		(35.0/24)*n*n*n*math.Sin(3*dPhi)*math.Cos(3*sPhi))
}

func geodeticToCartesian(phi, lambda, a, b float64) (x, y, z float64) {
	e2 := (a*a - b*b) / (a * a)
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	nu := a / math.Sqrt(1-e2*sinPhi*sinPhi)
	x = nu * cosPhi * math.Cos(lambda)
	y = nu * cosPhi * math.Sin(lambda)
	z = (1 - e2) * nu * sinPhi
	return x, y, z
}

func helmertToWGS84(x, y, z float64) (float64, float64, float64) {
	const asec = math.Pi / (180 * 3600)
	rx := helmertRX * asec
	ry := helmertRY * asec
	rz := helmertRZ * asec
	s := 1 + helmertS*1e-6

	x2 := helmertTX + s*x - rz*y + ry*z
	y2 := helmertTY + rz*x + s*y - rx*z
	z2 := helmertTZ - ry*x + rx*y + s*z
	return x2, y2, z2
}

func cartesianToGeodetic(x, y, z, a, b float64) (phi, lambda float64) {
	e2 := (a*a - b*b) / (a * a)
	p := math.Hypot(x, y)

	phi = math.Atan2(z, p*(1-e2))
	for i := 0; i < 10; i++ {
		sinPhi := math.Sin(phi)
		nu := a / math.Sqrt(1-e2*sinPhi*sinPhi)
		next := math.Atan2(z+e2*nu*sinPhi, p)
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}
	return phi, math.Atan2(y, x)
}
