// Package geo computes great-circle distances between pharmacy locations and
// a search origin, both in process and as a SQL expression for Postgres.
package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// EarthRadiusKm is the mean Earth radius used by every distance computation.
const EarthRadiusKm = 6371.0

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point lies inside the latitude/longitude ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(math.Min(1, h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ParseCoordinate parses a stored coordinate string. It returns false when the
// value is absent or is not a plain decimal number.
func ParseCoordinate(raw *string) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// ParsePoint parses a latitude/longitude pair. Both values must parse and the
// resulting point must be inside the valid coordinate ranges.
func ParsePoint(lat, lng *string) (Point, bool) {
	la, ok := ParseCoordinate(lat)
	if !ok {
		return Point{}, false
	}
	lo, ok := ParseCoordinate(lng)
	if !ok {
		return Point{}, false
	}
	p := Point{Lat: la, Lng: lo}
	if !p.Valid() {
		return Point{}, false
	}
	return p, true
}

// DistanceKm returns the distance between the origin and a point given as
// stored strings. A nil result means the distance is unknown; callers must not
// treat it as zero.
func DistanceKm(originLat, originLng, pointLat, pointLng *string) *float64 {
	origin, ok := ParsePoint(originLat, originLng)
	if !ok {
		return nil
	}
	return DistanceFrom(origin, pointLat, pointLng)
}

// DistanceFrom is DistanceKm for an origin that has already been parsed.
func DistanceFrom(origin Point, pointLat, pointLng *string) *float64 {
	p, ok := ParsePoint(pointLat, pointLng)
	if !ok {
		return nil
	}
	d := Haversine(origin, p)
	return &d
}

// numericPattern accepts every string ParseCoordinate accepts, possibly more;
// the SQL expression is only a pre-filter.
const numericPattern = `^\s*[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?\s*$`

// SafeCoordinateSQL casts a text coordinate column to double precision,
// yielding NULL for values that are not numeric instead of failing the query.
func SafeCoordinateSQL(column string) string {
	return fmt.Sprintf("(CASE WHEN %s ~ '%s' THEN %s::double precision END)", column, numericPattern, column)
}

// HaversineSQL renders Haversine as a Postgres expression. latExpr and lngExpr
// are the point coordinates (already numeric), originLat and originLng are the
// placeholders holding the origin. The constant and formula shape match
// Haversine exactly.
func HaversineSQL(latExpr, lngExpr, originLat, originLng string) string {
	return fmt.Sprintf(
		"(2 * %s * ASIN(SQRT(LEAST(1, POWER(SIN(RADIANS(%s - %s) / 2), 2) + COS(RADIANS(%s)) * COS(RADIANS(%s)) * POWER(SIN(RADIANS(%s - %s) / 2), 2)))))",
		formatRadius(), latExpr, originLat, originLat, latExpr, lngExpr, originLng,
	)
}

func formatRadius() string {
	return decimal.NewFromFloat(EarthRadiusKm).String()
}
