package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s1"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

// DefaultThresholdMeters is the attendance radius used when an office has none configured.
const DefaultThresholdMeters = 100

var (
	// ErrInvalidCoordinate reports a non-finite or out of range latitude or longitude.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidThreshold reports a negative or NaN radius.
	ErrInvalidThreshold = errors.New("invalid proximity threshold")
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are finite and inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Latitude, c.Longitude)
}

// ProximityResult is the outcome of comparing a reporter position to an office.
type ProximityResult struct {
	DistanceMeters    float64 `json:"distance_meters"`
	WithinRange       bool    `json:"within_range"`
	FormattedDistance string  `json:"formatted_distance"`
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// HaversineDistance returns the great-circle distance between a and b in meters.
// The caller is responsible for passing valid coordinates.
func HaversineDistance(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// FormatDistance renders kilometers with two decimals from 1000 m upwards and whole meters below.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return fmt.Sprintf("%d m", int64(math.Round(meters)))
}

// EvaluateProximity measures how far reporter is from office and whether that is within
// thresholdMeters (inclusive).
func EvaluateProximity(reporter, office Coordinate, thresholdMeters float64) (ProximityResult, error) {
	if !reporter.Valid() {
		return ProximityResult{}, fmt.Errorf("reporter %w", ErrInvalidCoordinate)
	}
	if !office.Valid() {
		return ProximityResult{}, fmt.Errorf("office %w", ErrInvalidCoordinate)
	}
	if math.IsNaN(thresholdMeters) || thresholdMeters < 0 {
		return ProximityResult{}, ErrInvalidThreshold
	}

	distance := HaversineDistance(reporter, office)

	return ProximityResult{
		DistanceMeters:    distance,
		WithinRange:       distance <= thresholdMeters,
		FormattedDistance: FormatDistance(distance),
	}, nil
}
