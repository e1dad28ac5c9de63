package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headOffice = Coordinate{Latitude: 28.396897154550135, Longitude: 77.04149192330433}

func TestEvaluateProximity_SamePoint(t *testing.T) {
	for _, threshold := range []float64{0, 1, 100, 5000} {
		res, err := EvaluateProximity(headOffice, headOffice, threshold)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.DistanceMeters)
		assert.True(t, res.WithinRange, "threshold %v", threshold)
		assert.Equal(t, "0 m", res.FormattedDistance)
	}
}

func TestEvaluateProximity_OneDegreeOfLatitude(t *testing.T) {
	res, err := EvaluateProximity(Coordinate{0, 0}, Coordinate{1, 0}, 100)
	require.NoError(t, err)

	assert.InDelta(t, 111194.9266, res.DistanceMeters, 0.01)
	assert.False(t, res.WithinRange)
	assert.Equal(t, "111.19 km", res.FormattedDistance)
}

func TestEvaluateProximity_ThresholdIsInclusive(t *testing.T) {
	reporter := Coordinate{Latitude: 28.3975, Longitude: 77.0418}
	d := HaversineDistance(reporter, headOffice)

	res, err := EvaluateProximity(reporter, headOffice, d)
	require.NoError(t, err)
	assert.True(t, res.WithinRange)

	res, err = EvaluateProximity(reporter, headOffice, math.Nextafter(d, 0))
	require.NoError(t, err)
	assert.False(t, res.WithinRange)
}

func TestEvaluateProximity_Symmetric(t *testing.T) {
	a := Coordinate{Latitude: -6.2088, Longitude: 106.8456}
	b := Coordinate{Latitude: -7.5755, Longitude: 110.8243}

	assert.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-6)
}

func TestEvaluateProximity_InvalidCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		reporter Coordinate
		office   Coordinate
	}{
		{"latitude above range", Coordinate{90.0001, 0}, headOffice},
		{"latitude below range", Coordinate{-91, 0}, headOffice},
		{"longitude above range", Coordinate{0, 180.5}, headOffice},
		{"longitude below range", Coordinate{0, -181}, headOffice},
		{"nan latitude", Coordinate{math.NaN(), 0}, headOffice},
		{"infinite longitude", Coordinate{0, math.Inf(1)}, headOffice},
		{"invalid office", headOffice, Coordinate{0, 200}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateProximity(tc.reporter, tc.office, 100)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestEvaluateProximity_RangeBoundariesAreValid(t *testing.T) {
	for _, c := range []Coordinate{{90, 180}, {-90, -180}, {0, 0}} {
		_, err := EvaluateProximity(c, headOffice, 100)
		assert.NoError(t, err, c.String())
	}
}

func TestEvaluateProximity_NegativeThreshold(t *testing.T) {
	_, err := EvaluateProximity(headOffice, headOffice, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{12.4, "12 m"},
		{12.5, "13 m"},
		{999, "999 m"},
		{999.4, "999 m"},
		{1000, "1.00 km"},
		{1234.5, "1.23 km"},
		{25000, "25.00 km"},
	}
	for _, c := range cases {
		if got := FormatDistance(c.meters); got != c.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", c.meters, got, c.want)
		}
	}
}
