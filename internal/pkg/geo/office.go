package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s1"
)

// ErrNoOffices is returned when an index is built without any office.
var ErrNoOffices = errors.New("no office locations configured")

const (
	// officeTolerance is the half-width of each office's leaf rectangle in degrees.
	officeTolerance = 0.00001
	// boxPadding covers officeTolerance plus rounding in the box bounds.
	boxPadding = 2 * officeTolerance
)

// Office is a location employees can mark attendance at.
type Office struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Location     Coordinate `json:"location"`
	RadiusMeters float64    `json:"radius_meters"`
}

// Threshold is the attendance radius, defaulting to DefaultThresholdMeters.
func (o Office) Threshold() float64 {
	if o.RadiusMeters <= 0 {
		return DefaultThresholdMeters
	}
	return o.RadiusMeters
}

type indexedOffice struct {
	office Office
	point  rtreego.Point
}

func (i *indexedOffice) Bounds() rtreego.Rect {
	return i.point.ToRect(officeTolerance)
}

// OfficeIndex finds the office closest to a reporter.
// Safe for concurrent reads once built.
type OfficeIndex struct {
	tree    *rtreego.Rtree
	offices []Office
}

func NewOfficeIndex(offices ...Office) (*OfficeIndex, error) {
	if len(offices) == 0 {
		return nil, ErrNoOffices
	}

	tree := rtreego.NewTree(2, 2, 8)
	for _, o := range offices {
		if !o.Location.Valid() {
			return nil, fmt.Errorf("office %q: %w", o.ID, ErrInvalidCoordinate)
		}
		tree.Insert(&indexedOffice{
			office: o,
			point:  rtreego.Point{o.Location.Latitude, o.Location.Longitude},
		})
	}

	return &OfficeIndex{tree: tree, offices: offices}, nil
}

// Offices returns the indexed offices in configuration order.
func (x *OfficeIndex) Offices() []Office {
	out := make([]Office, len(x.offices))
	copy(out, x.offices)
	return out
}

// Nearest returns the office with the smallest great-circle distance to c and the proximity
// result against that office's radius.
func (x *OfficeIndex) Nearest(c Coordinate) (Office, ProximityResult, error) {
	if !c.Valid() {
		return Office{}, ProximityResult{}, ErrInvalidCoordinate
	}

	candidates := x.candidates(c)
	best := candidates[0]
	bestDistance := HaversineDistance(c, best.Location)
	for _, o := range candidates[1:] {
		if d := HaversineDistance(c, o.Location); d < bestDistance {
			best, bestDistance = o, d
		}
	}

	result, err := EvaluateProximity(c, best.Location, best.Threshold())
	if err != nil {
		return Office{}, ProximityResult{}, err
	}

	return best, result, nil
}

// candidates returns the planar nearest office followed by every office inside the box that
// bounds its great-circle distance from c. The true nearest office is always among them.
func (x *OfficeIndex) candidates(c Coordinate) []Office {
	seed, ok := x.tree.NearestNeighbor(rtreego.Point{c.Latitude, c.Longitude}).(*indexedOffice)
	if !ok || seed == nil {
		return x.offices
	}

	box, ok := searchBox(c, HaversineDistance(c, seed.office.Location))
	if !ok {
		return x.offices
	}

	hits := x.tree.SearchIntersect(box)
	out := make([]Office, 0, len(hits)+1)
	out = append(out, seed.office)
	for _, s := range hits {
		if io, ok := s.(*indexedOffice); ok && io != nil {
			out = append(out, io.office)
		}
	}
	return out
}

// searchBox returns a degree box holding every point within meters of c. It reports false
// when the box would reach a pole or cross the antimeridian.
func searchBox(c Coordinate, meters float64) (rtreego.Rect, bool) {
	sigma := meters / EarthRadiusMeters
	dLat := s1.Angle(sigma).Degrees()

	maxLat := math.Abs(c.Latitude) + dLat
	if maxLat >= 90 {
		return rtreego.Rect{}, false
	}

	// hav(sigma) >= cos(lat1)cos(lat2)hav(dLon) bounds the longitude span
	spread := math.Sin(sigma/2) / math.Cos(radians(maxLat))
	if spread >= 1 {
		return rtreego.Rect{}, false
	}
	dLon := s1.Angle(2 * math.Asin(spread)).Degrees()
	if c.Longitude-dLon < -180 || c.Longitude+dLon > 180 {
		return rtreego.Rect{}, false
	}

	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{c.Latitude - dLat - boxPadding, c.Longitude - dLon - boxPadding},
		rtreego.Point{c.Latitude + dLat + boxPadding, c.Longitude + dLon + boxPadding},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}
