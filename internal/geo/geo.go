// Package geo holds the GPS math and the geometry encodings used by the
// journal and the route map.
package geo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"fsa_tracker/internal/visit"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

const earthRadius = 6371000 // meters

var ErrNotPoint = errors.New("geometry is not a point")

// Distance is the haversine distance in meters between two fixes.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Bearing is the initial bearing in degrees, 0..360.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLon := toRadians(lon2 - lon1)

	y := math.Sin(deltaLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)

	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// PointWKB encodes a fix as a little-endian WKB point. A nil fix encodes to nil.
func PointWKB(c *visit.Coordinates) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	p := geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude})
	return wkb.Marshal(p, binary.LittleEndian)
}

// PointFromWKB decodes what PointWKB wrote. Empty input decodes to nil.
func PointFromWKB(b []byte) (*visit.Coordinates, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotPoint, g)
	}
	return &visit.Coordinates{Latitude: p.Y(), Longitude: p.X()}, nil
}

// RouteFeatures renders the route for the map: one point feature per stop with
// a known location, plus a line through them in visiting order.
func RouteFeatures(r visit.Route) *gjson.FeatureCollection {
	fc := &gjson.FeatureCollection{Features: []*gjson.Feature{}}
	var flat []float64
	for _, s := range r.Stops {
		at := s.Planned
		if at == nil {
			at = s.Location
		}
		if at == nil {
			continue
		}
		flat = append(flat, at.Longitude, at.Latitude)
		fc.Features = append(fc.Features, &gjson.Feature{
			ID:       s.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{at.Longitude, at.Latitude}),
			Properties: map[string]interface{}{
				"sequence":      s.Sequence,
				"stop_type":     s.Type,
				"status":        s.Status,
				"customer_name": s.CustomerName,
			},
		})
	}
	if len(flat) >= 4 {
		fc.Features = append(fc.Features, &gjson.Feature{
			ID:         r.ID,
			Geometry:   geom.NewLineStringFlat(geom.XY, flat),
			Properties: map[string]interface{}{"route": r.ID},
		})
	}
	return fc
}
