package utils

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SamplingPoint is one marked location on an environmental sampling map.
type SamplingPoint struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Depth   string  `json:"depth,omitempty"`
	Remarks string  `json:"remarks,omitempty"`
}

// Point converts to an orb point in (lng, lat) order.
func (p SamplingPoint) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// ParseSamplingPoints decodes and validates a sampling point list from
// its stored JSON form. An empty payload is valid and yields nil.
func ParseSamplingPoints(raw []byte) ([]SamplingPoint, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var points []SamplingPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("invalid sampling points JSON: %w", err)
	}
	if err := ValidateSamplingPoints(points); err != nil {
		return nil, err
	}
	return points, nil
}

// ValidateSamplingPoints checks every point for a name and in-range
// coordinates.
func ValidateSamplingPoints(points []SamplingPoint) error {
	for i, p := range points {
		if p.Name == "" {
			return fmt.Errorf("sampling point %d has no name", i)
		}
		if err := validatePoint(p); err != nil {
			return fmt.Errorf("sampling point %d (%s): %w", i, p.Name, err)
		}
	}
	return nil
}

func validatePoint(p SamplingPoint) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of range [-90, 90]", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of range [-180, 180]", p.Lng)
	}
	return nil
}

// SamplingPointsToGeoJSON renders a point list as a GeoJSON feature
// collection for map overlays.
func SamplingPointsToGeoJSON(points []SamplingPoint) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(p.Point())
		f.Properties["name"] = p.Name
		if p.Depth != "" {
			f.Properties["depth"] = p.Depth
		}
		if p.Remarks != "" {
			f.Properties["remarks"] = p.Remarks
		}
		fc.Append(f)
	}
	return fc.MarshalJSON()
}

// SamplingBoundCenter returns the center of the bounding box enclosing
// the points, used to pick the initial map viewport.
func SamplingBoundCenter(points []SamplingPoint) (orb.Point, error) {
	if len(points) == 0 {
		return orb.Point{}, errors.New("no sampling points")
	}
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, p.Point())
	}
	return mp.Bound().Center(), nil
}
