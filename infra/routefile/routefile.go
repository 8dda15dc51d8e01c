// Package routefile imports pre-computed routes. Segment records follow the
// route provider's convention: distance in metres, per-scenario energy in kWh
// under "<scenario>_energy" and travel time in seconds under "<scenario>_time".
package routefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
	"github.com/ethan-bns24/ECOSPEED-sub000/internal/lenient"
)

const (
	energySuffix = "_energy"
	timeSuffix   = "_time"
)

// ErrNoSegments is returned when a route file holds no segment.
var ErrNoSegments = errors.New("route has no segments")

// Route is an imported route.
type Route struct {
	ID          string
	Start       string
	End         string
	Segments    []model.Segment
	Coordinates []model.Coordinate
	// Elevations is set when the geometry carried a third dimension.
	Elevations []float64
}

type rawRoute struct {
	RouteID       string           `json:"route_id" yaml:"route_id"`
	StartLocation string           `json:"start_location" yaml:"start_location"`
	EndLocation   string           `json:"end_location" yaml:"end_location"`
	Segments      []map[string]any `json:"segments" yaml:"segments"`
	Coordinates   [][]float64      `json:"coordinates" yaml:"coordinates"`
	Geometry      string           `json:"geometry" yaml:"geometry"`
	Elevation     bool             `json:"geometry_elevation" yaml:"geometry_elevation"`
}

// Load reads a route from a .json, .yaml or .yml file.
func Load(path string) (*Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	r, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", path, err)
	}
	return r, nil
}

// Decode parses a route in the given format ("json", "yaml", with or without
// a leading dot).
func Decode(r io.Reader, format string) (*Route, error) {
	var raw rawRoute
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "json":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported route format: %s", format)
	}
	return raw.toRoute()
}

func (raw rawRoute) toRoute() (*Route, error) {
	if len(raw.Segments) == 0 {
		return nil, ErrNoSegments
	}
	route := &Route{ID: raw.RouteID, Start: raw.StartLocation, End: raw.EndLocation}
	route.Segments = make([]model.Segment, len(raw.Segments))
	for i, m := range raw.Segments {
		seg, err := segmentFromMap(i, m)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		route.Segments[i] = seg
	}

	switch {
	case len(raw.Coordinates) > 0:
		route.Coordinates = make([]model.Coordinate, 0, len(raw.Coordinates))
		for i, c := range raw.Coordinates {
			if len(c) < 2 {
				return nil, fmt.Errorf("coordinate %d: expected [lat, lon]", i)
			}
			route.Coordinates = append(route.Coordinates, model.Coordinate{Lat: c[0], Lon: c[1]})
		}
	case raw.Geometry != "":
		coords, elev, err := DecodePolyline(raw.Geometry, raw.Elevation)
		if err != nil {
			return nil, fmt.Errorf("geometry: %w", err)
		}
		route.Coordinates = coords
		route.Elevations = elev
	}
	return route, nil
}

func segmentFromMap(i int, m map[string]any) (model.Segment, error) {
	seg := model.Segment{
		Index:  i,
		Energy: make(map[string]float64),
		Time:   make(map[string]float64),
	}
	if v, ok := m["index"]; ok {
		idx, ok := lenient.Float(v)
		if !ok {
			return seg, fmt.Errorf("invalid index %v", v)
		}
		seg.Index = int(idx)
	}
	seg.DistanceM = number(m, "distance")
	if seg.DistanceM < 0 {
		return seg, fmt.Errorf("negative distance %v", seg.DistanceM)
	}
	seg.Start = model.Coordinate{Lat: number(m, "lat_start"), Lon: number(m, "lon_start")}
	seg.End = model.Coordinate{Lat: number(m, "lat_end"), Lon: number(m, "lon_end")}
	for k, v := range m {
		switch {
		case strings.HasSuffix(k, energySuffix) && len(k) > len(energySuffix):
			if f, ok := lenient.Float(v); ok {
				seg.Energy[strings.TrimSuffix(k, energySuffix)] = f
			}
		case strings.HasSuffix(k, timeSuffix) && len(k) > len(timeSuffix):
			if f, ok := lenient.Float(v); ok {
				seg.Time[strings.TrimSuffix(k, timeSuffix)] = f
			}
		}
	}
	return seg, nil
}

func number(m map[string]any, key string) float64 {
	f, _ := lenient.Float(m[key])
	return f
}

// Scenarios lists the scenario names found on any segment, sorted.
func (r Route) Scenarios() []string {
	set := make(map[string]struct{})
	for _, s := range r.Segments {
		for k := range s.Energy {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
