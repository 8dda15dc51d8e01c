package scenarios

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

type LatLon [2]float64

func (p LatLon) ToModel() model.Coordinate { return model.Coordinate{Lat: p[0], Lon: p[1]} }

type SegmentDef struct {
	Start     LatLon             `yaml:"start"`
	End       LatLon             `yaml:"end"`
	DistanceM float64            `yaml:"distance_m"`
	Energy    map[string]float64 `yaml:"energy"`
}

type StationDef struct {
	Name    string   `yaml:"name"`
	Lat     *float64 `yaml:"lat"`
	Lon     *float64 `yaml:"lon"`
	PowerKW float64  `yaml:"power_kw"`
	Status  string   `yaml:"status"`
}

// ToModel leaves absent coordinates as NaN.
func (s StationDef) ToModel() model.Station {
	pos := model.Coordinate{Lat: math.NaN(), Lon: math.NaN()}
	if s.Lat != nil {
		pos.Lat = *s.Lat
	}
	if s.Lon != nil {
		pos.Lon = *s.Lon
	}
	return model.Station{
		Name:     s.Name,
		Position: pos,
		PowerKW:  s.PowerKW,
		Status:   model.ParseStationStatus(s.Status),
	}
}

type StopDef struct {
	Segment   int     `yaml:"segment"`
	Station   string  `yaml:"station"`
	EnergyKWh float64 `yaml:"energy_kwh"`
	Terminal  bool    `yaml:"terminal"`
}

type Expected struct {
	Stops       []StopDef `yaml:"stops"`
	Completable bool      `yaml:"completable"`
	Unreachable int       `yaml:"unreachable"`
}

type Scenario struct {
	Name             string              `yaml:"name"`
	Description      string              `yaml:"description,omitempty"`
	Vehicle          model.Vehicle       `yaml:"vehicle"`
	TargetArrivalPct float64             `yaml:"target_arrival_pct"`
	MaxDistanceKm    float64             `yaml:"max_distance_km"`
	Segments         []SegmentDef        `yaml:"segments"`
	Route            []LatLon            `yaml:"route"`
	Stations         []StationDef        `yaml:"stations"`
	Expected         map[string]Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}
	if len(sc.Expected) == 0 {
		return nil, fmt.Errorf("%s: no expectation", path)
	}
	return &sc, nil
}

// SegmentModels converts the segment definitions, chaining a missing start to the
// previous end.
func (sc *Scenario) SegmentModels() []model.Segment {
	out := make([]model.Segment, len(sc.Segments))
	for i, d := range sc.Segments {
		start := d.Start
		if start == (LatLon{}) && i > 0 {
			start = sc.Segments[i-1].End
		}
		out[i] = model.Segment{
			Index:     i,
			Start:     start.ToModel(),
			End:       d.End.ToModel(),
			DistanceM: d.DistanceM,
			Energy:    d.Energy,
		}
	}
	return out
}

func (sc *Scenario) RouteModels() []model.Coordinate {
	out := make([]model.Coordinate, len(sc.Route))
	for i, p := range sc.Route {
		out[i] = p.ToModel()
	}
	return out
}

func (sc *Scenario) StationModels() []model.Station {
	out := make([]model.Station, len(sc.Stations))
	for i, s := range sc.Stations {
		out[i] = s.ToModel()
	}
	return out
}
