package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ethan-bns24/ECOSPEED-sub000/config"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/charging"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/logger"
	coremetrics "github.com/ethan-bns24/ECOSPEED-sub000/core/metrics"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
	// builtin metrics sinks
	_ "github.com/ethan-bns24/ECOSPEED-sub000/infra/metrics"
)

// Trip groups the inputs shared by every scenario of a planning request.
type Trip struct {
	Vehicle  model.Vehicle
	Segments []model.Segment
	// Route is the optional fine-grained geometry of the trip.
	Route []model.Coordinate
	// Elevations, in metres, follow Route when the geometry carried them.
	Elevations []float64
	Stations   []model.Station
	// TargetArrivalPct and MaxDistanceKm override the planner settings when non-zero.
	TargetArrivalPct float64
	MaxDistanceKm    float64
}

// Report is the charging plan of one scenario with its summary figures.
type Report struct {
	ID                  string                `json:"id"`
	Scenario            string                `json:"scenario"`
	VehicleID           string                `json:"vehicle_id,omitempty"`
	DistanceKm          float64               `json:"distance_km"`
	DrivingMinutes      float64               `json:"driving_minutes"`
	TripMinutes         float64               `json:"trip_minutes"`
	AscentM             float64               `json:"ascent_m,omitempty"`
	TargetArrivalPct    float64               `json:"target_arrival_pct"`
	StartSoCPct         float64               `json:"start_soc_pct"`
	ArrivalSoCPct       float64               `json:"arrival_soc_pct"`
	EnergyConsumedKWh   float64               `json:"energy_consumed_kwh"`
	EnergyAddedKWh      float64               `json:"energy_added_kwh"`
	ChargingMinutes     float64               `json:"charging_minutes"`
	MeanStopMinutes     float64               `json:"mean_stop_minutes"`
	UnreachableTriggers int                   `json:"unreachable_triggers"`
	Completable         bool                  `json:"completable"`
	Events              []model.ChargingEvent `json:"events"`
	CreatedAt           time.Time             `json:"created_at"`
}

// Service plans charging stops for trips and records the results.
type Service struct {
	planner   *charging.Planner
	sink      coremetrics.MetricsSink
	log       logger.Logger
	scenarios []string
	now       func() time.Time
}

// New creates a Service from the configuration.
func New(cfg *config.Config, log logger.Logger) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc := NewService(charging.NewPlanner(cfg.Planner, log), sink, log)
	svc.scenarios = append([]string(nil), cfg.Scenarios...)
	return svc, nil
}

// NewService assembles a Service from its parts. A nil sink discards records.
func NewService(p *charging.Planner, sink coremetrics.MetricsSink, log logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Service{
		planner:   p,
		sink:      sink,
		log:       logger.OrNop(log),
		scenarios: []string{model.ScenarioEco},
		now:       time.Now,
	}
}

// Plan computes one plan per scenario concurrently. Reports come back in the
// order the scenarios were given; repeated names are planned once. Without
// scenarios the configured defaults are used.
func (s *Service) Plan(ctx context.Context, trip Trip, scenarios ...string) ([]Report, error) {
	if err := trip.Vehicle.Validate(); err != nil {
		return nil, fmt.Errorf("vehicle: %w", err)
	}
	scenarios = unique(scenarios)
	if len(scenarios) == 0 {
		scenarios = s.scenarios
	}

	reports := make([]Report, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.planner.Plan(charging.Request{
				Segments:         trip.Segments,
				Route:            trip.Route,
				CapacityKWh:      trip.Vehicle.BatteryKWh,
				StartSoCPct:      trip.Vehicle.StartSoC,
				Stations:         trip.Stations,
				Scenario:         sc,
				TargetArrivalPct: trip.TargetArrivalPct,
				MaxDistanceKm:    trip.MaxDistanceKm,
			})
			reports[i] = s.report(trip, sc, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range reports {
		s.record(r)
	}
	if f, ok := s.sink.(coremetrics.Flusher); ok {
		if err := f.Flush(); err != nil {
			s.log.Errorf("flush metrics: %v", err)
		}
	}
	return reports, nil
}

func (s *Service) report(trip Trip, scenario string, res charging.Result) Report {
	v := trip.Vehicle
	minutes := make([]float64, len(res.Events))
	for i, ev := range res.Events {
		minutes[i] = ev.DurationMinutes
	}
	distances := make([]float64, len(trip.Segments))
	driving := make([]float64, len(trip.Segments))
	for i, seg := range trip.Segments {
		distances[i] = seg.DistanceM
		driving[i] = seg.TimeSeconds(scenario)
	}
	r := Report{
		ID:                  uuid.NewString(),
		Scenario:            scenario,
		VehicleID:           v.ID,
		DistanceKm:          floats.Sum(distances) / 1000,
		DrivingMinutes:      floats.Sum(driving) / 60,
		AscentM:             ascent(trip.Elevations),
		TargetArrivalPct:    res.TargetArrivalPct,
		StartSoCPct:         v.StartSoC,
		ArrivalSoCPct:       socPct(res.FinalKWh, v.BatteryKWh),
		EnergyConsumedKWh:   res.ConsumedKWh,
		EnergyAddedKWh:      res.AddedKWh,
		ChargingMinutes:     floats.Sum(minutes),
		UnreachableTriggers: res.UnreachableTriggers,
		Completable:         res.Completable(),
		Events:              res.Events,
		CreatedAt:           s.now(),
	}
	if len(minutes) > 0 {
		r.MeanStopMinutes = stat.Mean(minutes, nil)
	}
	r.TripMinutes = r.DrivingMinutes + r.ChargingMinutes
	s.log.Infof("scenario %s: %d stops, %.1f kWh added, arrival %.1f%%",
		scenario, len(r.Events), r.EnergyAddedKWh, r.ArrivalSoCPct)
	return r
}

func (s *Service) record(r Report) {
	rec := coremetrics.PlanRecord{
		PlanID:              r.ID,
		Scenario:            r.Scenario,
		VehicleID:           r.VehicleID,
		Stops:               len(r.Events),
		EnergyConsumedKWh:   r.EnergyConsumedKWh,
		EnergyAddedKWh:      r.EnergyAddedKWh,
		ChargingMinutes:     r.ChargingMinutes,
		ArrivalSoCPct:       r.ArrivalSoCPct,
		UnreachableTriggers: r.UnreachableTriggers,
		Completable:         r.Completable,
		Time:                r.CreatedAt,
	}
	stops := make([]coremetrics.ChargingStopEvent, len(r.Events))
	for i, ev := range r.Events {
		rec.TerminalStop = rec.TerminalStop || ev.Terminal
		stops[i] = coremetrics.ChargingStopEvent{
			PlanID:    r.ID,
			Scenario:  r.Scenario,
			Station:   ev.Station.Name,
			Operator:  ev.Station.Operator,
			PowerKW:   ev.PowerKW,
			EnergyKWh: ev.EnergyKWh,
			Minutes:   ev.DurationMinutes,
			SoCPct:    ev.SoCPct,
			Terminal:  ev.Terminal,
			Time:      r.CreatedAt,
		}
	}
	if err := s.sink.RecordPlan(rec); err != nil {
		s.log.Errorf("record plan %s: %v", r.ID, err)
	}
	if sr, ok := s.sink.(coremetrics.ChargingStopRecorder); ok && len(stops) > 0 {
		if err := sr.RecordChargingStops(stops); err != nil {
			s.log.Errorf("record stops %s: %v", r.ID, err)
		}
	}
}

// BestStation returns the station the planner would pick around point.
func (s *Service) BestStation(point model.Coordinate, stations []model.Station, maxDistanceKm float64) (model.SelectedStation, bool) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = s.planner.Config().MaxDistanceKm
	}
	return charging.NewSelector(s.planner.Config()).Best(point, stations, maxDistanceKm)
}

func socPct(kwh, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, kwh/capacity*100))
}

// ascent sums the positive elevation differences along the path.
func ascent(elevations []float64) float64 {
	if len(elevations) < 2 {
		return 0
	}
	diffs := make([]float64, len(elevations)-1)
	floats.SubTo(diffs, elevations[1:], elevations[:len(elevations)-1])
	up := 0.0
	for _, d := range diffs {
		if d > 0 {
			up += d
		}
	}
	return up
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
