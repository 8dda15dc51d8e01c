package charging

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/logger"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

// Request carries the inputs of one planning run.
type Request struct {
	Segments []model.Segment
	// Route is the optional fine-grained path geometry.
	Route       []model.Coordinate
	CapacityKWh float64
	StartSoCPct float64
	Stations    []model.Station
	Scenario    string
	// TargetArrivalPct is clamped to [20,80]; zero uses the configured target.
	TargetArrivalPct float64
	// MaxDistanceKm bounds the station search; zero uses the configured radius.
	MaxDistanceKm float64
}

// Result is the outcome of a planning run.
type Result struct {
	Events           []model.ChargingEvent
	TargetArrivalPct float64
	TargetKWh        float64
	StartKWh         float64
	ConsumedKWh      float64
	AddedKWh         float64
	// FinalKWh is the energy at arrival once every planned stop is counted.
	FinalKWh float64
	// UnreachableTriggers counts threshold crossings with no usable station.
	UnreachableTriggers int
	// DuplicateTriggers counts crossings suppressed as repeats of a planned stop.
	DuplicateTriggers int
	// FinalCheckSkipped is set when arrival is below target but no route
	// geometry was available to look for a terminal stop.
	FinalCheckSkipped bool
}

// energyEpsilon absorbs rounding when a stop tops up exactly to the target.
const energyEpsilon = 1e-9

// Completable reports whether the vehicle arrives at or above the target.
func (r Result) Completable() bool {
	return r.FinalKWh >= r.TargetKWh-energyEpsilon
}

// Planner computes charging plans.
type Planner struct {
	cfg      Config
	selector Selector
	log      logger.Logger
}

// NewPlanner returns a planner. Zero config fields take their defaults; a nil
// logger discards output.
func NewPlanner(cfg Config, log logger.Logger) *Planner {
	cfg.SetDefaults()
	return &Planner{cfg: cfg, selector: NewSelector(cfg), log: logger.OrNop(log)}
}

// Config returns the effective configuration.
func (p *Planner) Config() Config { return p.cfg }

// planEnv is the per-call constant part of the fold.
type planEnv struct {
	req       Request
	targetKWh float64
	usableKWh float64
	maxDistKm float64
	positions PositionEstimator
}

// planState is the accumulator threaded through the segments.
type planState struct {
	tracker     Tracker
	events      []model.ChargingEvent
	stops       *stopIndex
	unreachable int
	duplicates  int
}

// Plan walks the segments once and returns the planned stops in the order
// they were triggered. Degenerate inputs produce an empty plan.
func (p *Planner) Plan(req Request) Result {
	target := ClampTarget(req.TargetArrivalPct)
	if req.TargetArrivalPct == 0 {
		target = ClampTarget(p.cfg.TargetArrivalPct)
	}
	res := Result{Events: []model.ChargingEvent{}, TargetArrivalPct: target}
	if len(req.Segments) == 0 || !(req.CapacityKWh > 0) || math.IsInf(req.CapacityKWh, 0) {
		return res
	}
	res.TargetKWh = req.CapacityKWh * target / 100
	if len(req.Stations) == 0 {
		t := NewTracker(req.CapacityKWh, req.StartSoCPct).Consume(ScenarioEnergyKWh(req.Segments, req.Scenario))
		res.StartKWh = t.StartKWh()
		res.ConsumedKWh = t.ConsumedKWh()
		res.FinalKWh = t.EnergyKWh()
		return res
	}

	env := planEnv{
		req:       req,
		targetKWh: res.TargetKWh,
		usableKWh: req.CapacityKWh * p.cfg.UsableCapacityFraction,
		maxDistKm: req.MaxDistanceKm,
		positions: NewPositionEstimator(req.Route, len(req.Segments)),
	}
	if env.maxDistKm <= 0 {
		env.maxDistKm = p.cfg.MaxDistanceKm
	}

	st := planState{
		tracker: NewTracker(req.CapacityKWh, req.StartSoCPct),
		events:  []model.ChargingEvent{},
		stops:   newStopIndex(p.cfg.DedupEpsilonDeg),
	}
	for i, seg := range req.Segments {
		st = p.step(env, st, i, seg)
	}
	st = p.finalCheck(env, st, &res)

	res.Events = st.events
	res.StartKWh = st.tracker.StartKWh()
	res.ConsumedKWh = st.tracker.ConsumedKWh()
	res.AddedKWh = st.tracker.AddedKWh()
	res.FinalKWh = st.tracker.EnergyKWh()
	res.UnreachableTriggers = st.unreachable
	res.DuplicateTriggers = st.duplicates
	return res
}

func (p *Planner) step(env planEnv, st planState, i int, seg model.Segment) planState {
	segKWh := segmentKWh(seg, env.req.Scenario)
	before := st.tracker.EnergyKWh()
	st.tracker = st.tracker.Consume(segKWh)
	current := st.tracker.EnergyKWh()
	if current >= env.targetKWh-energyEpsilon {
		return st
	}

	pos := env.positions.Estimate(i, seg, crossingRatio(before, env.targetKWh, segKWh))
	station, ok := p.selector.Best(pos, env.req.Stations, env.maxDistKm)
	if !ok {
		st.unreachable++
		p.log.Warnf("no station within %.0f km of segment %d (%.5f,%.5f)", env.maxDistKm, i, pos.Lat, pos.Lon)
		return st
	}
	if st.stops.Contains(station.Name, pos) {
		st.duplicates++
		p.log.Debugf("segment %d: stop at %s already planned", i, station.Name)
		return st
	}

	energy := env.usableKWh
	if needed := math.Max(0, env.targetKWh-current); needed > 0 {
		energy = math.Min(env.usableKWh, needed)
	}
	ev := p.newEvent(i, pos, station, st.tracker.SoCPct(), energy)
	p.log.Debugw("charging stop planned", map[string]any{
		"scenario": env.req.Scenario,
		"segment":  i,
		"station":  station.Name,
		"soc_pct":  ev.SoCPct,
		"kwh":      energy,
		"minutes":  ev.DurationMinutes,
	})
	st.events = append(st.events, ev)
	st.stops.Add(station.Name, pos)
	st.tracker = st.tracker.Charge(energy)
	return st
}

// finalCheck adds a stop near the destination when the arrival energy is
// still below target after the segment pass.
func (p *Planner) finalCheck(env planEnv, st planState, res *Result) planState {
	final := st.tracker.EnergyKWh()
	if final >= env.targetKWh-energyEpsilon {
		return st
	}
	end, ok := env.positions.Final()
	if !ok {
		res.FinalCheckSkipped = true
		p.log.Warnf("arrival soc %.1f%% below target %.0f%% and no route geometry for a terminal stop",
			st.tracker.SoCPct(), res.TargetArrivalPct)
		return st
	}
	station, ok := p.selector.Best(end, env.req.Stations, env.maxDistKm)
	if !ok {
		st.unreachable++
		p.log.Warnf("no station within %.0f km of destination", env.maxDistKm)
		return st
	}
	if st.stops.Contains(station.Name, end) {
		st.duplicates++
		return st
	}
	energy := math.Min(env.usableKWh, env.targetKWh-final)
	ev := p.newEvent(len(env.req.Segments)-1, end, station, st.tracker.SoCPct(), energy)
	ev.Terminal = true
	st.events = append(st.events, ev)
	st.stops.Add(station.Name, end)
	st.tracker = st.tracker.Charge(energy)
	return st
}

func (p *Planner) newEvent(i int, pos model.Coordinate, station model.SelectedStation, socPct, energy float64) model.ChargingEvent {
	power := station.EffectivePowerKW(p.cfg.DefaultStationPowerKW)
	return model.ChargingEvent{
		SegmentIndex:    i,
		Position:        pos,
		Station:         station,
		SoCPct:          socPct,
		EnergyKWh:       energy,
		PowerKW:         power,
		DurationMinutes: ChargeMinutes(energy, power),
	}
}

// PlanRoute plans with the default configuration and returns only the stops.
func PlanRoute(segments []model.Segment, route []model.Coordinate, capacityKWh, startSoCPct float64,
	stations []model.Station, scenario string, targetArrivalPct, maxDistanceKm float64) []model.ChargingEvent {
	return NewPlanner(DefaultConfig(), nil).Plan(Request{
		Segments:         segments,
		Route:            route,
		CapacityKWh:      capacityKWh,
		StartSoCPct:      startSoCPct,
		Stations:         stations,
		Scenario:         scenario,
		TargetArrivalPct: targetArrivalPct,
		MaxDistanceKm:    maxDistanceKm,
	}).Events
}

// segmentKWh returns the scenario energy of seg, treating non-finite values
// as zero.
func segmentKWh(seg model.Segment, scenario string) float64 {
	e := seg.EnergyKWh(scenario)
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0
	}
	return e
}

// ScenarioEnergyKWh sums the scenario energy over all segments.
func ScenarioEnergyKWh(segments []model.Segment, scenario string) float64 {
	es := make([]float64, len(segments))
	for i, s := range segments {
		es[i] = segmentKWh(s, scenario)
	}
	return floats.Sum(es)
}
