package charging

import (
	"math"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

// PositionEstimator locates a threshold crossing on the route.
type PositionEstimator interface {
	// Estimate returns the position at fraction ratio through segment i. The
	// ratio is negative when the segment starts below the threshold.
	Estimate(i int, seg model.Segment, ratio float64) model.Coordinate
	// Final returns the destination, or false when it is unknown.
	Final() (model.Coordinate, bool)
}

// NewPositionEstimator picks route-sample interpolation when a path is
// available and falls back to segment end points otherwise.
func NewPositionEstimator(route []model.Coordinate, segmentCount int) PositionEstimator {
	if len(route) == 0 || segmentCount <= 0 {
		return FromSegmentEndpoint{}
	}
	return FromRouteSamples{Route: route, SegmentCount: segmentCount}
}

// FromSegmentEndpoint places crossings at the end of the segment.
type FromSegmentEndpoint struct{}

func (FromSegmentEndpoint) Estimate(_ int, seg model.Segment, _ float64) model.Coordinate {
	return seg.End
}

func (FromSegmentEndpoint) Final() (model.Coordinate, bool) { return model.Coordinate{}, false }

// FromRouteSamples maps segment i onto the path sample at the same relative
// position and interpolates linearly towards the following sample.
type FromRouteSamples struct {
	Route        []model.Coordinate
	SegmentCount int
}

func (e FromRouteSamples) Estimate(i int, seg model.Segment, ratio float64) model.Coordinate {
	n := len(e.Route)
	idx := int(math.Floor(float64(i) / float64(e.SegmentCount) * float64(n)))
	if idx < 0 || idx >= n {
		return seg.End
	}
	next := idx + 1
	if next > n-1 {
		next = n - 1
	}
	a, b := e.Route[idx], e.Route[next]
	return model.Coordinate{
		Lat: a.Lat + (b.Lat-a.Lat)*ratio,
		Lon: a.Lon + (b.Lon-a.Lon)*ratio,
	}
}

func (e FromRouteSamples) Final() (model.Coordinate, bool) {
	return e.Route[len(e.Route)-1], true
}

// crossingRatio estimates how far through a segment the energy reached the
// threshold. A segment that starts below the threshold gives a negative
// ratio, placing the point behind the segment's first route sample. Segments
// that do not consume energy use the midpoint.
func crossingRatio(energyBefore, threshold, segmentKWh float64) float64 {
	if segmentKWh <= 0 {
		return 0.5
	}
	return (energyBefore - threshold) / segmentKWh
}
