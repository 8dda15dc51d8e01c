package charging

import (
	"math"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

type bucketKey struct {
	name     string
	lat, lon int64
}

// stopIndex remembers planned stops by station name and a grid bucket of
// side eps degrees. Two stops within eps of each other are at most one bucket
// apart, so a lookup only visits the 3x3 neighbourhood.
type stopIndex struct {
	eps     float64
	buckets map[bucketKey][]model.Coordinate
}

func newStopIndex(eps float64) *stopIndex {
	return &stopIndex{eps: eps, buckets: make(map[bucketKey][]model.Coordinate)}
}

func (x *stopIndex) key(name string, p model.Coordinate) bucketKey {
	return bucketKey{
		name: name,
		lat:  int64(math.Floor(p.Lat / x.eps)),
		lon:  int64(math.Floor(p.Lon / x.eps)),
	}
}

// Contains reports whether a stop at the same station lies strictly within
// eps of p on both axes.
func (x *stopIndex) Contains(name string, p model.Coordinate) bool {
	k := x.key(name, p)
	for dlat := int64(-1); dlat <= 1; dlat++ {
		for dlon := int64(-1); dlon <= 1; dlon++ {
			nk := bucketKey{name: name, lat: k.lat + dlat, lon: k.lon + dlon}
			for _, q := range x.buckets[nk] {
				if math.Abs(q.Lat-p.Lat) < x.eps && math.Abs(q.Lon-p.Lon) < x.eps {
					return true
				}
			}
		}
	}
	return false
}

func (x *stopIndex) Add(name string, p model.Coordinate) {
	k := x.key(name, p)
	x.buckets[k] = append(x.buckets[k], p)
}
