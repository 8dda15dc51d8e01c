package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

func TestDistanceKmIdentical(t *testing.T) {
	for _, p := range []model.Coordinate{{Lat: 0, Lon: 0}, {Lat: 49.4944, Lon: 0.1079}, {Lat: -33.9, Lon: 151.2}} {
		assert.Equal(t, 0.0, Between(p, p))
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := model.Coordinate{Lat: 49.4944, Lon: 0.1079}
	b := model.Coordinate{Lat: 48.8014, Lon: 2.1301}
	assert.InDelta(t, Between(a, b), Between(b, a), 1e-9)
}

func TestDistanceKmKnownValues(t *testing.T) {
	// One degree of latitude along a meridian.
	assert.InDelta(t, 111.195, DistanceKm(0, 0, 1, 0), 0.01)
	// Paris to Le Havre, roughly 178 km.
	assert.InDelta(t, 178, DistanceKm(48.8566, 2.3522, 49.4944, 0.1079), 3)
}

func TestDistanceKmTriangleInequality(t *testing.T) {
	a := model.Coordinate{Lat: 49.4944, Lon: 0.1079}
	b := model.Coordinate{Lat: 49.0500, Lon: 1.8200}
	c := model.Coordinate{Lat: 48.8014, Lon: 2.1301}
	assert.LessOrEqual(t, Between(a, c), Between(a, b)+Between(b, c)+1e-9)
}
