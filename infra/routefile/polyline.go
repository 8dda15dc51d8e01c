package routefile

import (
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

// polylineScale is the precision used by OpenRouteService geometries.
const polylineScale = 1e5

// elevationScale is the precision of the optional third dimension.
const elevationScale = 1e2

// DecodePolyline decodes an encoded polyline of precision 5. With elevation
// set each point carries a third value in centimetres, returned in metres.
func DecodePolyline(encoded string, elevation bool) ([]model.Coordinate, []float64, error) {
	if encoded == "" {
		return nil, nil, nil
	}
	dim := 2
	if elevation {
		dim = 3
	}
	codec := polyline.Codec{Dim: dim, Scale: polylineScale}
	raw, rest, err := codec.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, nil, err
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("%d trailing bytes", len(rest))
	}
	coords := make([]model.Coordinate, len(raw))
	var elev []float64
	if elevation {
		elev = make([]float64, len(raw))
	}
	for i, c := range raw {
		coords[i] = model.Coordinate{Lat: c[0], Lon: c[1]}
		if elevation {
			// The codec applied the planar scale to every dimension.
			elev[i] = c[2] * polylineScale / elevationScale
		}
	}
	return coords, elev, nil
}
