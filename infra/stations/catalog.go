// Package stations loads charging station catalogs exported from the public
// IRVE data set or from an operator feed. Records with missing or invalid
// fields are kept: the selector ignores stations it cannot use.
package stations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
	"github.com/ethan-bns24/ECOSPEED-sub000/internal/lenient"
)

// ErrEmptyCatalog is returned when a catalog holds no station record.
var ErrEmptyCatalog = errors.New("station catalog is empty")

var (
	nameKeys     = []string{"name", "nom_station", "title"}
	operatorKeys = []string{"operator", "nom_operateur"}
	addressKeys  = []string{"address", "adresse_station"}
	latKeys      = []string{"latitude", "lat", "consolidated_latitude"}
	lonKeys      = []string{"longitude", "lon", "lng", "consolidated_longitude"}
	powerKeys    = []string{"powerKw", "power_kw", "puissance_nominale", "power"}
	statusKeys   = []string{"status", "statut"}
	priceKeys    = []string{"price", "tarification"}
)

// Load reads a catalog from a .json, .yaml or .yml file.
func Load(path string) ([]model.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	out, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("stations %s: %w", path, err)
	}
	return out, nil
}

// Decode parses a catalog given either as a list of records or as an object
// with a "stations" list.
func Decode(r io.Reader, format string) ([]model.Station, error) {
	var doc any
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "json":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}

	records, err := recordList(doc)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	out := make([]model.Station, 0, len(records))
	for i, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, rec)
		}
		out = append(out, FromRecord(m))
	}
	return out, nil
}

func recordList(doc any) ([]any, error) {
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return d, nil
	case map[string]any:
		v, ok := d["stations"]
		if !ok || v == nil {
			return nil, nil
		}
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("stations: expected a list, got %T", v)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected catalog root %T", doc)
	}
}

// FromRecord builds a station from a loosely typed record. Missing
// coordinates become NaN and an absent status is Unknown.
func FromRecord(m map[string]any) model.Station {
	st := model.Station{
		Name:     text(m, nameKeys),
		Operator: text(m, operatorKeys),
		Address:  text(m, addressKeys),
		Price:    text(m, priceKeys),
		Position: model.Coordinate{Lat: coord(m, latKeys), Lon: coord(m, lonKeys)},
	}
	if pos, ok := m["position"].(map[string]any); ok && !st.Position.Valid() {
		st.Position = model.Coordinate{Lat: coord(pos, latKeys), Lon: coord(pos, lonKeys)}
	}
	if v, ok := lenient.Lookup(m, powerKeys...); ok {
		if p, ok := lenient.Float(v); ok && p > 0 {
			st.PowerKW = p
		}
	}
	if v, ok := lenient.Lookup(m, statusKeys...); ok {
		st.Status = model.ParseStationStatus(lenient.String(v))
	}
	return st
}

func text(m map[string]any, keys []string) string {
	v, _ := lenient.Lookup(m, keys...)
	return strings.TrimSpace(lenient.String(v))
}

func coord(m map[string]any, keys []string) float64 {
	v, ok := lenient.Lookup(m, keys...)
	if !ok {
		return math.NaN()
	}
	f, ok := lenient.Float(v)
	if !ok {
		return math.NaN()
	}
	return f
}

// Available filters the catalog down to selectable stations.
func Available(all []model.Station) []model.Station {
	out := make([]model.Station, 0, len(all))
	for _, s := range all {
		if s.Selectable() {
			out = append(out, s)
		}
	}
	return out
}
