package stations

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
)

func TestDecodeJSONList(t *testing.T) {
	doc := `[
	  {"name": "Ionity Beaune", "latitude": 47.02, "longitude": 4.84, "powerKw": 350, "status": "Dispo"},
	  {"name": "Tesla Avallon", "lat": "47,49", "lng": 3.91, "power_kw": "150kW", "status": "Occupée"},
	  {"name": "Mairie", "latitude": null, "longitude": 4.1, "status": "Available"},
	  {"title": "Parking", "latitude": 46.5, "longitude": 4.2, "powerKw": -3}
	]`
	got, err := Decode(strings.NewReader(doc), "json")
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Ionity Beaune", got[0].Name)
	assert.Equal(t, model.StatusAvailable, got[0].Status)
	assert.InDelta(t, 350, got[0].PowerKW, 1e-12)
	assert.True(t, got[0].Selectable())

	assert.InDelta(t, 47.49, got[1].Position.Lat, 1e-12)
	assert.InDelta(t, 3.91, got[1].Position.Lon, 1e-12)
	assert.InDelta(t, 150, got[1].PowerKW, 1e-12)
	assert.Equal(t, model.StatusOccupied, got[1].Status)

	assert.True(t, math.IsNaN(got[2].Position.Lat))
	assert.False(t, got[2].Selectable())

	assert.Equal(t, "Parking", got[3].Name)
	assert.Zero(t, got[3].PowerKW)
	assert.Equal(t, model.StatusUnknown, got[3].Status)

	avail := Available(got)
	require.Len(t, avail, 1)
	assert.Equal(t, "Ionity Beaune", avail[0].Name)
}

func TestDecodeYAMLObject(t *testing.T) {
	doc := `
stations:
  - name: A
    position: {lat: 45.1, lon: 5.2}
    power_kw: 50
    status: available
  - name: B
    latitude: 45.3
    longitude: 5.4
`
	got, err := Decode(strings.NewReader(doc), ".yaml")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 45.1, got[0].Position.Lat, 1e-12)
	assert.InDelta(t, 5.2, got[0].Position.Lon, 1e-12)
	assert.Equal(t, model.StatusAvailable, got[0].Status)
	assert.Equal(t, model.StatusUnknown, got[1].Status)
}

func TestDecodeErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		doc, format string
	}{
		"empty list":     {`[]`, "json"},
		"empty object":   {`{}`, "json"},
		"empty document": {``, "yaml"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc), tc.format)
			assert.ErrorIs(t, err, ErrEmptyCatalog)
		})
	}

	_, err := Decode(strings.NewReader(`[1, 2]`), "json")
	assert.ErrorContains(t, err, "record 0")

	_, err = Decode(strings.NewReader(`{"stations": "x"}`), "json")
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`[]`), "csv")
	assert.ErrorContains(t, err, "unsupported")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stations":[{"name":"A","latitude":1,"longitude":2}]}`), 0o600))
	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
