package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ethan-bns24/ECOSPEED-sub000/app"
)

// Formats supported by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{
	"plan_id", "scenario", "segment_index", "station", "operator",
	"lat", "lon", "distance_km", "power_kw", "soc_pct",
	"energy_kwh", "duration_minutes", "terminal",
}

// Write dispatches on format.
func Write(w io.Writer, format string, reports []app.Report) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, reports)
	case FormatCSV:
		return WriteCSV(w, reports)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSON writes the reports to w as an indented JSON array.
func WriteJSON(w io.Writer, reports []app.Report) error {
	if reports == nil {
		reports = []app.Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteCSV writes one row per charging stop, across all reports.
func WriteCSV(w io.Writer, reports []app.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reports {
		for _, ev := range r.Events {
			rec := []string{
				r.ID,
				r.Scenario,
				strconv.Itoa(ev.SegmentIndex),
				ev.Station.Name,
				ev.Station.Operator,
				formatFloat(ev.Position.Lat),
				formatFloat(ev.Position.Lon),
				formatFloat(ev.Station.DistanceKm),
				formatFloat(ev.PowerKW),
				formatFloat(ev.SoCPct),
				formatFloat(ev.EnergyKWh),
				formatFloat(ev.DurationMinutes),
				strconv.FormatBool(ev.Terminal),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
