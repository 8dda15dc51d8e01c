package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethan-bns24/ECOSPEED-sub000/app"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/stations"
)

type bestOptions struct {
	stations    string
	lat, lon    float64
	maxDistance float64
}

func newStationsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Station catalog commands",
	}
	cmd.AddCommand(newStationsBestCmd(root))
	return cmd
}

func newStationsBestCmd(root *rootOptions) *cobra.Command {
	opts := &bestOptions{}
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Select the best available station around a point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStationsBest(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.stations, "stations", "", "station catalog (json or yaml)")
	f.Float64Var(&opts.lat, "lat", 0, "latitude")
	f.Float64Var(&opts.lon, "lon", 0, "longitude")
	f.Float64Var(&opts.maxDistance, "max-distance", 0, "search radius in km")
	_ = cmd.MarkFlagRequired("stations")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func runStationsBest(cmd *cobra.Command, root *rootOptions, opts *bestOptions) error {
	cfg, log, err := root.load(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	catalog, err := stations.Load(opts.stations)
	if err != nil {
		return err
	}
	point := model.Coordinate{Lat: opts.lat, Lon: opts.lon}
	best, ok := svc.BestStation(point, catalog, opts.maxDistance)
	if !ok {
		return fmt.Errorf("no available station around (%.5f,%.5f)", opts.lat, opts.lon)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(best)
}
