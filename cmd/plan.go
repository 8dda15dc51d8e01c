package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ethan-bns24/ECOSPEED-sub000/app"
	"github.com/ethan-bns24/ECOSPEED-sub000/core/model"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/logger"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/routefile"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/stations"
	"github.com/ethan-bns24/ECOSPEED-sub000/pkg/export"
)

type planOptions struct {
	route       string
	stations    string
	vehicleID   string
	capacity    float64
	startSoC    float64
	target      float64
	scenarios   []string
	maxDistance float64
	format      string
	output      string
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan charging stops along a route",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.route, "route", "", "route file (json or yaml)")
	f.StringVar(&opts.stations, "stations", "", "station catalog (json or yaml)")
	f.StringVar(&opts.vehicleID, "vehicle", "", "vehicle identifier recorded with the plan")
	f.Float64Var(&opts.capacity, "capacity", 0, "battery capacity in kWh")
	f.Float64Var(&opts.startSoC, "start-soc", 100, "state of charge at departure, percent")
	f.Float64Var(&opts.target, "target", 0, "target arrival state of charge, percent (20-80)")
	f.StringArrayVar(&opts.scenarios, "scenario", nil, "driving scenario, repeatable")
	f.Float64Var(&opts.maxDistance, "max-distance", 0, "station search radius in km")
	f.StringVar(&opts.format, "format", export.FormatJSON, "output format: json or csv")
	f.StringVarP(&opts.output, "output", "o", "", "output file, stdout when empty")
	_ = cmd.MarkFlagRequired("route")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	if opts.format != export.FormatJSON && opts.format != export.FormatCSV {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	cfg, log, err := root.load(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	route, err := routefile.Load(opts.route)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(opts.stations, log)
	if err != nil {
		return err
	}

	scenarios := opts.scenarios
	if len(scenarios) == 0 {
		scenarios = cfg.Scenarios
	}
	known := route.Scenarios()
	for _, sc := range scenarios {
		if !slices.Contains(known, sc) {
			log.Warnf("scenario %s not present in route %s, its segments count as 0 kWh", sc, opts.route)
		}
	}

	reports, err := svc.Plan(cmd.Context(), app.Trip{
		Vehicle:          model.Vehicle{ID: opts.vehicleID, BatteryKWh: opts.capacity, StartSoC: opts.startSoC},
		Segments:         route.Segments,
		Route:            route.Coordinates,
		Elevations:       route.Elevations,
		Stations:         catalog,
		TargetArrivalPct: opts.target,
		MaxDistanceKm:    opts.maxDistance,
	}, scenarios...)
	if err != nil {
		return err
	}

	if opts.output == "" {
		return export.Write(cmd.OutOrStdout(), opts.format, reports)
	}
	return writeFile(opts.output, opts.format, reports)
}

func writeFile(path, format string, reports []app.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exportTo(f, format, reports); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// exportTo writes and closes wc. A failed close is reported when the write
// itself succeeded.
func exportTo(wc io.WriteCloser, format string, reports []app.Report) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	return export.Write(wc, format, reports)
}

// loadCatalog reads the station file. A missing path or an empty catalog
// yields no station.
func loadCatalog(path string, log logger.Logger) ([]model.Station, error) {
	if path == "" {
		log.Warnf("no station catalog given, plans will not contain stops")
		return nil, nil
	}
	catalog, err := stations.Load(path)
	if errors.Is(err, stations.ErrEmptyCatalog) {
		log.Warnf("station catalog %s is empty", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Debugf("%d stations loaded, %d available", len(catalog), len(stations.Available(catalog)))
	return catalog, nil
}
