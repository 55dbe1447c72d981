// Package main is the chartgeo command line: it runs the chart geometry
// pipeline offline against CSV, XLSX or generated sample data.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inamate/chartgeo/internal/api"
	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/decimate"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
)

var (
	outputPath string
	pretty     bool
	sampleSeed int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "chartgeo",
		Short:        "Chart geometry tools",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Int64Var(&sampleSeed, "seed", 1, "Seed for generated sample data")

	rootCmd.AddCommand(newDecimateCmd(), newBoundsCmd(), newHitTestCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadInput reads a .csv or .xlsx file, or generates sample data when no
// path is given.
func loadInput(args []string) (*dataset.Dataset, error) {
	if len(args) == 0 {
		return dataset.NewSampleDataset("sample", dataset.SampleOptions{Seed: sampleSeed}), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return api.Import(f, args[0], "")
}

func writeOutput(w io.Writer, v any) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newDecimateCmd() *cobra.Command {
	var (
		mode      string
		maxPoints int
		threshold int
		pixels    float64
		xMin      float64
		xMax      float64
		summary   bool
	)
	cmd := &cobra.Command{
		Use:   "decimate [input.csv|input.xlsx]",
		Short: "Reduce every series and report the area deviation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := decimate.ParseMode(mode)
			if err != nil {
				return err
			}
			ds, err := loadInput(args)
			if err != nil {
				return err
			}

			cfg := decimate.DefaultConfig()
			cfg.Mode = m
			cfg.MaxVisiblePoints = maxPoints
			cfg.Threshold = threshold

			view := decimate.View{Pixels: pixels}
			if cmd.Flags().Changed("x-min") && cmd.Flags().Changed("x-max") {
				view.X = bounds.Bounds{Min: xMin, Max: xMax}
			}

			result := api.DecimateDataset(ds, cfg, view)
			if summary {
				for i := range result {
					result[i].Points = nil
					result[i].Indices = nil
				}
			}
			return writeOutput(cmd.OutOrStdout(), map[string]any{
				"name":   ds.Name,
				"mode":   m,
				"series": result,
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "lttb", "Decimation mode: adaptive, none, lttb, minmax, pixel")
	cmd.Flags().IntVar(&maxPoints, "max-points", 2000, "Point budget per series")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Series at or below this length are kept whole")
	cmd.Flags().Float64Var(&pixels, "pixels", 800, "Plot width for the pixel mode")
	cmd.Flags().Float64Var(&xMin, "x-min", 0, "Visible x minimum for windowed modes")
	cmd.Flags().Float64Var(&xMax, "x-max", 0, "Visible x maximum for windowed modes")
	cmd.Flags().BoolVar(&summary, "summary", false, "Omit points, print counts and deviation only")
	return cmd
}

type axisReport struct {
	Bounds bounds.Bounds `json:"bounds"`
	Ticks  []float64     `json:"ticks"`
}

func newBoundsCmd() *cobra.Command {
	var (
		maxTicks    int
		headroom    float64
		includeZero bool
	)
	cmd := &cobra.Command{
		Use:   "bounds [input.csv|input.xlsx]",
		Short: "Print the axis bounds and ticks the engine would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadInput(args)
			if err != nil {
				return err
			}
			x, y := bounds.CalculateSeries(ds.Series, nil)
			y = bounds.ApplyY(y, bounds.YOptions{Headroom: headroom, IncludeZero: includeZero})
			return writeOutput(cmd.OutOrStdout(), map[string]axisReport{
				"x": {Bounds: x, Ticks: bounds.Ticks(x, maxTicks)},
				"y": {Bounds: y, Ticks: bounds.Ticks(y, maxTicks)},
			})
		},
	}
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 8, "Maximum ticks per axis")
	cmd.Flags().Float64Var(&headroom, "headroom", 0.05, "Fraction of the y range added above the data")
	cmd.Flags().BoolVar(&includeZero, "include-zero", true, "Pull the y range to include zero")
	return cmd
}

type hitTestReport struct {
	Targets    int     `json:"targets"`
	Queries    int     `json:"queries"`
	Strategy   string  `json:"strategy"`
	Mismatches int     `json:"mismatches"`
	LinearMs   float64 `json:"linearMs"`
	IndexedMs  float64 `json:"indexedMs"`
}

func newHitTestCmd() *cobra.Command {
	var (
		targets  int
		queries  int
		radius   float64
		strategy string
	)
	cmd := &cobra.Command{
		Use:   "hittest",
		Short: "Check indexed hit testing against a linear scan on random targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var s hittest.Strategy
			switch strategy {
			case "quadtree":
				s = hittest.StrategyQuadtree
			case "grid":
				s = hittest.StrategyGrid
			default:
				return fmt.Errorf("invalid strategy: %s (must be quadtree or grid)", strategy)
			}

			rng := rand.New(rand.NewSource(sampleSeed))
			indexed := hittest.NewDispatcher(hittest.WithStrategy(s), hittest.WithThreshold(1))
			linear := hittest.NewDispatcher(hittest.WithThreshold(0))
			for i := 0; i < targets; i++ {
				info := hittest.DataPointInfo{SeriesIndex: i % 4, PointIndex: i}
				c := geom.Pt(rng.Float64()*1000, rng.Float64()*800)
				r := 2 + rng.Float64()*6
				indexed.AddCircle(info, c, r)
				linear.AddCircle(info, c, r)
			}

			points := make([]geom.Point, queries)
			for i := range points {
				points[i] = geom.Pt(rng.Float64()*1000, rng.Float64()*800)
			}

			report := hitTestReport{Targets: targets, Queries: queries, Strategy: strategy}
			linearHits := make([]hittest.DataPointInfo, queries)
			linearOK := make([]bool, queries)

			start := time.Now()
			for i, p := range points {
				linearHits[i], linearOK[i] = linear.HitTest(p, radius)
			}
			report.LinearMs = float64(time.Since(start).Microseconds()) / 1000

			start = time.Now()
			for i, p := range points {
				got, ok := indexed.HitTest(p, radius)
				if ok != linearOK[i] || (ok && !got.SameAs(linearHits[i])) {
					report.Mismatches++
				}
			}
			report.IndexedMs = float64(time.Since(start).Microseconds()) / 1000

			if err := writeOutput(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Mismatches > 0 {
				return fmt.Errorf("%d of %d queries disagree", report.Mismatches, queries)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&targets, "targets", 5000, "Number of random circle targets")
	cmd.Flags().IntVar(&queries, "queries", 10000, "Number of random queries")
	cmd.Flags().Float64Var(&radius, "radius", 20, "Hit radius in pixels")
	cmd.Flags().StringVar(&strategy, "strategy", "quadtree", "Index strategy: quadtree or grid")
	return cmd
}
