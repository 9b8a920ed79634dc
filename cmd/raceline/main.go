// Command raceline computes an optimized racing line for a track described
// by two edge traces in a JSON file and prints the lap estimate. It is the
// thin glue between an edge-capture collaborator and the core pipeline;
// anything fancier (rendering, export formats) belongs elsewhere.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/apexline/raceline"
	"github.com/apexline/raceline/internal/config"
	"github.com/apexline/raceline/internal/track"
	"github.com/apexline/raceline/internal/units"
	"github.com/apexline/raceline/internal/version"
)

var (
	edgesPath   = flag.String("edges", "", "JSON file with left/right edge traces (required)")
	configPath  = flag.String("config", "", "Optional JSON tuning file")
	speedUnits  = flag.String("units", units.MPS, "Speed units for output: "+units.GetValidUnitsString())
	seed        = flag.Int64("seed", 0, "Random seed; 0 draws from entropy")
	iterations  = flag.Int("iterations", 0, "Iteration budget; 0 keeps the configured value")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("raceline %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if *edgesPath == "" {
		log.Fatal("-edges is required")
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q, valid values: %s", *speedUnits, units.GetValidUnitsString())
	}

	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	edges, err := loadEdges(*edgesPath)
	if err != nil {
		log.Fatalf("failed to load edges: %v", err)
	}

	opts := cfg.OptimizeOptions()
	if *iterations > 0 {
		opts.Iterations = *iterations
	}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	// Ctrl-C returns the best line found so far instead of nothing.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lap, err := raceline.Optimize(ctx, raceline.Input{
		Edges:   edges,
		Spacing: cfg.ResampleSpacing(),
		Params:  cfg.SimParams(),
		Options: opts,
	})
	if err != nil {
		log.Fatalf("optimization failed: %v", err)
	}

	if lap.Aborted {
		log.Printf("interrupted; reporting best line found so far")
	}
	fmt.Printf("centerline lap:  %s\n", units.FormatLapTime(lap.CenterlineTime))
	fmt.Printf("racing line lap: %s (%d iterations)\n", units.FormatLapTime(lap.LapTime), lap.Iterations)
	fmt.Printf("improvement:     %.3fs\n", lap.CenterlineTime-lap.LapTime)
	fmt.Printf("speed:           min %.1f / mean %.1f / max %.1f %s\n",
		units.ConvertSpeed(lap.Summary.MinSpeed, *speedUnits),
		units.ConvertSpeed(lap.Summary.MeanSpeed, *speedUnits),
		units.ConvertSpeed(lap.Summary.MaxSpeed, *speedUnits),
		*speedUnits)
	fmt.Printf("track length:    %.0fm\n", lap.Summary.TotalDistance)
}

func loadEdges(path string) (track.EdgePair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return track.EdgePair{}, err
	}
	var edges track.EdgePair
	if err := json.Unmarshal(data, &edges); err != nil {
		return track.EdgePair{}, fmt.Errorf("failed to parse edge JSON: %w", err)
	}
	if len(edges.Left) == 0 || len(edges.Right) == 0 {
		return track.EdgePair{}, fmt.Errorf("edge file must contain non-empty left and right traces")
	}
	return edges, nil
}
