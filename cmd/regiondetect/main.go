// Command regiondetect finds rectangular regions of images suitable for
// placing artwork and prints them as JSON, one document per input file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/detection"
	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
	"github.com/mockframe/regiondetect/internal/telemetry"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// annotationColor outlines detected regions in annotated output images.
const annotationColor = "#00ff00"

// result is the JSON document emitted for one input file.
type result struct {
	File    string          `json:"file"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Regions []region.Region `json:"regions"`
}

func main() {
	preset := flag.String("preset", config.PresetDefault,
		fmt.Sprintf("configuration preset (%s)", strings.Join(config.PresetNames(), ", ")))
	configPath := flag.String("config", "", "JSON configuration file (overrides the preset)")
	sequential := flag.Bool("sequential", false, "run detectors one after another instead of in parallel")
	maxDetections := flag.Int("max", 0, "limit the number of reported regions (0 keeps the configured value)")
	annotate := flag.Bool("annotate", false, "write an annotated PNG next to each input file")
	timings := flag.Bool("timings", false, "print aggregate timing statistics to stderr after the run")
	verbose := flag.Bool("v", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version information and exit")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: %s [options] image...\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(out, "Detects placement regions in each image and prints them as JSON.")
		fmt.Fprintln(out, "\nOptions:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("regiondetect %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	// Logs go to stderr; stdout carries only the JSON results.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := buildConfig(*preset, *configPath)
	if err != nil {
		logger.Error("configuration rejected", "error", err)
		os.Exit(1)
	}
	if *sequential {
		cfg.ParallelDetection = false
	}
	if *maxDetections > 0 {
		cfg.MaxDetections = *maxDetections
	}

	recorder := telemetry.NewRecorder(0)
	engine, err := detection.NewEngine(cfg,
		detection.WithLogger(logger), detection.WithRecorder(recorder))
	if err != nil {
		logger.Error("engine construction failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	failures := 0
	for _, path := range flag.Args() {
		if err := processFile(ctx, engine, path, *annotate); err != nil {
			logger.Error("processing failed", "file", path, "error", err)
			failures++
		}
	}

	if *timings {
		printSummary(recorder.Summarize())
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// buildConfig resolves the preset and layers an optional JSON file on top.
func buildConfig(preset, path string) (config.Config, error) {
	cfg, err := config.Preset(preset)
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		return cfg, nil
	}

	fileCfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return fileCfg, nil
}

// processFile runs detection on one image and emits its JSON document.
func processFile(ctx context.Context, engine *detection.Engine, path string, annotate bool) error {
	img, format, err := imaging.LoadImage(path)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	bounds := img.Bounds()
	slog.Debug("image loaded",
		"file", path, "format", format, "width", bounds.Dx(), "height", bounds.Dy())

	regions, err := engine.FindRegions(ctx, img)
	if err != nil {
		return err
	}

	doc := result{
		File:    path,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Regions: regions,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(data))

	if annotate {
		annotated := imaging.Annotate(img, regions, annotationColor)
		out := annotatedPath(path)
		if err := imaging.SaveImage(annotated, out); err != nil {
			return fmt.Errorf("save annotated image: %w", err)
		}
		slog.Info("annotated image written", "file", out)
	}
	return nil
}

// annotatedPath derives the output name for an annotated copy.
func annotatedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_annotated.png"
}

// printSummary writes the aggregate run statistics to stderr.
func printSummary(s telemetry.Summary) {
	fmt.Fprintf(os.Stderr, "runs: %d (%.0f%% success)\n", s.Count, s.SuccessRate*100)
	fmt.Fprintf(os.Stderr, "duration: avg %s, p50 %s, p95 %s, p99 %s\n",
		s.AvgDuration, s.P50Duration, s.P95Duration, s.P99Duration)
	fmt.Fprintf(os.Stderr, "regions per run: %.1f\n", s.AvgRegionCount)
}
