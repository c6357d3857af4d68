package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
	"github.com/mockframe/regiondetect/internal/telemetry"
)

// ErrInvalidInput marks a malformed or out-of-bounds input image. It is
// returned before any detector runs.
var ErrInvalidInput = errors.New("invalid input image")

// ErrNoSuitableRegion is returned when not even the fallback detector
// produced a region surviving the final area filter.
var ErrNoSuitableRegion = errors.New("no suitable region found")

// highConfidenceFloor is the confidence above which a detection counts
// toward sequential early termination.
const highConfidenceFloor = 0.8

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRecorder attaches a telemetry recorder. Recording sits outside the
// detection path: a nil recorder disables it and a full one just evicts
// old records, neither affects results.
func WithRecorder(rec *telemetry.Recorder) Option {
	return func(e *Engine) { e.recorder = rec }
}

// Engine runs the enabled detectors over one image per call and returns
// their merged, ranked output.
//
// An Engine is immutable after construction and safe for concurrent use:
// detection holds no shared mutable state beyond the validated
// configuration and the optional (internally locked) telemetry recorder.
type Engine struct {
	cfg       config.Config
	detectors []Detector
	log       *slog.Logger
	recorder  *telemetry.Recorder
}

// NewEngine validates the configuration and builds the enabled detector
// set. An invalid configuration is rejected here, before any image work.
func NewEngine(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg.Clone(), log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	for _, name := range e.cfg.EnabledDetectors {
		e.detectors = append(e.detectors, newDetector(name, e.cfg))
	}
	return e, nil
}

// newDetector maps a registry name to its implementation. Names were
// validated by the configuration, so an unknown one is a programming
// error.
func newDetector(name string, cfg config.Config) Detector {
	switch name {
	case config.DetectorEdge:
		return NewEdgeDetector(cfg)
	case config.DetectorContour:
		return NewContourDetector(cfg)
	case config.DetectorColor:
		return NewColorDetector(cfg)
	case config.DetectorTemplate:
		return NewTemplateDetector(cfg)
	case config.DetectorFallback:
		return NewFallbackDetector(cfg)
	}
	panic(fmt.Sprintf("detection: unknown detector %q", name))
}

// FindRegions finds regions of the image suitable for placing artwork,
// ranked best first.
//
// The image is validated and normalized, every enabled detector runs
// (sequentially or in parallel per the configuration), candidates are
// merged, ranked and truncated to the configured maximum. When nothing
// survives and the fallback is enabled, its composition-rule regions are
// used instead. Detector failures are logged and contribute zero regions;
// only an invalid image or a fully empty result produce an error.
func (e *Engine) FindRegions(ctx context.Context, img image.Image) ([]region.Region, error) {
	start := time.Now()

	out, timings, err := e.findRegions(ctx, img)

	if e.recorder != nil {
		rec := telemetry.Record{
			Duration:          time.Since(start),
			DetectorDurations: timings,
			RegionCount:       len(out),
			Success:           err == nil,
		}
		if img != nil {
			bounds := img.Bounds()
			rec.ImageWidth = bounds.Dx()
			rec.ImageHeight = bounds.Dy()
		}
		if err != nil {
			rec.Error = err.Error()
		}
		e.recorder.Add(rec)
	}
	return out, err
}

func (e *Engine) findRegions(ctx context.Context, img image.Image) ([]region.Region, map[string]time.Duration, error) {
	if img == nil {
		return nil, nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < e.cfg.MinImageDimension || height < e.cfg.MinImageDimension {
		return nil, nil, fmt.Errorf("%w: %dx%d below minimum dimension %d",
			ErrInvalidInput, width, height, e.cfg.MinImageDimension)
	}
	if width > e.cfg.MaxImageDimension || height > e.cfg.MaxImageDimension {
		return nil, nil, fmt.Errorf("%w: %dx%d above maximum dimension %d",
			ErrInvalidInput, width, height, e.cfg.MaxImageDimension)
	}

	normalized, scale, err := imaging.Normalize(img, e.cfg.MinImageDimension, e.cfg.MaxImageDimension)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	in := &Input{Image: normalized, Gray: imaging.FromImage(normalized)}

	var candidates []region.Region
	var timings map[string]time.Duration
	if e.cfg.ParallelDetection && len(e.detectors) > 1 {
		candidates, timings = e.runParallel(ctx, in)
	} else {
		candidates, timings = e.runSequential(ctx, in)
	}

	merged := region.MergeOverlappingFunc(candidates, e.cfg.MergeIoUThreshold, region.MergeAnnotated)
	ranked := Rank(merged, in.Width(), in.Height(), &e.cfg)
	if len(ranked) > e.cfg.MaxDetections {
		ranked = ranked[:e.cfg.MaxDetections]
	}

	if len(ranked) == 0 && e.cfg.EnableFallback {
		e.log.Debug("no detections, invoking fallback")
		fb := NewFallbackDetector(e.cfg)
		fbStart := time.Now()
		ranked = e.runDetector(ctx, fb, in)
		if timings == nil {
			timings = make(map[string]time.Duration)
		}
		timings[fb.Name()] = time.Since(fbStart)
	}

	// Final guard: a region the caller cannot realistically place into is
	// worse than no region.
	minArea := float64(in.Width()*in.Height()) * e.cfg.MinRegionAreaRatio
	final := ranked[:0:0]
	for _, r := range ranked {
		if r.Area() >= minArea {
			final = append(final, r)
		}
	}
	if len(final) == 0 {
		return nil, timings, ErrNoSuitableRegion
	}

	// Report in original-image coordinates when the input was downscaled.
	if scale != 1.0 {
		for i := range final {
			final[i] = final[i].Scale(1 / scale)
		}
	}

	e.log.Info("detection complete",
		"regions", len(final), "candidates", len(candidates), "merged", len(merged))
	return final, timings, nil
}

// runSequential runs the detectors one after another, stopping early once
// enough high-confidence detections have accumulated.
func (e *Engine) runSequential(ctx context.Context, in *Input) ([]region.Region, map[string]time.Duration) {
	var all []region.Region
	timings := make(map[string]time.Duration, len(e.detectors))

	for _, det := range e.detectors {
		start := time.Now()
		regions := e.runDetector(ctx, det, in)
		timings[det.Name()] = time.Since(start)

		e.log.Debug("detector finished",
			"detector", det.Name(), "regions", len(regions),
			"duration_ms", time.Since(start).Milliseconds())
		all = append(all, regions...)

		highConf := 0
		for _, r := range all {
			if r.Confidence > highConfidenceFloor {
				highConf++
			}
		}
		if highConf >= e.cfg.MaxDetections*2 {
			e.log.Debug("early termination, sufficient high-confidence detections",
				"count", highConf)
			break
		}
	}
	return all, timings
}

// detectorResult carries one detector's output back from its worker.
type detectorResult struct {
	name     string
	regions  []region.Region
	duration time.Duration
}

// runParallel runs every detector in its own worker with a per-detector
// timeout. A timed-out detector contributes nothing; its goroutine may
// keep computing until it returns on its own, which is accepted — the
// overall call never waits past the timeout for it.
func (e *Engine) runParallel(ctx context.Context, in *Input) ([]region.Region, map[string]time.Duration) {
	results := make(chan detectorResult, len(e.detectors))

	for _, det := range e.detectors {
		go func(det Detector) {
			dctx, cancel := context.WithTimeout(ctx, e.cfg.TimeoutDuration())
			defer cancel()
			start := time.Now()

			done := make(chan []region.Region, 1)
			go func() { done <- e.runDetector(dctx, det, in) }()

			select {
			case regions := <-done:
				results <- detectorResult{det.Name(), regions, time.Since(start)}
			case <-dctx.Done():
				e.log.Warn("detector timed out",
					"detector", det.Name(), "timeout", e.cfg.TimeoutDuration())
				results <- detectorResult{det.Name(), nil, time.Since(start)}
			}
		}(det)
	}

	var all []region.Region
	timings := make(map[string]time.Duration, len(e.detectors))
	for range e.detectors {
		res := <-results
		timings[res.name] = res.duration
		e.log.Debug("detector finished",
			"detector", res.name, "regions", len(res.regions),
			"duration_ms", res.duration.Milliseconds())
		all = append(all, res.regions...)
	}
	return all, timings
}

// runDetector invokes one detector, converting panics and errors into an
// empty result so a single broken strategy never aborts the call.
func (e *Engine) runDetector(ctx context.Context, det Detector, in *Input) (regions []region.Region) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("detector panicked", "detector", det.Name(), "panic", r)
			regions = nil
		}
	}()

	out, err := det.Detect(ctx, in)
	if err != nil {
		e.log.Warn("detector failed", "detector", det.Name(), "error", err)
		return nil
	}
	return out
}
