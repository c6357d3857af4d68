// Package config defines the tunable surface of the region-detection
// engine: one Config struct covering every detector and the ranking step,
// eager validation, named presets, and JSON loading for tooling.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/mockframe/regiondetect/internal/region"
)

// ErrInvalid is wrapped by every validation failure. Callers test for it
// with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Detector names accepted in EnabledDetectors.
const (
	DetectorEdge     = "edge"
	DetectorContour  = "contour"
	DetectorColor    = "color"
	DetectorTemplate = "template"
	DetectorFallback = "fallback"
)

// Scoring weight component names accepted in ScoringWeights.
const (
	WeightConfidence   = "confidence"
	WeightSize         = "size"
	WeightAspectRatio  = "aspect_ratio"
	WeightPosition     = "position"
	WeightEdgeDistance = "edge_distance"
)

// weightSumTolerance is how far the scoring weights may drift from 1.0.
const weightSumTolerance = 0.001

// KnownDetectors lists the five detector names in their canonical order.
func KnownDetectors() []string {
	return []string{DetectorEdge, DetectorContour, DetectorColor, DetectorTemplate, DetectorFallback}
}

// Config bundles every tunable of the detection engine.
//
// A Config must pass Validate before any detection work starts; the engine
// constructor enforces this. The zero value is not usable, start from
// DefaultConfig or a preset.
type Config struct {
	// Edge detection.
	CannyLowThreshold  int `json:"canny_low_threshold"`
	CannyHighThreshold int `json:"canny_high_threshold"`
	BlurKernelSize     int `json:"blur_kernel_size"`

	// Contour analysis.
	MinContourArea      float64 `json:"min_contour_area"`
	ApproxEpsilonFactor float64 `json:"approx_epsilon_factor"`

	// Region filtering.
	MinAreaRatio     float64    `json:"min_area_ratio"`
	MaxAreaRatio     float64    `json:"max_area_ratio"`
	AspectRatioRange [2]float64 `json:"aspect_ratio_range"`

	// Color analysis.
	ColorThreshold     float64 `json:"color_threshold"`
	MinColorRegionSize int     `json:"min_color_region_size"`

	// Template matching.
	TemplateMatchThreshold float64   `json:"template_match_threshold"`
	TemplateScales         []float64 `json:"template_scales"`

	// Result selection.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	MaxDetections       int     `json:"max_detections"`
	EnableFallback      bool    `json:"enable_fallback"`

	// Execution. DetectorTimeout is in seconds.
	ParallelDetection bool    `json:"parallel_detection"`
	DetectorTimeout   float64 `json:"detector_timeout"`
	MinImageDimension int     `json:"min_image_dimension"`
	MaxImageDimension int     `json:"max_image_dimension"`

	// Merging and the final area filter.
	MergeIoUThreshold  float64 `json:"merge_iou_threshold"`
	MinRegionAreaRatio float64 `json:"min_region_area_ratio"`

	// Ranking. Keys are the Weight* component names; missing components
	// weigh 0. The present values must sum to 1.0.
	ScoringWeights map[string]float64 `json:"scoring_weights"`

	// Detectors to run, a non-empty subset of KnownDetectors.
	EnabledDetectors []string `json:"enabled_detectors"`
}

// DefaultConfig returns the baseline configuration with every detector
// enabled.
func DefaultConfig() Config {
	return Config{
		CannyLowThreshold:      50,
		CannyHighThreshold:     150,
		BlurKernelSize:         5,
		MinContourArea:         1000,
		ApproxEpsilonFactor:    0.02,
		MinAreaRatio:           0.01,
		MaxAreaRatio:           0.8,
		AspectRatioRange:       [2]float64{0.3, 3.0},
		ColorThreshold:         30,
		MinColorRegionSize:     5000,
		TemplateMatchThreshold: 0.7,
		TemplateScales:         []float64{0.5, 0.75, 1.0, 1.25, 1.5},
		ConfidenceThreshold:    0.5,
		MaxDetections:          10,
		EnableFallback:         true,
		ParallelDetection:      true,
		DetectorTimeout:        5.0,
		MinImageDimension:      50,
		MaxImageDimension:      4096,
		MergeIoUThreshold:      0.3,
		MinRegionAreaRatio:     0.01,
		ScoringWeights: map[string]float64{
			WeightConfidence:   0.3,
			WeightSize:         0.25,
			WeightAspectRatio:  0.15,
			WeightPosition:     0.2,
			WeightEdgeDistance: 0.1,
		},
		EnabledDetectors: KnownDetectors(),
	}
}

// Validate checks every invariant and returns a wrapped ErrInvalid naming
// the first offending field. It performs no image work.
func (c *Config) Validate() error {
	if c.CannyLowThreshold <= 0 || c.CannyHighThreshold <= 0 {
		return fmt.Errorf("%w: canny thresholds must be positive, got %d/%d",
			ErrInvalid, c.CannyLowThreshold, c.CannyHighThreshold)
	}
	if c.CannyLowThreshold >= c.CannyHighThreshold {
		return fmt.Errorf("%w: canny_low_threshold %d must be below canny_high_threshold %d",
			ErrInvalid, c.CannyLowThreshold, c.CannyHighThreshold)
	}
	if c.BlurKernelSize < 3 || c.BlurKernelSize%2 == 0 {
		return fmt.Errorf("%w: blur_kernel_size must be odd and at least 3, got %d",
			ErrInvalid, c.BlurKernelSize)
	}
	if c.MinContourArea <= 0 {
		return fmt.Errorf("%w: min_contour_area must be positive, got %g", ErrInvalid, c.MinContourArea)
	}
	if c.ApproxEpsilonFactor <= 0 || c.ApproxEpsilonFactor >= 1 {
		return fmt.Errorf("%w: approx_epsilon_factor must be in (0, 1), got %g",
			ErrInvalid, c.ApproxEpsilonFactor)
	}
	if c.MinAreaRatio <= 0 || c.MinAreaRatio > 1 || c.MaxAreaRatio <= 0 || c.MaxAreaRatio > 1 {
		return fmt.Errorf("%w: area ratios must be in (0, 1], got %g/%g",
			ErrInvalid, c.MinAreaRatio, c.MaxAreaRatio)
	}
	if c.MinAreaRatio >= c.MaxAreaRatio {
		return fmt.Errorf("%w: min_area_ratio %g must be below max_area_ratio %g",
			ErrInvalid, c.MinAreaRatio, c.MaxAreaRatio)
	}
	if c.AspectRatioRange[0] <= 0 || c.AspectRatioRange[0] >= c.AspectRatioRange[1] {
		return fmt.Errorf("%w: aspect_ratio_range must satisfy 0 < low < high, got [%g, %g]",
			ErrInvalid, c.AspectRatioRange[0], c.AspectRatioRange[1])
	}
	if c.ColorThreshold <= 0 {
		return fmt.Errorf("%w: color_threshold must be positive, got %g", ErrInvalid, c.ColorThreshold)
	}
	if c.MinColorRegionSize <= 0 {
		return fmt.Errorf("%w: min_color_region_size must be positive, got %d",
			ErrInvalid, c.MinColorRegionSize)
	}
	if c.TemplateMatchThreshold <= 0 || c.TemplateMatchThreshold > 1 {
		return fmt.Errorf("%w: template_match_threshold must be in (0, 1], got %g",
			ErrInvalid, c.TemplateMatchThreshold)
	}
	if len(c.TemplateScales) == 0 {
		return fmt.Errorf("%w: template_scales must not be empty", ErrInvalid)
	}
	for _, s := range c.TemplateScales {
		if s <= 0 || s > 2.0 {
			return fmt.Errorf("%w: template scale %g outside (0, 2.0]", ErrInvalid, s)
		}
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence_threshold must be in [0, 1], got %g",
			ErrInvalid, c.ConfidenceThreshold)
	}
	if c.MaxDetections < 1 {
		return fmt.Errorf("%w: max_detections must be at least 1, got %d", ErrInvalid, c.MaxDetections)
	}
	if c.DetectorTimeout <= 0 {
		return fmt.Errorf("%w: detector_timeout must be positive, got %g", ErrInvalid, c.DetectorTimeout)
	}
	if c.MinImageDimension < 1 || c.MinImageDimension >= c.MaxImageDimension {
		return fmt.Errorf("%w: image dimension bounds must satisfy 1 <= min < max, got %d/%d",
			ErrInvalid, c.MinImageDimension, c.MaxImageDimension)
	}
	if c.MergeIoUThreshold <= 0 || c.MergeIoUThreshold >= 1 {
		return fmt.Errorf("%w: merge_iou_threshold must be in (0, 1), got %g",
			ErrInvalid, c.MergeIoUThreshold)
	}
	if c.MinRegionAreaRatio <= 0 || c.MinRegionAreaRatio >= 1 {
		return fmt.Errorf("%w: min_region_area_ratio must be in (0, 1), got %g",
			ErrInvalid, c.MinRegionAreaRatio)
	}
	if err := c.validateWeights(); err != nil {
		return err
	}
	return c.validateDetectors()
}

func (c *Config) validateWeights() error {
	if len(c.ScoringWeights) == 0 {
		return fmt.Errorf("%w: scoring_weights must not be empty", ErrInvalid)
	}
	known := map[string]bool{
		WeightConfidence:   true,
		WeightSize:         true,
		WeightAspectRatio:  true,
		WeightPosition:     true,
		WeightEdgeDistance: true,
	}
	sum := 0.0
	for name, w := range c.ScoringWeights {
		if !known[name] {
			return fmt.Errorf("%w: unknown scoring weight %q", ErrInvalid, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: scoring weight %q must not be negative, got %g", ErrInvalid, name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: scoring weights must sum to 1.0, got %.3f", ErrInvalid, sum)
	}
	return nil
}

func (c *Config) validateDetectors() error {
	if len(c.EnabledDetectors) == 0 {
		return fmt.Errorf("%w: enabled_detectors must not be empty", ErrInvalid)
	}
	known := map[string]bool{}
	for _, name := range KnownDetectors() {
		known[name] = true
	}
	seen := map[string]bool{}
	for _, name := range c.EnabledDetectors {
		if !known[name] {
			return fmt.Errorf("%w: unknown detector %q", ErrInvalid, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: detector %q enabled twice", ErrInvalid, name)
		}
		seen[name] = true
	}
	return nil
}

// DetectorEnabled reports whether the named detector is in the enabled set.
func (c *Config) DetectorEnabled(name string) bool {
	for _, d := range c.EnabledDetectors {
		if d == name {
			return true
		}
	}
	return false
}

// TimeoutDuration returns the per-detector timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.DetectorTimeout * float64(time.Second))
}

// Limits translates the filtering fields into the shape the region package
// consumes.
func (c *Config) Limits() region.Limits {
	return region.Limits{
		MinAreaRatio:  c.MinAreaRatio,
		MaxAreaRatio:  c.MaxAreaRatio,
		MinAspect:     c.AspectRatioRange[0],
		MaxAspect:     c.AspectRatioRange[1],
		MinConfidence: c.ConfidenceThreshold,
	}
}

// Weight returns the scoring weight for a component, 0 when absent.
func (c *Config) Weight(name string) float64 {
	return c.ScoringWeights[name]
}

// Clone returns a deep copy, so callers can derive variants without
// sharing the slice and map fields.
func (c Config) Clone() Config {
	out := c
	out.TemplateScales = append([]float64(nil), c.TemplateScales...)
	out.EnabledDetectors = append([]string(nil), c.EnabledDetectors...)
	out.ScoringWeights = make(map[string]float64, len(c.ScoringWeights))
	for k, v := range c.ScoringWeights {
		out.ScoringWeights[k] = v
	}
	return out
}

// Load reads a JSON configuration file. Fields absent from the file keep
// their DefaultConfig values; the merged result is validated before it is
// returned.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes JSON configuration data on top of the defaults and
// validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
