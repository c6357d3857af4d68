package config

import "fmt"

// Preset names accepted by Preset.
const (
	PresetDefault         = "default"
	PresetHighQuality     = "high_quality"
	PresetFast            = "fast"
	PresetMockupOptimized = "mockup_optimized"
)

// PresetNames lists the selectable presets in a stable order.
func PresetNames() []string {
	return []string{PresetDefault, PresetHighQuality, PresetFast, PresetMockupOptimized}
}

// Preset returns a named configuration. Every preset starts from
// DefaultConfig and overrides a handful of fields, so each one satisfies
// Validate.
func Preset(name string) (Config, error) {
	cfg := DefaultConfig()
	switch name {
	case PresetDefault:
	case PresetHighQuality:
		// Lower Canny thresholds keep faint edges; the tighter area window
		// and higher confidence floor trade recall for precision.
		cfg.CannyLowThreshold = 30
		cfg.CannyHighThreshold = 100
		cfg.ConfidenceThreshold = 0.7
		cfg.MinAreaRatio = 0.02
		cfg.MaxAreaRatio = 0.7
		cfg.ParallelDetection = true
	case PresetFast:
		cfg.CannyLowThreshold = 70
		cfg.CannyHighThreshold = 170
		cfg.ConfidenceThreshold = 0.4
		cfg.TemplateScales = []float64{0.75, 1.0, 1.25}
		cfg.ParallelDetection = false
		cfg.DetectorTimeout = 2.0
	case PresetMockupOptimized:
		cfg.CannyLowThreshold = 40
		cfg.CannyHighThreshold = 120
		cfg.MinAreaRatio = 0.05
		cfg.MaxAreaRatio = 0.6
		cfg.AspectRatioRange = [2]float64{0.5, 2.0}
		cfg.ConfidenceThreshold = 0.6
		cfg.TemplateScales = []float64{0.6, 0.8, 1.0, 1.2, 1.4}
		cfg.ScoringWeights = map[string]float64{
			WeightSize:       0.4,
			WeightPosition:   0.3,
			WeightConfidence: 0.3,
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
	}
	return cfg, nil
}
