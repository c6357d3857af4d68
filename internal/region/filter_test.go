package region

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLimits() Limits {
	return Limits{
		MinAreaRatio:  0.01,
		MaxAreaRatio:  0.8,
		MinAspect:     0.3,
		MaxAspect:     3.0,
		MinConfidence: 0.5,
	}
}

func TestFilterDropsOutOfBounds(t *testing.T) {
	regions := []Region{
		New(-10, 0, 100, 100, 0.9, "outside-left"),
		New(0, 0, 100, 100, 0.9, "inside"),
		New(350, 0, 100, 100, 0.9, "outside-right"),
	}

	kept := Filter(regions, 400, 300, defaultLimits())

	require.Len(t, kept, 1)
	assert.Equal(t, "inside", kept[0].Label)
}

func TestFilterAreaWindow(t *testing.T) {
	// Ratios against the 400x300 image: ~0.0008, 0.25 and 1.0.
	regions := []Region{
		New(0, 0, 10, 10, 0.9, "too-small"),
		New(0, 0, 200, 150, 0.9, "fits"),
		New(0, 0, 400, 300, 0.9, "whole-image"),
	}

	kept := Filter(regions, 400, 300, defaultLimits())

	require.Len(t, kept, 1)
	assert.Equal(t, "fits", kept[0].Label)
}

func TestFilterAspectWindow(t *testing.T) {
	// Aspect ratios 15, 0.08 and 1.5 against the [0.3, 3.0] window.
	regions := []Region{
		New(0, 0, 300, 20, 0.9, "too-wide"),
		New(0, 0, 20, 250, 0.9, "too-tall"),
		New(0, 0, 150, 100, 0.9, "fits"),
	}

	kept := Filter(regions, 400, 300, defaultLimits())

	require.Len(t, kept, 1)
	assert.Equal(t, "fits", kept[0].Label)
}

func TestFilterConfidenceFloor(t *testing.T) {
	regions := []Region{
		New(0, 0, 150, 100, 0.49, "below"),
		New(0, 0, 150, 100, 0.5, "at"),
		New(0, 0, 150, 100, 0.51, "above"),
	}

	kept := Filter(regions, 400, 300, defaultLimits())

	require.Len(t, kept, 2)
	assert.Equal(t, "at", kept[0].Label, "threshold is inclusive")
	assert.Equal(t, "above", kept[1].Label, "input order is preserved")
}

func TestFilterNeverViolatesLimits(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	lim := defaultLimits()
	const width, height = 640, 480
	imageArea := float64(width * height)

	for trial := 0; trial < 50; trial++ {
		regions := make([]Region, 0, 30)
		for i := 0; i < 30; i++ {
			regions = append(regions, Region{
				X:          rng.Float64()*700 - 30,
				Y:          rng.Float64()*500 - 30,
				Width:      rng.Float64() * 650,
				Height:     rng.Float64() * 500,
				Confidence: rng.Float64(),
			})
		}

		for _, r := range Filter(regions, width, height, lim) {
			ratio := r.Area() / imageArea
			assert.True(t, r.WithinBounds(width, height), "kept region out of bounds: %+v", r)
			assert.GreaterOrEqual(t, ratio, lim.MinAreaRatio, "area ratio below minimum: %+v", r)
			assert.LessOrEqual(t, ratio, lim.MaxAreaRatio, "area ratio above maximum: %+v", r)
			assert.GreaterOrEqual(t, r.AspectRatio(), lim.MinAspect, "aspect below minimum: %+v", r)
			assert.LessOrEqual(t, r.AspectRatio(), lim.MaxAspect, "aspect above maximum: %+v", r)
			assert.GreaterOrEqual(t, r.Confidence, lim.MinConfidence, "confidence below floor: %+v", r)
		}
	}
}

func TestFilterZeroImageArea(t *testing.T) {
	regions := []Region{New(0, 0, 10, 10, 0.9, "r")}
	assert.Nil(t, Filter(regions, 0, 100, defaultLimits()))
}
