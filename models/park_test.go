package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWallAt tests interpolation across the five surveyed points
func TestWallAt(t *testing.T) {
	park := NeutralPark()

	tests := []struct {
		name     string
		spray    float64
		wantDist float64
	}{
		{"left field line", -45, 330},
		{"left center", -22.5, 375},
		{"dead center", 0, 400},
		{"right center", 22.5, 375},
		{"right field line", 45, 330},
		{"halfway left gap", -33.75, 352.5},
		{"clamped past left line", -60, 330},
		{"clamped past right line", 60, 330},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, height := park.WallAt(tt.spray)
			assert.InDelta(t, tt.wantDist, dist, 0.001)
			assert.Equal(t, 8.0, height)
		})
	}
}

// TestParkValidate rejects non-physical geometry
func TestParkValidate(t *testing.T) {
	park := NeutralPark()
	assert.NoError(t, park.Validate())

	short := NeutralPark()
	short.LeftField = 100
	assert.Error(t, short.Validate())

	negative := NeutralPark()
	negative.CenterWall = -3
	assert.Error(t, negative.Validate())
}
