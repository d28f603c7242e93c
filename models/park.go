package models

import "math"

// ParkGeometry describes outfield wall distances and heights at five
// compass points. Park factors are currently disabled league-wide, so most
// runs use NeutralPark; the Enabled flag distinguishes "park factors off by
// design" from a missing-geometry bug.
type ParkGeometry struct {
	Name string `json:"name" yaml:"name"`

	// Enabled marks geometry that was deliberately configured. A nil or
	// disabled geometry means the neutral park applies.
	Enabled bool `json:"enabled" yaml:"enabled"`

	LeftField   float64 `json:"left_field" yaml:"left_field"`     // feet
	LeftCenter  float64 `json:"left_center" yaml:"left_center"`   // feet
	CenterField float64 `json:"center_field" yaml:"center_field"` // feet
	RightCenter float64 `json:"right_center" yaml:"right_center"` // feet
	RightField  float64 `json:"right_field" yaml:"right_field"`   // feet

	LeftWall   float64 `json:"left_wall" yaml:"left_wall"`     // feet
	CenterWall float64 `json:"center_wall" yaml:"center_wall"` // feet
	RightWall  float64 `json:"right_wall" yaml:"right_wall"`   // feet
}

// NeutralPark returns the default geometry used whenever park factors are
// disabled or no geometry was supplied. Dimensions are typical MLB.
func NeutralPark() ParkGeometry {
	return ParkGeometry{
		Name:        "neutral",
		Enabled:     true,
		LeftField:   330,
		LeftCenter:  375,
		CenterField: 400,
		RightCenter: 375,
		RightField:  330,
		LeftWall:    8,
		CenterWall:  8,
		RightWall:   8,
	}
}

// WallAt returns the wall distance and height at a spray angle, in degrees,
// where -45 is the left-field line and +45 the right-field line. Distances
// interpolate linearly between the five surveyed points.
func (pg *ParkGeometry) WallAt(sprayDeg float64) (distance, height float64) {
	if sprayDeg < -45 {
		sprayDeg = -45
	}
	if sprayDeg > 45 {
		sprayDeg = 45
	}
	points := []struct {
		angle float64
		dist  float64
		wall  float64
	}{
		{-45, pg.LeftField, pg.LeftWall},
		{-22.5, pg.LeftCenter, (pg.LeftWall + pg.CenterWall) / 2},
		{0, pg.CenterField, pg.CenterWall},
		{22.5, pg.RightCenter, (pg.CenterWall + pg.RightWall) / 2},
		{45, pg.RightField, pg.RightWall},
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if sprayDeg >= a.angle && sprayDeg <= b.angle {
			t := (sprayDeg - a.angle) / (b.angle - a.angle)
			return a.dist + t*(b.dist-a.dist), a.wall + t*(b.wall-a.wall)
		}
	}
	return pg.CenterField, pg.CenterWall
}

// Validate rejects geometry with non-physical dimensions.
func (pg *ParkGeometry) Validate() error {
	dims := []float64{
		pg.LeftField, pg.LeftCenter, pg.CenterField, pg.RightCenter, pg.RightField,
		pg.LeftWall, pg.CenterWall, pg.RightWall,
	}
	for _, d := range dims {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return errNonPhysicalPark
		}
	}
	if pg.LeftField < 250 || pg.RightField < 250 || pg.CenterField < 300 {
		return errNonPhysicalPark
	}
	return nil
}

var errNonPhysicalPark = parkError("park: non-physical geometry")

type parkError string

func (e parkError) Error() string { return string(e) }
