// Package preset holds the tunable parameter set of one particle effect and
// its file format.
package preset

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape selects which position distribution new particles are sampled from.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeCircle
	ShapeRectangle
)

// ShapeNames is ordered by Shape value, so it doubles as the combo item list.
var ShapeNames = []string{"None", "Circle", "Rectangle"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(ShapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return ShapeNames[s]
}

// Index returns the combo selector index for s.
func (s Shape) Index() int { return int(s) }

// ParseShape resolves the persisted shape name.
func ParseShape(name string) (Shape, error) {
	for i, n := range ShapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return ShapeNone, fmt.Errorf("unknown shape %q", name)
}

// BlendMode is persisted as its integer code.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAdd
	BlendAlpha
	BlendMultiply
)

var BlendModeNames = []string{"None", "Add", "Alpha", "Multiply"}

func (b BlendMode) String() string {
	if b < 0 || int(b) >= len(BlendModeNames) {
		return fmt.Sprintf("BlendMode(%d)", int(b))
	}
	return BlendModeNames[b]
}

// ParseBlendMode accepts the codes 0..3.
func ParseBlendMode(code int) (BlendMode, error) {
	if code < 0 || code >= len(BlendModeNames) {
		return BlendNone, fmt.Errorf("unknown blend mode code %d", code)
	}
	return BlendMode(code), nil
}

// ParameterSet is the full configuration of one preset. Range fields keep
// the low bound in X and the high bound in Y.
type ParameterSet struct {
	Looping  bool
	Duration float64

	NrOfParticles float64
	Lifetime      mgl64.Vec2

	Position mgl64.Vec2
	Shape    Shape
	Radius   float64
	HalfSize mgl64.Vec2

	Size          mgl64.Vec2
	Rotation      mgl64.Vec2
	RotationSpeed mgl64.Vec2

	Velocity            mgl64.Vec2
	VelocityPolarVector bool
	Deflect             bool
	MaxRotation         float64

	Color     color.NRGBA
	BlendMode BlendMode

	Fader  mgl64.Vec2
	Force  mgl64.Vec2
	Torque float64

	// Derived on save from the values they gate.
	EnableTorqueAff bool
	EnableFadeAff   bool
	EnableForceAff  bool

	FullParticlePath string
	SoundPath        string
}

// Default returns the parameter set a fresh editor session starts with.
func Default() *ParameterSet {
	return &ParameterSet{
		Looping:       true,
		Duration:      1,
		NrOfParticles: 1,
		Lifetime:      mgl64.Vec2{1, 1},
		Position:      mgl64.Vec2{400, 400},
		Shape:         ShapeNone,
		Radius:        1,
		HalfSize:      mgl64.Vec2{1, 1},
		Size:          mgl64.Vec2{1, 1},
		Color:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		BlendMode:     BlendNone,
	}
}

// Clone returns an independent copy.
func (p *ParameterSet) Clone() *ParameterSet {
	c := *p
	return &c
}

// Validate reapplies the invariants after an edit. Out-of-range values are
// corrected in place, never reported.
func (p *ParameterSet) Validate() {
	constrainNegative(&p.NrOfParticles)
	constrainNegative(&p.Duration)
	constrainNegative(&p.Radius)
	constrainNegative(&p.MaxRotation)
	constrainNegative(&p.HalfSize[0])
	constrainNegative(&p.HalfSize[1])

	constrainRange(&p.Lifetime)
	constrainRange(&p.Size)
	constrainRange(&p.Rotation)
	constrainRange(&p.RotationSpeed)

	p.Fader[0] = clamp(p.Fader[0], 0, 1)
	p.Fader[1] = clamp(p.Fader[1], 0, 1)
	if p.Fader[0]+p.Fader[1] > 1 {
		p.Fader = mgl64.Vec2{}
	}

	if p.Shape < ShapeNone || p.Shape > ShapeRectangle {
		p.Shape = ShapeNone
	}
	if p.BlendMode < BlendNone || p.BlendMode > BlendMultiply {
		p.BlendMode = BlendNone
	}
}

// DeriveAffectorFlags recomputes the enable flags from the values they gate.
// A deliberately zeroed affector reads as disabled.
func (p *ParameterSet) DeriveAffectorFlags() {
	p.EnableTorqueAff = p.Torque != 0
	p.EnableForceAff = p.Force != (mgl64.Vec2{})
	p.EnableFadeAff = p.Fader != (mgl64.Vec2{})
}

func constrainNegative(v *float64) {
	if *v < 0 || math.IsNaN(*v) {
		*v = 0
	}
}

// constrainRange clamps the low bound to [0, high] and the high bound to
// [low, +inf), in that order.
func constrainRange(r *mgl64.Vec2) {
	if math.IsNaN(r[0]) {
		r[0] = 0
	}
	if math.IsNaN(r[1]) {
		r[1] = 0
	}
	r[0] = clamp(r[0], 0, math.Max(r[1], 0))
	r[1] = math.Max(r[1], r[0])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
