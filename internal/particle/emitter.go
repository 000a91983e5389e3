package particle

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is one live particle. Rotation is in degrees.
type Particle struct {
	Position      mgl64.Vec2
	Velocity      mgl64.Vec2
	Rotation      float64
	RotationSpeed float64
	Scale         mgl64.Vec2
	Color         color.NRGBA

	Age      float64
	Lifetime float64

	baseAlpha uint8
}

// Progress is the elapsed fraction of the particle's lifetime.
func (p *Particle) Progress() float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return math.Min(p.Age/p.Lifetime, 1)
}

// Emitter spawns particles at Rate per second, sampling each attribute from
// its distribution. Fields may be replaced between steps.
type Emitter struct {
	Rate          float64
	Lifetime      Scalar
	Scale         Scalar // one factor applied to both axes
	Rotation      Scalar
	RotationSpeed Scalar
	Velocity      Vector
	Position      Vector
	Color         color.NRGBA

	accum float64
}

// NewEmitter returns an emitter that spawns one white, static particle per
// second at the origin.
func NewEmitter() *Emitter {
	return &Emitter{
		Rate:     1,
		Lifetime: Const(1),
		Scale:    Const(1),
		Color:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// MaxSpawnPerStep bounds the particles one emitter adds in a single step.
const MaxSpawnPerStep = 1 << 16

// emit spawns the particles due after dt seconds.
func (e *Emitter) emit(dt float64, rng *rand.Rand, out []Particle) []Particle {
	e.accum += e.Rate * dt
	switch {
	case math.IsNaN(e.accum) || e.accum < 0:
		e.accum = 0
	case e.accum > MaxSpawnPerStep:
		e.accum = MaxSpawnPerStep
	}
	n := int(e.accum)
	e.accum -= float64(n)
	return e.burst(n, rng, out)
}

// burstSize is ceil(rate), bounded like a regular step.
func burstSize(rate float64) int {
	switch {
	case math.IsNaN(rate) || rate <= 0:
		return 0
	case rate > MaxSpawnPerStep:
		return MaxSpawnPerStep
	}
	return int(math.Ceil(rate))
}

func (e *Emitter) burst(n int, rng *rand.Rand, out []Particle) []Particle {
	for i := 0; i < n; i++ {
		out = append(out, e.spawn(rng))
	}
	return out
}

func (e *Emitter) spawn(rng *rand.Rand) Particle {
	scale := e.Scale.Sample(rng)
	return Particle{
		Position:      e.Position.Sample(rng),
		Velocity:      e.Velocity.Sample(rng),
		Rotation:      e.Rotation.Sample(rng),
		RotationSpeed: e.RotationSpeed.Sample(rng),
		Scale:         mgl64.Vec2{scale, scale},
		Color:         e.Color,
		Lifetime:      e.Lifetime.Sample(rng),
		baseAlpha:     e.Color.A,
	}
}
