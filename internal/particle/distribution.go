// Package particle is a small CPU particle system drawn with ebiten.
//
// Emitters sample each new particle's attributes from distributions,
// affectors modify live particles every step, and connections control how
// long an emitter or affector stays attached to a System.
package particle

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// ScalarKind tags a Scalar distribution.
type ScalarKind int

const (
	ScalarConst ScalarKind = iota
	ScalarUniform
)

// Scalar is a distribution over float64 values.
type Scalar struct {
	Kind     ScalarKind
	Min, Max float64
}

func Const(v float64) Scalar { return Scalar{Kind: ScalarConst, Min: v, Max: v} }

// Uniform samples evenly from [lo, hi].
func Uniform(lo, hi float64) Scalar { return Scalar{Kind: ScalarUniform, Min: lo, Max: hi} }

func (s Scalar) Sample(rng *rand.Rand) float64 {
	if s.Kind == ScalarConst || s.Min == s.Max {
		return s.Min
	}
	return s.Min + rng.Float64()*(s.Max-s.Min)
}

// VectorKind tags a Vector distribution.
type VectorKind int

const (
	VectorConst VectorKind = iota
	VectorPolar
	VectorCircle
	VectorRect
	VectorDeflect
)

// Vector is a distribution over 2D vectors. Only the fields relevant to
// Kind are used.
type Vector struct {
	Kind VectorKind

	// Const value, or centre of Circle and Rect.
	Value mgl64.Vec2

	// Polar: angle in degrees, magnitude in pixels.
	Angle     float64
	Magnitude float64

	Radius   float64
	HalfSize mgl64.Vec2

	// Deflect rotates a sample of Base by up to MaxRotation degrees either way.
	Base        *Vector
	MaxRotation float64
}

func ConstVec(v mgl64.Vec2) Vector { return Vector{Kind: VectorConst, Value: v} }

func Polar(angle, magnitude float64) Vector {
	return Vector{Kind: VectorPolar, Angle: angle, Magnitude: magnitude}
}

// Circle samples uniformly inside the disk of radius around center.
func Circle(center mgl64.Vec2, radius float64) Vector {
	return Vector{Kind: VectorCircle, Value: center, Radius: radius}
}

// Rect samples uniformly inside center±halfSize.
func Rect(center, halfSize mgl64.Vec2) Vector {
	return Vector{Kind: VectorRect, Value: center, HalfSize: halfSize}
}

func Deflect(base Vector, maxRotation float64) Vector {
	return Vector{Kind: VectorDeflect, Base: &base, MaxRotation: maxRotation}
}

func (v Vector) Sample(rng *rand.Rand) mgl64.Vec2 {
	switch v.Kind {
	case VectorPolar:
		return polarToVec(v.Angle, v.Magnitude)
	case VectorCircle:
		// sqrt keeps the density uniform over the area
		r := v.Radius * math.Sqrt(rng.Float64())
		phi := rng.Float64() * 2 * math.Pi
		return v.Value.Add(mgl64.Vec2{r * math.Cos(phi), r * math.Sin(phi)})
	case VectorRect:
		return mgl64.Vec2{
			v.Value.X() + (rng.Float64()*2-1)*v.HalfSize.X(),
			v.Value.Y() + (rng.Float64()*2-1)*v.HalfSize.Y(),
		}
	case VectorDeflect:
		if v.Base == nil {
			return mgl64.Vec2{}
		}
		base := v.Base.Sample(rng)
		angle := (rng.Float64()*2 - 1) * v.MaxRotation
		return mgl64.Rotate2D(mgl64.DegToRad(angle)).Mul2x1(base)
	default:
		return v.Value
	}
}

func polarToVec(angle, magnitude float64) mgl64.Vec2 {
	rad := mgl64.DegToRad(angle)
	return mgl64.Vec2{magnitude * math.Cos(rad), magnitude * math.Sin(rad)}
}

// AngleOf returns the direction of v in degrees, in (-180, 180].
func AngleOf(v mgl64.Vec2) float64 {
	return mgl64.RadToDeg(math.Atan2(v.Y(), v.X()))
}
