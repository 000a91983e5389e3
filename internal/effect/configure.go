// Package effect binds a preset.ParameterSet to the particle engine.
package effect

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-editor/internal/particle"
	"github.com/iburimskiy/particle-editor/internal/preset"
)

// Configure maps p onto the emitter's distributions. It only builds
// distributions, so it is cheap enough to run every step.
func Configure(em *particle.Emitter, p *preset.ParameterSet) {
	em.Rate = p.NrOfParticles
	em.Lifetime = particle.Uniform(p.Lifetime.X(), p.Lifetime.Y())
	em.Scale = particle.Uniform(p.Size.X(), p.Size.Y())
	em.Rotation = particle.Uniform(p.Rotation.X(), p.Rotation.Y())
	em.RotationSpeed = particle.Uniform(p.RotationSpeed.X(), p.RotationSpeed.Y())
	em.Color = p.Color
	em.Velocity = VelocityDistribution(p)
	em.Position = PositionDistribution(p)
}

// VelocityDistribution resolves the velocity fields: polar or cartesian
// first, then optionally wrapped in a deflection.
func VelocityDistribution(p *preset.ParameterSet) particle.Vector {
	var v particle.Vector
	if p.VelocityPolarVector {
		v = particle.Polar(p.Velocity.X(), p.Velocity.Y())
	} else {
		v = particle.ConstVec(p.Velocity)
	}
	if p.Deflect {
		return particle.Deflect(v, p.MaxRotation)
	}
	return v
}

// PositionDistribution picks the spawn area selected by p.Shape.
func PositionDistribution(p *preset.ParameterSet) particle.Vector {
	switch p.Shape {
	case preset.ShapeCircle:
		return particle.Circle(p.Position, p.Radius)
	case preset.ShapeRectangle:
		return particle.Rect(p.Position, p.HalfSize)
	default:
		return particle.ConstVec(p.Position)
	}
}

var blendMultiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
	BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Blend converts a preset blend mode. None draws with the default
// source-over blending.
func Blend(m preset.BlendMode) ebiten.Blend {
	switch m {
	case preset.BlendAdd:
		return ebiten.BlendLighter
	case preset.BlendMultiply:
		return blendMultiply
	default:
		return ebiten.BlendSourceOver
	}
}

// dotTexture is used when a preset names no texture.
var dotTexture *ebiten.Image

func defaultTexture() *ebiten.Image {
	if dotTexture == nil {
		const size = 8
		pix := make([]byte, 4*size*size)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dx, dy := float64(x)-size/2+0.5, float64(y)-size/2+0.5
				if dx*dx+dy*dy <= size*size/4 {
					i := 4 * (y*size + x)
					pix[i], pix[i+1], pix[i+2], pix[i+3] = 0xff, 0xff, 0xff, 0xff
				}
			}
		}
		dotTexture = ebiten.NewImage(size, size)
		dotTexture.WritePixels(pix)
	}
	return dotTexture
}
