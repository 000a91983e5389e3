package particle

import "github.com/go-gl/mathgl/mgl64"

type AffectorKind int

const (
	AffectorForce AffectorKind = iota
	AffectorTorque
	AffectorFade
)

func (k AffectorKind) String() string {
	switch k {
	case AffectorForce:
		return "force"
	case AffectorTorque:
		return "torque"
	case AffectorFade:
		return "fade"
	}
	return "unknown"
}

// Affector modifies every live particle once per step.
type Affector struct {
	Kind AffectorKind

	Force  mgl64.Vec2 // px/s², Force
	Torque float64    // deg/s², Torque

	// Fade: fractions of the lifetime spent fading in and out.
	FadeIn, FadeOut float64
}

func ForceAffector(f mgl64.Vec2) Affector { return Affector{Kind: AffectorForce, Force: f} }

func TorqueAffector(torque float64) Affector { return Affector{Kind: AffectorTorque, Torque: torque} }

func FadeAffector(in, out float64) Affector {
	return Affector{Kind: AffectorFade, FadeIn: in, FadeOut: out}
}

func (a Affector) apply(p *Particle, dt float64) {
	switch a.Kind {
	case AffectorForce:
		p.Velocity = p.Velocity.Add(a.Force.Mul(dt))
	case AffectorTorque:
		p.RotationSpeed += a.Torque * dt
	case AffectorFade:
		p.Color.A = uint8(float64(p.baseAlpha)*fadeFactor(p.Progress(), a.FadeIn, a.FadeOut) + 0.5)
	}
}

// fadeFactor maps lifetime progress t∈[0,1] to an alpha multiplier that
// rises over [0, in] and falls over [1-out, 1].
func fadeFactor(t, in, out float64) float64 {
	if in > 0 && t < in {
		return t / in
	}
	if out > 0 && t > 1-out {
		return (1 - t) / out
	}
	return 1
}
