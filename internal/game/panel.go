package game

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/particle-editor/internal/config"
	"github.com/iburimskiy/particle-editor/internal/particle"
	"github.com/iburimskiy/particle-editor/internal/preset"
)

// buildPanel lays out every parameter widget. Edits land directly in
// e.params and are validated at the start of the next frame.
func (e *Editor) buildPanel() {
	p := e.params
	c := e.ui

	c.Header("Playback")
	switch c.Buttons("Play", "Pause", "Stop", "Restart") {
	case 0:
		e.ctrl.Play()
	case 1:
		e.ctrl.Pause()
	case 2:
		e.ctrl.Stop()
	case 3:
		e.ctrl.Restart()
	}
	if c.Checkbox("Looping", &p.Looping) {
		e.ctrl.SetLooping(p.Looping)
	}
	if c.SliderFloat("Duration", &p.Duration, 0, config.MaxDuration) {
		e.ctrl.SetDuration(p.Duration)
	}

	c.Header("Emission")
	c.SliderFloat("Particles/s", &p.NrOfParticles, 0, config.MaxParticles)
	c.SliderFloat2("Lifetime", &p.Lifetime, 0, config.MaxLifetime)

	c.Header("Shape")
	shape := p.Shape.Index()
	if c.Combo("Shape", &shape, preset.ShapeNames) {
		p.Shape = preset.Shape(shape)
		e.session.State().ShapeIndex = shape
	}
	extent := float64(max(e.conf.WindowWidth, e.conf.WindowHeight))
	c.SliderFloat2("Position", &p.Position, 0, extent)
	switch p.Shape {
	case preset.ShapeCircle:
		c.SliderFloat("Radius", &p.Radius, 0, config.MaxRadius)
	case preset.ShapeRectangle:
		c.SliderFloat2("Half size", &p.HalfSize, 0, config.MaxRadius)
	}

	c.Header("Particle")
	c.SliderFloat2("Size", &p.Size, 0, config.MaxSize)
	c.SliderFloat2("Rotation", &p.Rotation, 0, config.MaxRotation)
	c.SliderFloat2("Rotation speed", &p.RotationSpeed, 0, config.MaxRotationSpeed)
	c.ColorEdit("Color", &p.Color)
	blend := int(p.BlendMode)
	if c.Combo("Blend", &blend, preset.BlendModeNames) {
		p.BlendMode = preset.BlendMode(blend)
		e.session.State().BlendIndex = blend
	}

	c.Header("Velocity")
	if c.Checkbox("Polar", &p.VelocityPolarVector) {
		p.Velocity = convertVelocity(p.Velocity, p.VelocityPolarVector)
	}
	if p.VelocityPolarVector {
		c.SliderFloat("Angle", &p.Velocity[0], 0, 360)
		c.SliderFloat("Magnitude", &p.Velocity[1], 0, config.MaxVelocity)
	} else {
		c.SliderFloat2("Velocity", &p.Velocity, -config.MaxVelocity, config.MaxVelocity)
	}
	c.Checkbox("Deflect", &p.Deflect)
	if p.Deflect {
		c.SliderFloat("Max rotation", &p.MaxRotation, 0, 180)
	}

	c.Header("Affectors")
	c.SliderFloat2("Force", &p.Force, -config.MaxForce, config.MaxForce)
	c.SliderFloat("Torque", &p.Torque, -config.MaxTorque, config.MaxTorque)
	c.SliderFloat2("Fade in/out", &p.Fader, 0, 1)

	c.Separator()
	c.Header("Files")
	c.Label("Preset: " + baseName(e.session.State().LastPresetPath, "unsaved"))
	switch c.Buttons("Open...", "Save...") {
	case 0:
		e.openPresetDialog()
	case 1:
		e.savePresetDialog()
	}
	switch c.Buttons("Texture...", "Default") {
	case 0:
		e.openTextureDialog()
	case 1:
		e.report(e.SetTexturePath(""))
	}
	switch c.Buttons("Sound...", "No sound") {
	case 0:
		e.openSoundDialog()
	case 1:
		e.report(e.SetSoundPath(""))
	}
}

// convertVelocity switches a velocity between cartesian (x, y) and polar
// (angle, magnitude) so toggling the mode keeps the same motion.
func convertVelocity(v mgl64.Vec2, toPolar bool) mgl64.Vec2 {
	if toPolar {
		if v.Len() == 0 {
			return mgl64.Vec2{}
		}
		angle := particle.AngleOf(v)
		if angle < 0 {
			angle += 360
		}
		return mgl64.Vec2{angle, v.Len()}
	}
	return mgl64.Rotate2D(mgl64.DegToRad(v.X())).Mul2x1(mgl64.Vec2{v.Y(), 0})
}

func baseName(path, empty string) string {
	if path == "" {
		return empty
	}
	return filepath.Base(path)
}

func (e *Editor) filesLine() string {
	return fmt.Sprintf("texture: %s  sound: %s",
		baseName(e.params.FullParticlePath, "built-in"), baseName(e.params.SoundPath, "none"))
}

func (e *Editor) statusLine() string {
	return fmt.Sprintf("%s  %s  particles: %d  affectors: %s",
		e.ctrl.State(), formatDuration(e.ctrl.Elapsed()),
		e.effect.System.Count(), formatAffectors(e.effect.ActiveAffectors()))
}
